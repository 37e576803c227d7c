package server

import (
	"net/http"

	"github.com/vanshika/demolab/internal/service"
)

type questionsResponse struct {
	Questions []string `json:"questions"`
	Available bool     `json:"available"`
}

type askRequest struct {
	Question string `json:"question"`
}

type rawCSSRequest struct {
	Target string `json:"target"`
	CSS    string `json:"css"`
}

func (h *APIHandlers) advisorSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Advisor.Summary())
}

func (h *APIHandlers) residuals(w http.ResponseWriter, r *http.Request) {
	plots, err := h.svc.Advisor.Residuals()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plots)
}

func (h *APIHandlers) salesScatter(w http.ResponseWriter, r *http.Request) {
	fig, err := h.svc.Advisor.Scatter(r.URL.Query().Get("feature"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, fig)
}

func (h *APIHandlers) questions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, questionsResponse{
		Questions: h.svc.Advisor.Questions(),
		Available: h.svc.Advisor.Available(),
	})
}

func (h *APIHandlers) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	answer, err := h.svc.Advisor.Ask(r.Context(), req.Question)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, answer)
}

func (h *APIHandlers) styledBox(w http.ResponseWriter, r *http.Request) {
	style := service.DefaultBoxStyle()
	if !decodeBody(w, r, &style) {
		return
	}
	respondJSON(w, http.StatusOK, service.StyledBox(style))
}

func (h *APIHandlers) rawCSS(w http.ResponseWriter, r *http.Request) {
	var req rawCSSRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, err := service.RawCSSTarget(req.Target)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	styled, err := service.ApplyRawCSS(target, req.CSS)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, styled)
}

func (h *APIHandlers) units(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, service.Units())
}

func (h *APIHandlers) resources(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, service.Resources())
}
