package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/demolab/internal/dataset"
)

type selectionRequest struct {
	Selection []string `json:"selection"`
	Node      string   `json:"node"`
}

type selectionResponse struct {
	Selection []string `json:"selection"`
}

type pathRequest struct {
	Selection []string `json:"selection"`
}

type transitivityRequest struct {
	Edges [][2]string `json:"edges"`
}

func (h *APIHandlers) friendships(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Social.Friendships().Records())
}

func (h *APIHandlers) interactions(w http.ResponseWriter, r *http.Request) {
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	destination := strings.TrimSpace(r.URL.Query().Get("destination"))
	if (source == "") != (destination == "") {
		writeError(w, http.StatusBadRequest, "source and destination must be given together")
		return
	}
	var edge *dataset.Edge
	if source != "" {
		edge = &dataset.Edge{Source: source, Destination: destination}
	}
	rows, err := h.svc.Social.Interactions(edge)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows.Records())
}

func (h *APIHandlers) graphView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Social.Graph())
}

func (h *APIHandlers) selectNode(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Node == "" {
		writeError(w, http.StatusBadRequest, "node is required")
		return
	}
	selection, err := h.svc.Social.SelectNode(req.Selection, req.Node)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, selectionResponse{Selection: selection})
}

func (h *APIHandlers) strongestPath(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, err := h.svc.Social.StrongestPath(req.Selection)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *APIHandlers) centrality(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Social.Centrality(r.URL.Query().Get("measure"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *APIHandlers) transitivity(w http.ResponseWriter, r *http.Request) {
	var req transitivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.svc.Social.Transitivity(req.Edges))
}

func (h *APIHandlers) recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r.URL.Query().Get("limit"), 5)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	recs, err := h.svc.Social.Recommendations(chi.URLParam(r, "node"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}
