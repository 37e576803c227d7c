package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/demolab/internal/service"
	"github.com/vanshika/demolab/internal/ui"
)

type sumResponse struct {
	Text  string   `json:"text"`
	Value *float64 `json:"value"`
}

type textResponse struct {
	Backwards string       `json:"backwards"`
	Vertical  ui.Component `json:"vertical"`
}

// sum answers with the sentence text and, when both inputs are numbers,
// the numeric value.
func (h *APIHandlers) sum(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	resp := sumResponse{Text: service.SumText(a, b)}
	if v, err := service.Sum(a, b); err == nil {
		resp.Value = &v
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) barPlot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, service.BarPlot(r.URL.Query().Get("a"), r.URL.Query().Get("b")))
}

func (h *APIHandlers) text(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("text")
	respondJSON(w, http.StatusOK, textResponse{Backwards: service.Backwards(s), Vertical: service.Vertical(s)})
}

// startGridSearch queues a search. An empty body searches the default grid.
func (h *APIHandlers) startGridSearch(w http.ResponseWriter, r *http.Request) {
	var params service.GridSearchParams
	if err := decodeJSON(r, &params); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	snap, err := h.svc.Reactivity.StartGridSearch(params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/tasks/"+snap.ID)
	respondJSON(w, http.StatusAccepted, snap)
}

func (h *APIHandlers) taskStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.tasks.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *APIHandlers) cancelTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tasks.Cancel(id); err != nil {
		h.fail(w, r, err)
		return
	}
	snap, err := h.tasks.Get(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, snap)
}

func (h *APIHandlers) taskResult(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reactivity.GridSearchResult(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// taskEvents streams task progress as server-sent events. Each change is a
// "progress" event; a final "done" event follows once the task finishes.
func (h *APIHandlers) taskEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events, unsubscribe, err := h.tasks.Subscribe(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer unsubscribe()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			_ = rc.Flush()
		case ev, ok := <-events:
			if !ok {
				fmt.Fprintf(w, "event: done\ndata: {\"task_id\":%q}\n\n", id)
				_ = rc.Flush()
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("encode task event", "task_id", id, "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data); err != nil {
				return
			}
			_ = rc.Flush()
		}
	}
}
