package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/demolab/internal/service"
	"github.com/vanshika/demolab/internal/tasks"
	"github.com/vanshika/demolab/internal/ui"
)

const defaultHeartbeat = 30 * time.Second

// TaskService is the part of the task manager the API exposes.
type TaskService interface {
	Get(id string) (tasks.Snapshot, error)
	Cancel(id string) error
	Subscribe(id string) (<-chan tasks.Event, func(), error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger    *slog.Logger
	apps      *ui.Registry
	svc       service.Services
	tasks     TaskService
	heartbeat time.Duration
}

// NewAPIHandlers constructs an APIHandlers instance. Services left nil in
// svc answer 503 on their routes.
func NewAPIHandlers(logger *slog.Logger, apps *ui.Registry, svc service.Services, taskSvc TaskService) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		apps:      apps,
		svc:       svc,
		tasks:     taskSvc,
		heartbeat: defaultHeartbeat,
	}
}

func (h *APIHandlers) routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		methodNotAllowed(w)
	})

	r.Get("/apps", h.listApps)
	r.Get("/apps/{app}/pages/{page}", h.renderPage)

	r.Route("/graph", func(r chi.Router) {
		r.Use(h.requires(h.svc.Social != nil, "graph viewer"))
		r.Get("/friendships", h.friendships)
		r.Get("/interactions", h.interactions)
		r.Get("/view", h.graphView)
		r.Post("/selection", h.selectNode)
		r.Post("/path", h.strongestPath)
		r.Get("/centrality", h.centrality)
		r.Post("/transitivity", h.transitivity)
		r.Get("/recommendations/{node}", h.recommendations)
	})

	r.Route("/explorer", func(r chi.Router) {
		r.Use(h.requires(h.svc.Explorer != nil, "data explorer"))
		r.Get("/table", h.explorerTable)
		r.Post("/distribution", h.distribution)
		r.Post("/describe", h.describe)
	})

	r.Route("/wrangler/datasets", func(r chi.Router) {
		r.Use(h.requires(h.svc.Wrangler != nil, "dataset wrangler"))
		r.Post("/", h.uploadDataset)
		r.Post("/sample", h.sampleDataset)
		r.Get("/{id}", h.getDataset)
		r.Delete("/{id}", h.deleteDataset)
		r.Get("/{id}/columns", h.datasetColumns)
		r.Post("/{id}/slice", h.sliceDataset)
		r.Get("/{id}/plot", h.plotColumn)
		r.Get("/{id}/download", h.downloadDataset)
	})

	r.Route("/indicators", func(r chi.Router) {
		r.Use(h.requires(h.svc.Indicators != nil, "indicators"))
		r.Get("/features", h.indicatorFeatures)
		r.Get("/map", h.worldMap)
		r.Get("/top", h.topTen)
		r.Post("/timeseries", h.timeseries)
		r.Post("/selection", h.toggleCountry)
	})

	r.Route("/reactivity", func(r chi.Router) {
		r.Get("/sum", h.sum)
		r.Get("/barplot", h.barPlot)
		r.Get("/text", h.text)
		r.With(h.requires(h.svc.Reactivity != nil && h.tasks != nil, "grid search")).
			Post("/gridsearch", h.startGridSearch)
	})

	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Use(h.requires(h.tasks != nil, "task manager"))
		r.Get("/", h.taskStatus)
		r.Delete("/", h.cancelTask)
		r.Get("/events", h.taskEvents)
		r.With(h.requires(h.svc.Reactivity != nil, "grid search")).Get("/result", h.taskResult)
	})

	r.Route("/advisor", func(r chi.Router) {
		r.Use(h.requires(h.svc.Advisor != nil, "sales advisor"))
		r.Get("/summary", h.advisorSummary)
		r.Get("/residuals", h.residuals)
		r.Get("/scatter", h.salesScatter)
		r.Get("/questions", h.questions)
		r.Post("/ask", h.ask)
	})

	r.Route("/styling", func(r chi.Router) {
		r.Post("/box", h.styledBox)
		r.Post("/raw", h.rawCSS)
		r.Get("/units", h.units)
		r.Get("/resources", h.resources)
	})
}

// requires answers 503 for every route of a demo whose data is not loaded.
func (h *APIHandlers) requires(ok bool, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if ok {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusServiceUnavailable, name+" is not available")
		})
	}
}

func (h *APIHandlers) listApps(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.apps.Apps())
}

func (h *APIHandlers) renderPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.apps.Render(chi.URLParam(r, "app"), chi.URLParam(r, "page"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrNoPath),
		errors.Is(err, tasks.ErrNotFound),
		errors.Is(err, ui.ErrUnknownPage):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, tasks.ErrNotFinished), errors.Is(err, tasks.ErrFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

// decodeBody decodes a required JSON body and reports failures as 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func parseInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
