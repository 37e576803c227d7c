package server

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/demolab/internal/service"
)

const maxUploadBytes = 32 << 20

var downloadTypes = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type rowsRequest struct {
	Feature string   `json:"feature"`
	Rows    []string `json:"rows"`
}

type timeseriesRequest struct {
	Countries []string `json:"countries"`
	Feature   string   `json:"feature"`
}

type countryRequest struct {
	Selection []string `json:"selection"`
	Country   string   `json:"country"`
}

type indicatorFeatures struct {
	Features       []string `json:"features"`
	Years          []int    `json:"years"`
	DefaultFeature string   `json:"default_feature"`
	DefaultYear    int      `json:"default_year"`
}

func (h *APIHandlers) explorerTable(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Explorer.Table())
}

func (h *APIHandlers) distribution(w http.ResponseWriter, r *http.Request) {
	var req rowsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dist, err := h.svc.Explorer.Distribution(req.Feature, req.Rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dist)
}

func (h *APIHandlers) describe(w http.ResponseWriter, r *http.Request) {
	var req rowsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	summary, err := h.svc.Explorer.Describe(req.Rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// uploadDataset accepts a multipart form with a "file" field, or the raw
// file as the body with its name in the "name" query parameter.
func (h *APIHandlers) uploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	name := r.URL.Query().Get("name")
	var content []byte
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
			return
		}
		defer file.Close()
		if content, err = io.ReadAll(file); err != nil {
			writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
			return
		}
		name = header.Filename
	} else {
		var err error
		if content, err = io.ReadAll(r.Body); err != nil {
			writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
			return
		}
	}
	if name == "" {
		name = "upload.csv"
	}

	info, err := h.svc.Wrangler.Upload(name, content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, info)
}

func (h *APIHandlers) sampleDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Wrangler.UseSample()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, info)
}

func (h *APIHandlers) getDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Wrangler.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *APIHandlers) deleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Wrangler.Delete(chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) datasetColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := h.svc.Wrangler.Columns(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cols)
}

func (h *APIHandlers) sliceDataset(w http.ResponseWriter, r *http.Request) {
	var req service.SliceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	info, err := h.svc.Wrangler.Slice(chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *APIHandlers) plotColumn(w http.ResponseWriter, r *http.Request) {
	plot, err := h.svc.Wrangler.Plot(chi.URLParam(r, "id"), r.URL.Query().Get("column"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plot)
}

func (h *APIHandlers) downloadDataset(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := h.svc.Wrangler.Download(chi.URLParam(r, "id"), r.URL.Query().Get("format"), &buf)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ext := filename[strings.LastIndex(filename, "."):]
	w.Header().Set("Content-Type", downloadTypes[ext])
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *APIHandlers) indicatorFeatures(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.Indicators.Years()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, indicatorFeatures{
		Features:       h.svc.Indicators.Features(),
		Years:          years,
		DefaultFeature: service.DefaultIndicator,
		DefaultYear:    service.DefaultYear,
	})
}

// indicatorQuery reads the feature and year query parameters.
func indicatorQuery(r *http.Request) (string, int, error) {
	feature := r.URL.Query().Get("feature")
	if feature == "" {
		feature = service.DefaultIndicator
	}
	year, err := parseInt(r.URL.Query().Get("year"), service.DefaultYear)
	return feature, year, err
}

func (h *APIHandlers) worldMap(w http.ResponseWriter, r *http.Request) {
	feature, year, err := indicatorQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	plot, err := h.svc.Indicators.WorldMap(feature, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plot)
}

func (h *APIHandlers) topTen(w http.ResponseWriter, r *http.Request) {
	feature, year, err := indicatorQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	plot, err := h.svc.Indicators.TopTen(feature, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plot)
}

func (h *APIHandlers) timeseries(w http.ResponseWriter, r *http.Request) {
	var req timeseriesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Feature == "" {
		req.Feature = service.DefaultIndicator
	}
	plot, err := h.svc.Indicators.Timeseries(req.Countries, req.Feature)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plot)
}

// toggleCountry adds or removes a clicked country. An empty country resets
// the selection.
func (h *APIHandlers) toggleCountry(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	selection := []string{}
	if req.Country != "" {
		selection = service.ToggleCountry(req.Selection, req.Country)
	}
	respondJSON(w, http.StatusOK, selectionResponse{Selection: selection})
}
