package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
)

// Messages shown in place of a plot or table.
const (
	MsgNoData         = "Please upload data to visualize and download data."
	MsgTooFewRows     = "Plots are available for datasets with at least two rows"
	MsgSelectVariable = "Select variable to see the plot."
	MsgDatetimePlot   = "Datetime columns cannot be plotted"
)

// Download formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const kdePoints = 500

// Dataset is an uploaded table and its current filtered view.
type Dataset struct {
	ID        string
	Name      string
	Data      *dataset.Frame
	Filtered  *dataset.Frame
	CreatedAt time.Time
}

// DatasetInfo is the JSON view of a dataset.
type DatasetInfo struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Rows     int                  `json:"rows"`
	Filtered int                  `json:"filtered_rows"`
	Columns  []dataset.ColumnInfo `json:"columns"`
	Records  []map[string]any     `json:"records"`
	Message  string               `json:"message,omitempty"`
}

// ColumnFilter restricts one column. Numerical columns use Min and Max,
// categorical columns use Values.
type ColumnFilter struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Values []string `json:"values,omitempty"`
}

// SliceRequest keeps the rows at positions Lower..Upper inclusive that pass
// every filter. Nil bounds are open.
type SliceRequest struct {
	Lower   *int           `json:"lower,omitempty"`
	Upper   *int           `json:"upper,omitempty"`
	Filters []ColumnFilter `json:"filters,omitempty"`
}

// ColumnPlot is either a figure or a message explaining why there is none.
type ColumnPlot struct {
	Figure  *figure.Figure `json:"figure,omitempty"`
	Message string         `json:"message,omitempty"`
}

// WranglerService keeps uploaded datasets in memory.
type WranglerService struct {
	logger   *slog.Logger
	root     string
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

func NewWranglerService(root string, logger *slog.Logger) *WranglerService {
	return &WranglerService{logger: logger, root: root, datasets: map[string]*Dataset{}}
}

// Upload parses content as CSV with an index column, or as a workbook when
// name ends in .xlsx.
func (s *WranglerService) Upload(name string, content []byte) (DatasetInfo, error) {
	opts := dataset.Options{IndexCol: true}
	var (
		frame *dataset.Frame
		err   error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		frame, err = dataset.ReadXLSX(bytes.NewReader(content), opts)
	} else {
		frame, err = dataset.ReadCSV(bytes.NewReader(content), opts)
	}
	if err != nil {
		return DatasetInfo{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.store(name, frame), nil
}

// UseSample loads the 401k dataset as a new upload.
func (s *WranglerService) UseSample() (DatasetInfo, error) {
	frame, err := dataset.ReadCSVFile(filepath.Join(s.root, "401k.csv"), dataset.Options{IndexCol: true})
	if err != nil {
		return DatasetInfo{}, err
	}
	return s.store("401k.csv", frame), nil
}

func (s *WranglerService) store(name string, frame *dataset.Frame) DatasetInfo {
	ds := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Data:      frame,
		Filtered:  frame,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()
	s.logger.Info("dataset uploaded", slog.String("id", ds.ID), slog.String("name", name), slog.Int("rows", frame.Len()))
	return info(ds)
}

func info(ds *Dataset) DatasetInfo {
	out := DatasetInfo{
		ID:       ds.ID,
		Name:     ds.Name,
		Rows:     ds.Data.Len(),
		Filtered: ds.Filtered.Len(),
		Columns:  dataset.Schema(ds.Filtered),
		Records:  ds.Filtered.Records(),
	}
	if ds.Filtered.Empty() {
		out.Message = MsgNoData
	}
	return out
}

func (s *WranglerService) lookup(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	return ds, nil
}

// Get returns the dataset and its filtered rows.
func (s *WranglerService) Get(id string) (DatasetInfo, error) {
	ds, err := s.lookup(id)
	if err != nil {
		return DatasetInfo{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return info(ds), nil
}

// Columns returns the inferred type of every column.
func (s *WranglerService) Columns(id string) ([]dataset.ColumnInfo, error) {
	ds, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return dataset.Schema(ds.Data), nil
}

// Slice recomputes the filtered view from the full dataset.
func (s *WranglerService) Slice(id string, req SliceRequest) (DatasetInfo, error) {
	ds, err := s.lookup(id)
	if err != nil {
		return DatasetInfo{}, err
	}

	lo, hi := 0, ds.Data.Len()-1
	if req.Lower != nil {
		lo = *req.Lower
	}
	if req.Upper != nil {
		hi = *req.Upper
	}
	if lo > hi {
		return DatasetInfo{}, fmt.Errorf("%w: lower bound %d exceeds upper bound %d", ErrInvalidInput, lo, hi)
	}

	keep := make([]func(i int) bool, 0, len(req.Filters))
	for _, cf := range req.Filters {
		pred, err := columnPredicate(ds.Data, cf)
		if err != nil {
			return DatasetInfo{}, err
		}
		keep = append(keep, pred)
	}
	filtered := ds.Data.Slice(lo, hi+1).Filter(func(i int) bool {
		for _, k := range keep {
			if !k(i + max(lo, 0)) {
				return false
			}
		}
		return true
	})

	s.mu.Lock()
	ds.Filtered = filtered
	out := info(ds)
	s.mu.Unlock()
	return out, nil
}

// columnPredicate tests rows of the full frame by position.
func columnPredicate(f *dataset.Frame, cf ColumnFilter) (func(i int) bool, error) {
	if !f.HasColumn(cf.Column) {
		return nil, fmt.Errorf("%w: column %q", ErrNotFound, cf.Column)
	}
	if dataset.InferColumnType(f, cf.Column) == dataset.Numerical {
		values, err := f.Floats(cf.Column)
		if err != nil {
			return nil, err
		}
		lo, hi := math.Inf(-1), math.Inf(1)
		if cf.Min != nil {
			lo = *cf.Min
		}
		if cf.Max != nil {
			hi = *cf.Max
		}
		return func(i int) bool {
			v := values[i]
			return !math.IsNaN(v) && v >= lo && v <= hi
		}, nil
	}
	if len(cf.Values) == 0 {
		return func(int) bool { return true }, nil
	}
	values, err := f.Column(cf.Column)
	if err != nil {
		return nil, err
	}
	return func(i int) bool { return slices.Contains(cf.Values, values[i]) }, nil
}

// Plot draws one column of the filtered view.
func (s *WranglerService) Plot(id, column string) (ColumnPlot, error) {
	ds, err := s.lookup(id)
	if err != nil {
		return ColumnPlot{}, err
	}
	s.mu.RLock()
	data := ds.Filtered
	s.mu.RUnlock()

	if data.Len() < 2 {
		return ColumnPlot{Message: MsgTooFewRows}, nil
	}
	if column == "" {
		return ColumnPlot{Message: MsgSelectVariable}, nil
	}
	if !data.HasColumn(column) {
		return ColumnPlot{}, fmt.Errorf("%w: column %q", ErrNotFound, column)
	}

	switch dataset.InferColumnType(data, column) {
	case dataset.Datetime:
		return ColumnPlot{Message: MsgDatetimePlot}, nil
	case dataset.Numerical:
		fig, err := kdePlot(data, column)
		if err != nil {
			return ColumnPlot{}, err
		}
		return ColumnPlot{Figure: &fig}, nil
	default:
		fig, err := categoryPlot(data, column)
		if err != nil {
			return ColumnPlot{}, err
		}
		return ColumnPlot{Figure: &fig}, nil
	}
}

func kdePlot(data *dataset.Frame, column string) (figure.Figure, error) {
	values, err := data.Floats(column)
	if err != nil {
		return figure.Figure{}, err
	}
	xs, ys, err := dataset.GaussianKDE(values, kdePoints)
	if err != nil {
		return figure.Figure{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return figure.Figure{
		Kind:   figure.KindLine,
		Title:  "Distribution - " + column,
		Series: []figure.Series{{X: xs, Y: ys}},
	}, nil
}

func categoryPlot(data *dataset.Frame, column string) (figure.Figure, error) {
	counts, err := data.ValueCounts(column)
	if err != nil {
		return figure.Figure{}, err
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Value < counts[j].Value })
	series := figure.Series{}
	for _, vc := range counts {
		series.Labels = append(series.Labels, vc.Value)
		series.Y = append(series.Y, float64(vc.Count))
	}
	return figure.Figure{
		Kind:       figure.KindBar,
		Title:      "Histogram - " + column,
		Categories: series.Labels,
		Series:     []figure.Series{series},
	}, nil
}

// Download writes the filtered view and returns the attachment file name.
func (s *WranglerService) Download(id, format string, w io.Writer) (string, error) {
	ds, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	data := ds.Filtered
	s.mu.RUnlock()
	if data.Empty() {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, MsgNoData)
	}

	switch strings.ToLower(format) {
	case "", FormatCSV:
		return "filtered_data.csv", data.WriteCSV(w)
	case FormatXLSX:
		return "filtered_data.xlsx", data.WriteXLSX(w, "")
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

// Delete forgets a dataset.
func (s *WranglerService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	delete(s.datasets, id)
	return nil
}

