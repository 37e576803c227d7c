package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/vanshika/demolab/internal/classify"
	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/tasks"
	"github.com/vanshika/demolab/internal/ui"
)

const (
	NotCalculable     = " not calculable."
	MsgNonNumeric     = "Please make sure your inputs are numerical values."
	irisTarget        = "species"
	irisTestSize      = 0.30
	defaultSearchSeed = 42
	gridSearchTask    = "grid-search"
)

// GridSearchParams selects the search space. Empty lists fall back to the
// defaults of package classify.
type GridSearchParams struct {
	Kernels []classify.Kernel `json:"kernels"`
	C       []float64         `json:"c"`
	Gamma   []float64         `json:"gamma"`
	Seed    *uint64           `json:"seed,omitempty"`
}

// GridSearchReport summarises a finished search.
type GridSearchReport struct {
	Best     classify.Params `json:"best"`
	Accuracy float64         `json:"accuracy"`
	Matrix   [][]int         `json:"matrix"`
	Classes  []string        `json:"classes"`
	Figure   figure.Figure   `json:"figure"`
}

// TaskRunner is the part of the task manager the service needs.
type TaskRunner interface {
	Submit(name string, fn tasks.Func) tasks.Snapshot
	Result(id string) (any, tasks.Snapshot, error)
}

// ReactivityService backs the interactivity app.
type ReactivityService struct {
	logger *slog.Logger
	iris   *dataset.Frame
	tasks  TaskRunner
}

// LoadReactivity reads iris.csv from root.
func LoadReactivity(root string, runner TaskRunner, logger *slog.Logger) (*ReactivityService, error) {
	iris, err := dataset.ReadCSVFile(filepath.Join(root, "iris.csv"), dataset.Options{IndexCol: true})
	if err != nil {
		return nil, err
	}
	return NewReactivityService(iris, runner, logger), nil
}

func NewReactivityService(iris *dataset.Frame, runner TaskRunner, logger *slog.Logger) *ReactivityService {
	return &ReactivityService{logger: logger, iris: iris, tasks: runner}
}

// Sum adds two numbers given as text.
func Sum(a, b string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, a)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, b)
	}
	return x + y, nil
}

// SumText is the sum as displayed in a sentence.
func SumText(a, b string) string {
	s, err := Sum(a, b)
	if err != nil {
		return NotCalculable
	}
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// BarPlot charts both inputs and their sum, green when non-negative.
func BarPlot(a, b string) ui.Component {
	s, err := Sum(a, b)
	if err != nil {
		return ui.Stack(ui.Text(MsgNonNumeric)).With(ui.Props{"align": "center"})
	}
	x, _ := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, _ := strconv.ParseFloat(strings.TrimSpace(b), 64)
	values := []float64{x, y, s}
	colors := make([]string, len(values))
	for i, v := range values {
		colors[i] = figure.Red
		if v >= 0 {
			colors[i] = figure.Green
		}
	}
	labels := []string{"num_1", "num_2", "sum"}
	return ui.Figure(figure.Figure{
		Kind:       figure.KindHBar,
		Title:      "Bar Plot",
		Categories: labels,
		Series:     []figure.Series{{Labels: labels, X: values, Colors: colors}},
	})
}

// Backwards reverses s by rune.
func Backwards(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}

// Vertical stacks one small text per rune of s.
func Vertical(s string) ui.Component {
	letters := make([]ui.Component, 0, len(s))
	for _, r := range s {
		letters = append(letters, ui.Text(string(r)).With(ui.Props{"font_size": "9px"}))
	}
	return ui.Stack(letters...).With(ui.Props{"scroll": true})
}

// StartGridSearch submits a grid search over the iris dataset and returns
// the task snapshot.
func (s *ReactivityService) StartGridSearch(params GridSearchParams) (tasks.Snapshot, error) {
	kernels, cs, gammas := params.Kernels, params.C, params.Gamma
	if len(kernels) == 0 {
		kernels = classify.DefaultKernels
	}
	if len(cs) == 0 {
		cs = classify.DefaultC
	}
	if len(gammas) == 0 {
		gammas = classify.DefaultGamma
	}
	seed := uint64(defaultSearchSeed)
	if params.Seed != nil {
		seed = *params.Seed
	}

	split, err := classify.TrainTestSplit(s.iris, irisTarget, irisTestSize, seed)
	if err != nil {
		return tasks.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, k := range kernels {
		if !slices.Contains(classify.DefaultKernels, k) {
			return tasks.Snapshot{}, fmt.Errorf("%w: kernel %q", ErrInvalidInput, k)
		}
	}

	snap := s.tasks.Submit(gridSearchTask, func(ctx context.Context, u tasks.Updater) (any, error) {
		return classify.GridSearch(ctx, split, kernels, cs, gammas, u.SendUpdate)
	})
	s.logger.Info("grid search submitted",
		slog.String("task_id", snap.ID),
		slog.Int("combinations", len(kernels)*len(cs)*len(gammas)),
	)
	return snap, nil
}

// GridSearchResult reports the best model of a finished search with its
// confusion matrix.
func (s *ReactivityService) GridSearchResult(taskID string) (GridSearchReport, error) {
	value, snap, err := s.tasks.Result(taskID)
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return GridSearchReport{}, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	case err != nil:
		return GridSearchReport{}, err
	case snap.Status != tasks.StatusSucceeded:
		return GridSearchReport{}, fmt.Errorf("task %s %s: %s", taskID, snap.Status, snap.Error)
	}
	res, ok := value.(*classify.Result)
	if !ok {
		return GridSearchReport{}, fmt.Errorf("%w: task %s is not a grid search", ErrInvalidInput, taskID)
	}
	matrix := classify.ConfusionMatrix(res.Truth, res.Predictions, res.Classes)
	return GridSearchReport{
		Best:     res.Best,
		Accuracy: res.Score,
		Matrix:   matrix,
		Classes:  res.Classes,
		Figure:   confusionFigure(matrix, res.Classes),
	}, nil
}

func confusionFigure(matrix [][]int, classes []string) figure.Figure {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range matrix {
		for _, v := range row {
			lo, hi = math.Min(lo, float64(v)), math.Max(hi, float64(v))
		}
	}
	mapper := figure.NewLinearColorMapper(figure.Blues9, lo, hi)
	var cells []figure.Cell
	for i, row := range matrix {
		for j, v := range row {
			cells = append(cells, figure.Cell{
				X:     classes[j],
				Y:     classes[i],
				Value: float64(v),
				Fill:  mapper.Map(float64(v)),
			})
		}
	}
	return figure.Figure{
		Kind:       figure.KindHeatmap,
		Title:      "Confusion Matrix",
		XLabel:     "Predicted",
		YLabel:     "Actual",
		Categories: classes,
		Cells:      cells,
		ColorScale: figure.Blues9,
		Mapper:     &mapper,
	}
}
