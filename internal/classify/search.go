package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/demolab/internal/dataset"
)

// Default search space.
var (
	DefaultKernels = []Kernel{Linear, Poly, RBF, Sigmoid}
	DefaultC       = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	DefaultGamma   = []float64{5, 1, 0.1, 0.05, 0.01, 0.005, 0.001, 0.0005, 0.0001}
)

// ErrNoModel is returned when no combination scored above zero.
var ErrNoModel = errors.New("classify: no parameter combination produced a usable model")

// ProgressFunc receives a percentage and a short message.
type ProgressFunc func(progress float64, message string)

// Split holds a train/test partition of a labelled table.
type Split struct {
	TrainX  [][]float64
	TrainY  []string
	TestX   [][]float64
	TestY   []string
	Classes []string
}

// TrainTestSplit separates the target column from the numeric features and
// partitions the rows with a seeded shuffle.
func TrainTestSplit(f *dataset.Frame, target string, testSize float64, seed uint64) (*Split, error) {
	labels, err := f.Column(target)
	if err != nil {
		return nil, err
	}
	var features [][]float64
	for _, c := range f.Columns() {
		if c == target {
			continue
		}
		vals, err := f.Floats(c)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", c, err)
		}
		features = append(features, vals)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no feature columns besides %s", ErrBadParams, target)
	}

	row := func(i int) []float64 {
		out := make([]float64, len(features))
		for j, col := range features {
			out[j] = col[i]
		}
		return out
	}

	train, test, err := dataset.TrainTestSplit(f.Len(), testSize, seed)
	if err != nil {
		return nil, err
	}
	s := &Split{Classes: uniqueSorted(labels)}
	for _, i := range train {
		s.TrainX = append(s.TrainX, row(i))
		s.TrainY = append(s.TrainY, labels[i])
	}
	for _, i := range test {
		s.TestX = append(s.TestX, row(i))
		s.TestY = append(s.TestY, labels[i])
	}
	return s, nil
}

// Result is the outcome of a grid search.
type Result struct {
	Best        Params   `json:"best"`
	Score       float64  `json:"score"`
	Classes     []string `json:"classes"`
	Truth       []string `json:"truth"`
	Predictions []string `json:"predictions"`
}

// GridSearch fits every kernel x C x gamma combination and keeps the one
// with the strictly highest test accuracy. progress is called once per
// kernel and once more on completion.
func GridSearch(ctx context.Context, split *Split, kernels []Kernel, cs, gammas []float64, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(float64, string) {}
	}
	var best *SVC
	var bestScore float64
	for i, kernel := range kernels {
		for _, c := range cs {
			for _, gamma := range gammas {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				model, err := Fit(split.TrainX, split.TrainY, Params{Kernel: kernel, C: c, Gamma: gamma})
				if err != nil {
					return nil, err
				}
				score := Accuracy(split.TestY, model.Predict(split.TestX))
				if score > bestScore {
					bestScore = score
					best = model
				}
			}
		}
		progress(float64(i)/float64(len(kernels))*100, fmt.Sprintf("Step %d", i))
	}
	progress(100, "Done")

	if best == nil {
		return nil, ErrNoModel
	}
	return &Result{
		Best:        best.Params,
		Score:       bestScore,
		Classes:     append([]string(nil), split.Classes...),
		Truth:       append([]string(nil), split.TestY...),
		Predictions: best.Predict(split.TestX),
	}, nil
}
