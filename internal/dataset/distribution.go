package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerate is returned when a distribution cannot be estimated from the
// data, for example a KDE over constant values.
var ErrDegenerate = errors.New("degenerate sample")

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi
	return out
}

// DropNaN returns the finite, non-NaN values.
func DropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Histogram holds equal-width bin counts and their edges.
type Histogram struct {
	Counts []int     `json:"counts"`
	Edges  []float64 `json:"edges"`
}

// Left returns the lower edge of bin i.
func (h Histogram) Left(i int) float64 { return h.Edges[i] }

// Right returns the upper edge of bin i.
func (h Histogram) Right(i int) float64 { return h.Edges[i+1] }

// NewHistogram bins values between their min and max. The last bin is
// closed on the right. A constant sample spans [v-0.5, v+0.5].
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins <= 0 {
		return Histogram{}, fmt.Errorf("bins must be positive, got %d", bins)
	}
	data := DropNaN(values)
	if len(data) == 0 {
		return Histogram{}, fmt.Errorf("histogram: %w", stats.ErrEmptyInput)
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	h := Histogram{
		Counts: make([]int, bins),
		Edges:  Linspace(lo, hi, bins+1),
	}
	width := hi - lo
	for _, v := range data {
		idx := int((v - lo) * float64(bins) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h, nil
}

// GaussianKDE estimates a density with a Gaussian kernel using Scott's rule
// (bandwidth n^(-1/5) times the sample standard deviation) and evaluates it
// on `points` evenly spaced values between the sample min and max.
func GaussianKDE(values []float64, points int) (xs, ys []float64, err error) {
	data := DropNaN(values)
	if len(data) < 2 {
		return nil, nil, fmt.Errorf("kde needs at least two values: %w", ErrDegenerate)
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return nil, nil, fmt.Errorf("kde: %w", err)
	}
	if sd == 0 {
		return nil, nil, fmt.Errorf("kde over constant values: %w", ErrDegenerate)
	}
	bandwidth := sd * math.Pow(float64(len(data)), -1.0/5.0)

	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	xs = Linspace(lo, hi, points)
	ys = make([]float64, len(xs))

	kernels := make([]distuv.Normal, len(data))
	for i, v := range data {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bandwidth}
	}
	n := float64(len(data))
	for i, x := range xs {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		ys[i] = sum / n
	}
	return xs, ys, nil
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear
// interpolation between closest ranks. sorted must be ascending.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// QCut assigns each value to one of len(labels) quantile bins. Bins are
// closed on the right and the first bin also includes the minimum. Missing
// values get an empty label.
func QCut(values []float64, labels []string) ([]string, error) {
	k := len(labels)
	if k == 0 {
		return nil, errors.New("qcut requires at least one label")
	}
	data := DropNaN(values)
	if len(data) == 0 {
		return nil, fmt.Errorf("qcut: %w", stats.ErrEmptyInput)
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	edges := make([]float64, k+1)
	for i := range edges {
		edges[i] = Quantile(sorted, float64(i)/float64(k))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] == edges[i-1] {
			return nil, fmt.Errorf("qcut bin edges must be unique, got duplicate %v: %w", edges[i], ErrDegenerate)
		}
	}

	out := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		for b := 0; b < k; b++ {
			if v <= edges[b+1] {
				out[i] = labels[b]
				break
			}
		}
	}
	return out, nil
}
