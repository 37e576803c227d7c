package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramClosesLastBin(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, math.NaN()}
	h, err := NewHistogram(values, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, h.Counts)
	require.Len(t, h.Edges, 11)
	assert.Equal(t, 0.0, h.Left(0))
	assert.Equal(t, 10.0, h.Right(9))
}

func TestHistogramConstantSample(t *testing.T) {
	h, err := NewHistogram([]float64{3, 3, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 3, 3.5}, h.Edges)
	assert.Equal(t, []int{0, 3}, h.Counts)

	_, err = NewHistogram(nil, 10)
	require.Error(t, err)
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, Quantile(sorted, 0.25))
	assert.Equal(t, 2.5, Quantile(sorted, 0.5))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQCutQuartiles(t *testing.T) {
	labels := []string{"Below Q1", "Above Q1", "Above Q2", "Above Q3"}
	got, err := QCut([]float64{1, 2, 3, 4, 5, 6, 7, 8, math.NaN()}, labels)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Below Q1", "Below Q1",
		"Above Q1", "Above Q1",
		"Above Q2", "Above Q2",
		"Above Q3", "Above Q3",
		"",
	}, got)

	_, err = QCut([]float64{1, 1, 1, 1, 2}, labels)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestGaussianKDE(t *testing.T) {
	xs, ys, err := GaussianKDE([]float64{0, 1, 2, 3}, 5)
	require.NoError(t, err)
	require.Len(t, xs, 5)
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 3.0, xs[4])
	for _, y := range ys {
		assert.Greater(t, y, 0.0)
	}
	assert.InDelta(t, ys[0], ys[4], 1e-12, "symmetric sample gives a symmetric density")
	assert.Greater(t, ys[2], ys[0])

	_, _, err = GaussianKDE([]float64{2, 2, 2}, 10)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestDescribe(t *testing.T) {
	f := New("", "score", "grade")
	rows := [][]string{{"1", "A"}, {"2", "B"}, {"3", "A"}, {"4", ""}}
	for i, r := range rows {
		require.NoError(t, f.AppendRow(string(rune('a'+i)), r...))
	}

	numeric, categorical, err := Describe(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, numeric.Index)
	scores, _ := numeric.Column("score")
	assert.Equal(t, []string{"4", "2.5", scores[2], "1", "1.75", "2.5", "3.25", "4"}, scores)
	std, _ := numeric.Floats("score")
	assert.InDelta(t, 1.2909944, std[2], 1e-6)

	grades, _ := categorical.Column("grade")
	assert.Equal(t, []string{"3", "2", "A", "2"}, grades)
}

func TestDescribeSingleRowHasNoStd(t *testing.T) {
	f := New("", "v")
	require.NoError(t, f.AppendRow("0", "5"))
	numeric, categorical, err := Describe(f)
	require.NoError(t, err)
	std, _ := numeric.Column("v")
	assert.Equal(t, "", std[2])
	assert.Equal(t, 0, categorical.Len())
}

func TestTrainTestSplitIsSeededPartition(t *testing.T) {
	train, test, err := TrainTestSplit(200, 0.3, 100)
	require.NoError(t, err)
	assert.Len(t, test, 60)
	assert.Len(t, train, 140)

	seen := map[int]bool{}
	for _, i := range append(append([]int(nil), train...), test...) {
		assert.False(t, seen[i], "position %d repeated", i)
		seen[i] = true
	}
	assert.Len(t, seen, 200)

	again, _, err := TrainTestSplit(200, 0.3, 100)
	require.NoError(t, err)
	assert.Equal(t, train, again)

	_, _, err = TrainTestSplit(1, 0.3, 1)
	require.Error(t, err)
	_, _, err = TrainTestSplit(10, 1.5, 1)
	require.Error(t, err)
}
