package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleFit(t *testing.T) *OLS {
	t.Helper()
	rows := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{2.2, 4.1, 6.1, 7.9, 10.2}
	m, err := FitOLS(rows, y, []string{"x"})
	require.NoError(t, err)
	return m
}

func TestFitOLSMatchesClosedForm(t *testing.T) {
	m := simpleFit(t)

	assert.Equal(t, []string{ConstName, "x"}, m.Names)
	assert.InDelta(t, 0.16, m.Params[0], 1e-9)
	assert.InDelta(t, 1.98, m.Params[1], 1e-9)
	assert.InDelta(t, 0.14329456840136384, m.StdErr[0], 1e-9)
	assert.InDelta(t, 0.04320493798938553, m.StdErr[1], 1e-9)
	assert.InDelta(t, 0.9985736118186449, m.RSquared, 1e-9)
	assert.InDelta(t, 2100.2142857143053, m.FValue, 1e-6)
	assert.InDelta(t, 4.134911085679381, m.LogLikelihood, 1e-9)
	assert.Equal(t, 3.0, m.DFResid)

	assert.Less(t, m.PValues[1], 0.001)
	assert.Greater(t, m.PValues[0], 0.05)
	assert.Less(t, m.FPValue, 0.001)

	want := []float64{0.06, -0.02, 0, -0.18, 0.14}
	for i, r := range m.Residuals {
		assert.InDelta(t, want[i], r, 1e-9)
	}
}

func TestPredictAndParam(t *testing.T) {
	m := simpleFit(t)

	got, err := m.Predict([][]float64{{10}, {0}})
	require.NoError(t, err)
	assert.InDelta(t, 19.96, got[0], 1e-9)
	assert.InDelta(t, 0.16, got[1], 1e-9)

	_, err = m.Predict([][]float64{{1, 2}})
	require.ErrorIs(t, err, ErrShape)

	slope, ok := m.Param("x")
	require.True(t, ok)
	assert.InDelta(t, 1.98, slope, 1e-9)
	_, ok = m.Param("z")
	assert.False(t, ok)
}

func TestFitOLSRejectsBadShapes(t *testing.T) {
	_, err := FitOLS([][]float64{{1}, {2}}, []float64{1, 2}, []string{"x"})
	require.ErrorIs(t, err, ErrUnderdetermined)

	_, err = FitOLS([][]float64{{1}, {2}, {3}}, []float64{1, 2}, []string{"x"})
	require.ErrorIs(t, err, ErrShape)

	_, err = FitOLS([][]float64{{1}, {2, 3}, {3}, {4}}, []float64{1, 2, 3, 4}, []string{"x"})
	require.ErrorIs(t, err, ErrShape)
}

func TestJarqueBera(t *testing.T) {
	jb, p, skew, kurt := JarqueBera([]float64{0.06, -0.02, 0, -0.18, 0.14})
	assert.InDelta(t, -0.48595432244040165, skew, 1e-9)
	assert.InDelta(t, 2.3071428571428356, kurt, 1e-9)
	assert.InDelta(t, 0.2968036321671318, jb, 1e-9)
	assert.InDelta(t, 0.86208464586218, p, 1e-9)

	jb, _, _, _ = JarqueBera(nil)
	assert.True(t, math.IsNaN(jb))
}
