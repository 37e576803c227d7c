// Package regression fits ordinary least squares models and summarises their
// residuals.
package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ConstName labels the intercept term.
const ConstName = "const"

var (
	ErrUnderdetermined = errors.New("regression: not enough observations")
	ErrShape           = errors.New("regression: mismatched dimensions")
)

// OLS is a fitted model with an intercept. Slices indexed by term follow
// Names, which starts with ConstName.
type OLS struct {
	Names         []string
	Params        []float64
	StdErr        []float64
	TValues       []float64
	PValues       []float64
	RSquared      float64
	AdjRSquared   float64
	FValue        float64
	FPValue       float64
	LogLikelihood float64
	Residuals     []float64
	Fitted        []float64
	NObs          int
	DFModel       float64
	DFResid       float64
}

// FitOLS regresses y on the feature rows plus a constant.
func FitOLS(rows [][]float64, y []float64, names []string) (*OLS, error) {
	n := len(rows)
	if n != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrShape, n, len(y))
	}
	k := len(names)
	p := k + 1
	if n <= p {
		return nil, fmt.Errorf("%w: %d rows for %d terms", ErrUnderdetermined, n, p)
	}

	design := mat.NewDense(n, p, nil)
	for i, row := range rows {
		if len(row) != k {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(row), k)
		}
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, target); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	m := &OLS{
		Names:     append([]string{ConstName}, names...),
		Params:    make([]float64, p),
		StdErr:    make([]float64, p),
		TValues:   make([]float64, p),
		PValues:   make([]float64, p),
		Residuals: make([]float64, n),
		Fitted:    make([]float64, n),
		NObs:      n,
		DFModel:   float64(k),
		DFResid:   float64(n - p),
	}

	var ssr float64
	for i := 0; i < n; i++ {
		m.Fitted[i] = fitted.AtVec(i)
		m.Residuals[i] = y[i] - m.Fitted[i]
		ssr += m.Residuals[i] * m.Residuals[i]
	}
	mean := stat.Mean(y, nil)
	var sst float64
	for _, v := range y {
		sst += (v - mean) * (v - mean)
	}

	var xtx, cov mat.Dense
	xtx.Mul(design.T(), design)
	if err := cov.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("invert design covariance: %w", err)
	}
	sigma2 := ssr / m.DFResid
	cov.Scale(sigma2, &cov)

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: m.DFResid}
	for j := 0; j < p; j++ {
		m.Params[j] = beta.AtVec(j)
		m.StdErr[j] = math.Sqrt(cov.At(j, j))
		m.TValues[j] = m.Params[j] / m.StdErr[j]
		m.PValues[j] = 2 * tdist.Survival(math.Abs(m.TValues[j]))
	}

	m.RSquared = 1 - ssr/sst
	m.AdjRSquared = 1 - (1-m.RSquared)*float64(n-1)/m.DFResid
	m.FValue = ((sst - ssr) / m.DFModel) / (ssr / m.DFResid)
	m.FPValue = distuv.F{D1: m.DFModel, D2: m.DFResid}.Survival(m.FValue)
	nf := float64(n)
	m.LogLikelihood = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(ssr/nf) - nf/2
	return m, nil
}

// Param returns the coefficient for a term name.
func (m *OLS) Param(name string) (float64, bool) {
	for i, n := range m.Names {
		if n == name {
			return m.Params[i], true
		}
	}
	return 0, false
}

// Predict applies the model to feature rows without the constant column.
func (m *OLS) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Params)-1 {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(row), len(m.Params)-1)
		}
		v := m.Params[0]
		for j, x := range row {
			v += m.Params[j+1] * x
		}
		out[i] = v
	}
	return out, nil
}

// JarqueBera tests residual normality. Skew and kurtosis use population
// moments and kurtosis is not excess.
func JarqueBera(resid []float64) (jb, pvalue, skew, kurtosis float64) {
	n := float64(len(resid))
	if n == 0 {
		return math.NaN(), math.NaN(), math.NaN(), math.NaN()
	}
	m2 := stat.Moment(2, resid, nil)
	m3 := stat.Moment(3, resid, nil)
	m4 := stat.Moment(4, resid, nil)
	skew = m3 / math.Pow(m2, 1.5)
	kurtosis = m4 / (m2 * m2)
	jb = n / 6 * (skew*skew + (kurtosis-3)*(kurtosis-3)/4)
	pvalue = distuv.ChiSquared{K: 2}.Survival(jb)
	return jb, pvalue, skew, kurtosis
}
