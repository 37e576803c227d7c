// Package classify trains support vector classifiers and searches their
// hyperparameters.
package classify

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel names a kernel function.
type Kernel string

const (
	Linear  Kernel = "linear"
	Poly    Kernel = "poly"
	RBF     Kernel = "rbf"
	Sigmoid Kernel = "sigmoid"
)

const (
	polyDegree = 3
	smoEps     = 1e-3
	smoTau     = 1e-12
	smoMaxIter = 100000
)

var (
	ErrUnknownKernel = errors.New("classify: unknown kernel")
	ErrBadParams     = errors.New("classify: invalid parameters")
	ErrOneClass      = errors.New("classify: training data needs at least two classes")
)

// Params are the hyperparameters of one SVC.
type Params struct {
	Kernel Kernel  `json:"kernel"`
	C      float64 `json:"c"`
	Gamma  float64 `json:"gamma"`
}

func (p Params) validate() error {
	switch p.Kernel {
	case Linear, Poly, RBF, Sigmoid:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKernel, p.Kernel)
	}
	if p.C <= 0 {
		return fmt.Errorf("%w: C must be positive, got %v", ErrBadParams, p.C)
	}
	if p.Kernel != Linear && p.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive, got %v", ErrBadParams, p.Gamma)
	}
	return nil
}

func (p Params) kernel(a, b []float64) float64 {
	switch p.Kernel {
	case Poly:
		return math.Pow(p.Gamma*floats.Dot(a, b), polyDegree)
	case RBF:
		d := floats.Distance(a, b, 2)
		return math.Exp(-p.Gamma * d * d)
	case Sigmoid:
		return math.Tanh(p.Gamma * floats.Dot(a, b))
	default:
		return floats.Dot(a, b)
	}
}

// signedGram returns Q with Q[i][j] = y[i]*y[j]*K(x[i], x[j]).
func signedGram(x [][]float64, y []float64, p Params) *mat.Dense {
	n := len(x)
	q := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := y[i] * y[j] * p.kernel(x[i], x[j])
			q.Set(i, j, v)
			q.Set(j, i, v)
		}
	}
	return q
}

// binary is one trained pairwise machine. Positive decisions vote for pos.
type binary struct {
	pos, neg int
	sv       [][]float64
	coef     []float64
	rho      float64
}

func (b *binary) decision(p Params, x []float64) float64 {
	s := -b.rho
	for i, v := range b.sv {
		s += b.coef[i] * p.kernel(v, x)
	}
	return s
}

// SVC is a multi-class classifier built from one-vs-one binary machines.
type SVC struct {
	Params  Params
	Classes []string
	models  []binary
}

// Fit trains an SVC on feature rows x and labels y.
func Fit(x [][]float64, y []string, p Params) (*SVC, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrBadParams, len(x), len(y))
	}
	classes := uniqueSorted(y)
	if len(classes) < 2 {
		return nil, ErrOneClass
	}
	byClass := make(map[string][]int, len(classes))
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	s := &SVC{Params: p, Classes: classes}
	for a := 0; a < len(classes); a++ {
		for b := a + 1; b < len(classes); b++ {
			var rows [][]float64
			var signs []float64
			for _, i := range byClass[classes[a]] {
				rows = append(rows, x[i])
				signs = append(signs, 1)
			}
			for _, i := range byClass[classes[b]] {
				rows = append(rows, x[i])
				signs = append(signs, -1)
			}
			m := solveSMO(rows, signs, p)
			m.pos, m.neg = a, b
			s.models = append(s.models, m)
		}
	}
	return s, nil
}

// Predict labels each row by majority vote. Ties go to the class that sorts
// first.
func (s *SVC) Predict(x [][]float64) []string {
	out := make([]string, len(x))
	votes := make([]int, len(s.Classes))
	for i, row := range x {
		for k := range votes {
			votes[k] = 0
		}
		for j := range s.models {
			m := &s.models[j]
			if m.decision(s.Params, row) > 0 {
				votes[m.pos]++
			} else {
				votes[m.neg]++
			}
		}
		best := 0
		for k := 1; k < len(votes); k++ {
			if votes[k] > votes[best] {
				best = k
			}
		}
		out[i] = s.Classes[best]
	}
	return out
}

// solveSMO minimises the C-SVC dual with maximal-violating-pair selection.
func solveSMO(x [][]float64, y []float64, p Params) binary {
	n := len(x)
	gram := signedGram(x, y, p)
	q := gram.At

	c := p.C
	alpha := make([]float64, n)
	grad := make([]float64, n)
	floats.AddConst(-1, grad)

	for iter := 0; iter < smoMaxIter; iter++ {
		i, j := -1, -1
		gmax, gmin := math.Inf(-1), math.Inf(1)
		for t := 0; t < n; t++ {
			v := -y[t] * grad[t]
			up := (y[t] > 0 && alpha[t] < c) || (y[t] < 0 && alpha[t] > 0)
			low := (y[t] > 0 && alpha[t] > 0) || (y[t] < 0 && alpha[t] < c)
			if up && v > gmax {
				gmax, i = v, t
			}
			if low && v < gmin {
				gmin, j = v, t
			}
		}
		if i < 0 || j < 0 || gmax-gmin < smoEps {
			break
		}

		oldI, oldJ := alpha[i], alpha[j]
		if y[i] != y[j] {
			quad := q(i, i) + q(j, j) + 2*q(i, j)
			if quad <= 0 {
				quad = smoTau
			}
			delta := (-grad[i] - grad[j]) / quad
			diff := alpha[i] - alpha[j]
			alpha[i] += delta
			alpha[j] += delta
			if diff > 0 {
				if alpha[j] < 0 {
					alpha[j] = 0
					alpha[i] = diff
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = -diff
			}
			if diff > 0 {
				if alpha[i] > c {
					alpha[i] = c
					alpha[j] = c - diff
				}
			} else if alpha[j] > c {
				alpha[j] = c
				alpha[i] = c + diff
			}
		} else {
			quad := q(i, i) + q(j, j) - 2*q(i, j)
			if quad <= 0 {
				quad = smoTau
			}
			delta := (grad[i] - grad[j]) / quad
			sum := alpha[i] + alpha[j]
			alpha[i] -= delta
			alpha[j] += delta
			if sum > c {
				if alpha[i] > c {
					alpha[i] = c
					alpha[j] = sum - c
				}
			} else if alpha[j] < 0 {
				alpha[j] = 0
				alpha[i] = sum
			}
			if sum > c {
				if alpha[j] > c {
					alpha[j] = c
					alpha[i] = sum - c
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = sum
			}
		}

		// Q is symmetric, so row i doubles as column i.
		floats.AddScaled(grad, alpha[i]-oldI, gram.RawRowView(i))
		floats.AddScaled(grad, alpha[j]-oldJ, gram.RawRowView(j))
	}

	var m binary
	m.rho = computeRho(y, alpha, grad, c)
	for t := 0; t < n; t++ {
		if alpha[t] > 0 {
			m.sv = append(m.sv, x[t])
			m.coef = append(m.coef, alpha[t]*y[t])
		}
	}
	return m
}

func computeRho(y, alpha, grad []float64, c float64) float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	var free int
	var sumFree float64
	for t := range y {
		yg := y[t] * grad[t]
		switch {
		case alpha[t] >= c:
			if y[t] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case alpha[t] <= 0:
			if y[t] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			free++
			sumFree += yg
		}
	}
	if free > 0 {
		return sumFree / float64(free)
	}
	return (ub + lb) / 2
}

func uniqueSorted(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
