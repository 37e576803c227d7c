package network

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	gnetwork "gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/mat"

	"github.com/vanshika/demolab/internal/figure"
)

// Centrality measures understood by Centrality.
const (
	Degree      = "Degree Centrality"
	Betweenness = "Betweenness Centrality"
	Eigenvector = "Eigenvector Centrality"
)

// CentralityMeasures lists the measures in display order.
var CentralityMeasures = []string{Degree, Betweenness, Eigenvector}

// CentralityDefinitions explains each measure to the user.
var CentralityDefinitions = map[string]string{
	Degree: "The degree centrality of a node is the number of edges associated with it. " +
		"The higher the degree, the more central the node is. The degree centrality is then normalized.",
	Betweenness: "The betweenness centrality of a node is based on the shortest paths. " +
		"For every pair of nodes in a connected graph, there exists at least one shortest path between the them. " +
		"The betweenness centrality for each node is the number of these shortest paths that pass through the node.",
	Eigenvector: "A high eigenvector score means that a node is connected to many nodes who themselves have high scores.",
}

const (
	eigenMaxIter = 100
	eigenTol     = 1e-6
)

// Score is one node's centrality value.
type Score struct {
	Individual string  `json:"individual"`
	Value      float64 `json:"value"`
}

// Centrality scores every node with the named measure.
func (a *Analytic) Centrality(measure string) (map[string]float64, error) {
	switch measure {
	case Degree:
		return a.degree(), nil
	case Betweenness:
		return a.betweenness(), nil
	case Eigenvector:
		return a.eigenvector()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasure, measure)
	}
}

func (a *Analytic) degree() map[string]float64 {
	n := len(a.names)
	out := make(map[string]float64, n)
	if n == 1 {
		out[a.names[0]] = 1
		return out
	}
	scale := 1 / float64(n-1)
	for id, name := range a.names {
		out[name] = float64(a.g.From(int64(id)).Len()) * scale
	}
	return out
}

// betweenness normalises by (n-1)(n-2). gonum accumulates both orientations
// of each undirected pair, which this scale already accounts for.
func (a *Analytic) betweenness() map[string]float64 {
	n := len(a.names)
	out := make(map[string]float64, n)
	for _, name := range a.names {
		out[name] = 0
	}
	if n <= 2 {
		return out
	}
	scale := 1 / float64((n-1)*(n-2))
	for id, v := range gnetwork.Betweenness(a.g) {
		out[a.names[id]] = v * scale
	}
	return out
}

// eigenvector runs power iteration on A+I from a uniform start vector.
func (a *Analytic) eigenvector() (map[string]float64, error) {
	n := len(a.names)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty graph", ErrNotConverged)
	}

	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	for _, e := range a.edges {
		u, v := int(a.ids[e[0]]), int(a.ids[e[1]])
		m.Set(u, v, 1)
		m.Set(v, u, 1)
	}

	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)
	for iter := 0; iter < eigenMaxIter; iter++ {
		next.MulVec(m, x)
		norm := mat.Norm(next, 2)
		if norm == 0 {
			norm = 1
		}
		next.ScaleVec(1/norm, next)

		var diff float64
		for i := 0; i < n; i++ {
			diff += math.Abs(next.AtVec(i) - x.AtVec(i))
		}
		x.CopyVec(next)
		if diff < float64(n)*eigenTol {
			out := make(map[string]float64, n)
			for i, name := range a.names {
				out[name] = x.AtVec(i)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w after %d iterations", ErrNotConverged, eigenMaxIter)
}

// Ranked sorts scores by value descending, breaking ties by name.
func Ranked(scores map[string]float64) []Score {
	out := make([]Score, 0, len(scores))
	for name, v := range scores {
		out = append(out, Score{Individual: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Individual < out[j].Individual
	})
	return out
}

// ColorByScores returns a copy of base where each scored node takes the
// palette colour of the bin its value falls into. Bin boundaries are
// len(palette) evenly spaced points from the minimum to the maximum score.
func ColorByScores(base *View, scores map[string]float64, palette []string) *View {
	out := base.Clone()
	if len(scores) == 0 || len(palette) == 0 {
		return out
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range scores {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	bounds := make([]float64, len(palette))
	if len(bounds) > 1 {
		floats.Span(bounds, lo, hi)
	}
	bounds[len(bounds)-1] = hi

	for name, v := range scores {
		idx := sort.SearchFloat64s(bounds, v)
		if idx >= len(palette) {
			idx = len(palette) - 1
		}
		color := palette[idx]
		out.UpdateNode(name, func(p *RenderingProperties) {
			*p = RenderingProperties{Color: color, LabelColor: figure.Theme.Grey1}
		})
	}
	return out
}
