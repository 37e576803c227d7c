package network

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/figure"
)

// Errors returned by graph operations.
var (
	ErrUnknownNode      = errors.New("network: unknown individual")
	ErrNoPath           = errors.New("network: no path between individuals")
	ErrUnknownMeasure   = errors.New("network: unknown centrality measure")
	ErrNotConverged     = errors.New("network: eigenvector iteration did not converge")
	ErrNegativeInteract = errors.New("network: negative interaction count")
)

// Analytic is the weighted undirected graph behind the view. Edge weights
// are 1/interactions so frequent contacts are "closer".
type Analytic struct {
	g     *simple.WeightedUndirectedGraph
	ids   map[string]int64
	names []string
	edges [][2]string
}

func newAnalytic() *Analytic {
	return &Analytic{
		g:   simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids: map[string]int64{},
	}
}

func (a *Analytic) node(name string) int64 {
	if id, ok := a.ids[name]; ok {
		return id
	}
	id := int64(len(a.names))
	a.ids[name] = id
	a.names = append(a.names, name)
	a.g.AddNode(simple.Node(id))
	return id
}

func (a *Analytic) addEdge(src, dst string, weight float64) {
	u, v := a.node(src), a.node(dst)
	a.g.SetWeightedEdge(a.g.NewWeightedEdge(simple.Node(u), simple.Node(v), weight))
	a.edges = append(a.edges, [2]string{src, dst})
}

// Len returns the number of individuals.
func (a *Analytic) Len() int { return len(a.names) }

// Nodes returns the individuals in insertion order.
func (a *Analytic) Nodes() []string { return append([]string(nil), a.names...) }

// Edges returns every friendship as a pair in insertion order.
func (a *Analytic) Edges() [][2]string { return append([][2]string(nil), a.edges...) }

// Has reports whether name is a node.
func (a *Analytic) Has(name string) bool {
	_, ok := a.ids[name]
	return ok
}

// Neighbors returns the sorted neighbours of name.
func (a *Analytic) Neighbors(name string) ([]string, error) {
	id, ok := a.ids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	it := a.g.From(id)
	out := make([]string, 0, it.Len())
	for it.Next() {
		out = append(out, a.names[it.Node().ID()])
	}
	sort.Strings(out)
	return out, nil
}

// Weight returns the edge weight between two individuals.
func (a *Analytic) Weight(src, dst string) (float64, bool) {
	u, ok := a.ids[src]
	if !ok {
		return 0, false
	}
	v, ok := a.ids[dst]
	if !ok || !a.g.HasEdgeBetween(u, v) {
		return 0, false
	}
	w, _ := a.g.Weight(u, v)
	return w, true
}

// Build turns friendship rows into the styled view and the analytic graph.
// A row whose pair already appeared in either orientation is skipped, as are
// self links. Zero interactions yield an unreachable +Inf weight.
func Build(rows []domain.Friendship, logger *slog.Logger) (*View, *Analytic, error) {
	if logger == nil {
		logger = slog.Default()
	}
	view := NewView()
	analytic := newAnalytic()

	for i, row := range rows {
		if row.IndividualA == row.IndividualB {
			logger.Warn("skipping self friendship", slog.Int("row", i), slog.String("individual", row.IndividualA))
			continue
		}
		if row.Interactions < 0 {
			return nil, nil, fmt.Errorf("%w: row %d has %d", ErrNegativeInteract, i, row.Interactions)
		}
		if view.HasEdge(row.IndividualA, row.IndividualB) {
			continue
		}

		weight := math.Inf(1)
		if row.Interactions == 0 {
			logger.Warn("friendship without interactions is unreachable for paths",
				slog.String("individual_a", row.IndividualA),
				slog.String("individual_b", row.IndividualB))
		} else {
			weight = 1 / float64(row.Interactions)
		}

		view.AddEdge(row.IndividualA, row.IndividualB, RenderingProperties{
			Tooltip: fmt.Sprintf("%d interactions", row.Interactions),
		})
		analytic.addEdge(row.IndividualA, row.IndividualB, weight)
	}

	for _, n := range view.Nodes() {
		view.UpdateNode(n.Identifier, func(p *RenderingProperties) {
			p.Color = figure.Theme.Blue4
			p.HighlightColor = figure.Theme.Primary
			p.LabelColor = figure.Theme.Text
		})
	}
	return view, analytic, nil
}
