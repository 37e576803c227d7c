package network

import (
	"fmt"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanshika/demolab/internal/figure"
)

// ShortestPath returns the minimum-weight path between the two selected
// individuals. Any selection other than exactly two nodes yields nil.
func (a *Analytic) ShortestPath(selection []string) ([]string, error) {
	if len(selection) != 2 {
		return nil, nil
	}
	src, ok := a.ids[selection[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, selection[0])
	}
	dst, ok := a.ids[selection[1]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, selection[1])
	}

	nodes, _ := path.DijkstraFromTo(simple.Node(src), simple.Node(dst), a.g)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s and %s", ErrNoPath, selection[0], selection[1])
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = a.names[n.ID()]
	}
	return out, nil
}

// ColorPath returns a copy of base with the selection in violet, the other
// path nodes in orange and every consecutive path edge in orange.
func ColorPath(base *View, selection, route []string) *View {
	out := base.Clone()
	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
		out.UpdateNode(id, func(p *RenderingProperties) {
			p.Color = figure.Theme.Violet
			p.LabelColor = figure.Theme.Grey1
		})
	}
	for i, id := range route {
		if !selected[id] {
			out.UpdateNode(id, func(p *RenderingProperties) {
				p.Color = figure.Theme.Orange
			})
		}
		if i < len(route)-1 {
			out.UpdateEdge(id, route[i+1], func(p *RenderingProperties) {
				p.Color = figure.Theme.Orange
			})
		}
	}
	return out
}
