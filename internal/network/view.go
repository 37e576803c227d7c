// Package network holds the social graph: a renderable view with per-element
// styling and an analytic graph used for paths, centrality and triads.
package network

import (
	"encoding/json"
)

// RenderingProperties styles a node or edge in the viewer.
type RenderingProperties struct {
	Color          string `json:"color,omitempty"`
	HighlightColor string `json:"highlight_color,omitempty"`
	LabelColor     string `json:"label_color,omitempty"`
	Tooltip        string `json:"tooltip,omitempty"`
}

// Meta wraps rendering properties the way the viewer expects them.
type Meta struct {
	RenderingProperties RenderingProperties `json:"rendering_properties"`
}

// Node is one individual in the view.
type Node struct {
	Identifier string `json:"identifier"`
	Meta       Meta   `json:"meta"`
}

// Edge is one undirected friendship in the view.
type Edge struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	EdgeType    string `json:"edge_type"`
	Meta        Meta   `json:"meta"`
}

type edgeKey [2]string

// View is an ordered set of styled nodes and edges. Colouring operations
// always work on a Clone so the base view stays unchanged.
type View struct {
	nodes   []Node
	nodeIdx map[string]int
	edges   []Edge
	edgeIdx map[edgeKey]int
}

// NewView returns an empty view.
func NewView() *View {
	return &View{nodeIdx: map[string]int{}, edgeIdx: map[edgeKey]int{}}
}

// AddNode appends a node if it is not present yet.
func (v *View) AddNode(id string) {
	if _, ok := v.nodeIdx[id]; ok {
		return
	}
	v.nodeIdx[id] = len(v.nodes)
	v.nodes = append(v.nodes, Node{Identifier: id})
}

// AddEdge adds both endpoints and the edge. It reports false when the edge
// already exists in either orientation.
func (v *View) AddEdge(src, dst string, props RenderingProperties) bool {
	if v.HasEdge(src, dst) {
		return false
	}
	v.AddNode(src)
	v.AddNode(dst)
	v.edgeIdx[edgeKey{src, dst}] = len(v.edges)
	v.edges = append(v.edges, Edge{
		Source:      src,
		Destination: dst,
		EdgeType:    "<>",
		Meta:        Meta{RenderingProperties: props},
	})
	return true
}

// HasNode reports whether id is part of the view.
func (v *View) HasNode(id string) bool {
	_, ok := v.nodeIdx[id]
	return ok
}

// HasEdge reports whether a and b are linked in either orientation.
func (v *View) HasEdge(a, b string) bool {
	_, ok := v.lookupEdge(a, b)
	return ok
}

func (v *View) lookupEdge(a, b string) (int, bool) {
	if i, ok := v.edgeIdx[edgeKey{a, b}]; ok {
		return i, true
	}
	i, ok := v.edgeIdx[edgeKey{b, a}]
	return i, ok
}

// Node returns a copy of the node with the given identifier.
func (v *View) Node(id string) (Node, bool) {
	i, ok := v.nodeIdx[id]
	if !ok {
		return Node{}, false
	}
	return v.nodes[i], true
}

// Edge returns a copy of the edge between a and b in either orientation.
func (v *View) Edge(a, b string) (Edge, bool) {
	i, ok := v.lookupEdge(a, b)
	if !ok {
		return Edge{}, false
	}
	return v.edges[i], true
}

// Nodes returns the nodes in insertion order.
func (v *View) Nodes() []Node {
	return append(make([]Node, 0, len(v.nodes)), v.nodes...)
}

// Edges returns the edges in insertion order.
func (v *View) Edges() []Edge {
	return append(make([]Edge, 0, len(v.edges)), v.edges...)
}

// EdgePairs returns every edge as a [source, destination] pair.
func (v *View) EdgePairs() [][2]string {
	out := make([][2]string, len(v.edges))
	for i, e := range v.edges {
		out[i] = [2]string{e.Source, e.Destination}
	}
	return out
}

// UpdateNode applies fn to the node's rendering properties.
func (v *View) UpdateNode(id string, fn func(*RenderingProperties)) bool {
	i, ok := v.nodeIdx[id]
	if !ok {
		return false
	}
	fn(&v.nodes[i].Meta.RenderingProperties)
	return true
}

// UpdateEdge applies fn to the edge between a and b in either orientation.
func (v *View) UpdateEdge(a, b string, fn func(*RenderingProperties)) bool {
	i, ok := v.lookupEdge(a, b)
	if !ok {
		return false
	}
	fn(&v.edges[i].Meta.RenderingProperties)
	return true
}

// Clone returns an independent copy of the view.
func (v *View) Clone() *View {
	out := &View{
		nodes:   append([]Node(nil), v.nodes...),
		nodeIdx: make(map[string]int, len(v.nodeIdx)),
		edges:   append([]Edge(nil), v.edges...),
		edgeIdx: make(map[edgeKey]int, len(v.edgeIdx)),
	}
	for k, i := range v.nodeIdx {
		out.nodeIdx[k] = i
	}
	for k, i := range v.edgeIdx {
		out.edgeIdx[k] = i
	}
	return out
}

// MarshalJSON renders the view as {"nodes": [...], "edges": [...]}.
func (v *View) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}{Nodes: v.Nodes(), Edges: v.Edges()})
}
