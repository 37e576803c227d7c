// Package figure describes plots as JSON documents that a client renders.
package figure

import (
	"encoding/json"
)

// Kind selects the glyph a client should draw.
type Kind string

const (
	KindBar        Kind = "bar"
	KindHBar       Kind = "hbar"
	KindHistogram  Kind = "histogram"
	KindLine       Kind = "line"
	KindScatter    Kind = "scatter"
	KindChoropleth Kind = "choropleth"
	KindHeatmap    Kind = "heatmap"
)

// Figure is a renderer-agnostic plot description.
type Figure struct {
	Kind       Kind               `json:"kind"`
	Title      string             `json:"title"`
	XLabel     string             `json:"x_label,omitempty"`
	YLabel     string             `json:"y_label,omitempty"`
	Categories []string           `json:"categories,omitempty"`
	Series     []Series           `json:"series,omitempty"`
	Regions    []Region           `json:"regions,omitempty"`
	Cells      []Cell             `json:"cells,omitempty"`
	ColorScale []string           `json:"color_scale,omitempty"`
	Mapper     *LinearColorMapper `json:"mapper,omitempty"`
	Tooltip    string             `json:"tooltip,omitempty"`
}

// Series is one set of marks. Labels carry categorical coordinates and
// X/X2/Y numeric ones; a histogram bar spans [X[i], X2[i]].
type Series struct {
	Name   string    `json:"name,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	X      []float64 `json:"x,omitempty"`
	X2     []float64 `json:"x2,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Color  string    `json:"color,omitempty"`
	Colors []string  `json:"colors,omitempty"`
}

// Region is a filled map shape. Value is nil when no data joined onto it.
type Region struct {
	Name       string          `json:"name"`
	Value      *float64        `json:"value"`
	Fill       string          `json:"fill"`
	Properties map[string]any  `json:"properties,omitempty"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Cell is one heatmap rectangle.
type Cell struct {
	X     string  `json:"x"`
	Y     string  `json:"y"`
	Value float64 `json:"value"`
	Fill  string  `json:"fill"`
}
