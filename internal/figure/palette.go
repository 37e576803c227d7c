package figure

import (
	"math"
)

// Sequential and diverging palettes used across the demos.
var (
	Redor = []string{
		"rgb(246, 210, 169)", "rgb(245, 183, 142)", "rgb(241, 156, 124)", "rgb(234, 129, 113)",
		"rgb(221, 104, 108)", "rgb(202, 82, 104)", "rgb(177, 63, 100)",
	}
	RdBu11 = []string{
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7",
		"#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
	}
	Blues4 = []string{"#2171b5", "#6baed6", "#bdd7e7", "#eff3ff"}
	Blues5 = []string{"#08519c", "#3182bd", "#6baed6", "#bdd7e7", "#eff3ff"}
	Blues9 = []string{
		"#08306b", "#08519c", "#2171b5", "#4292c6", "#6baed6",
		"#9ecae1", "#c6dbef", "#deebf7", "#f7fbff",
	}
)

// Named colours.
const (
	Green     = "#4f9a5c"
	Red       = "#c25450"
	SteelBlue = "steelblue"
	Coral     = "coral"
	NaNColor  = "gray"
)

// Theme holds the light theme tokens used for graph and card styling.
var Theme = struct {
	Primary string
	Text    string
	Grey1   string
	Blue4   string
	Violet  string
	Orange  string
	Error   string
	Success string
}{
	Primary: "#3796F6",
	Text:    "#1E244D",
	Grey1:   "#F8F9FA",
	Blue4:   "#A4C4F2",
	Violet:  "#8160F7",
	Orange:  "#F88F43",
	Error:   "#DA6087",
	Success: "#2FB2AB",
}

// LinearColorMapper maps values in [Low, High] onto a palette in equal-width
// steps. Values outside the range clamp to the end colours.
type LinearColorMapper struct {
	Palette []string `json:"palette"`
	Low     float64  `json:"low"`
	High    float64  `json:"high"`
}

// NewLinearColorMapper builds a mapper over a copy of palette.
func NewLinearColorMapper(palette []string, low, high float64) LinearColorMapper {
	return LinearColorMapper{Palette: append([]string(nil), palette...), Low: low, High: high}
}

// Map returns the colour for v, or NaNColor for NaN.
func (m LinearColorMapper) Map(v float64) string {
	n := len(m.Palette)
	if n == 0 {
		return NaNColor
	}
	if math.IsNaN(v) {
		return NaNColor
	}
	if m.High <= m.Low {
		return m.Palette[0]
	}
	idx := int(math.Floor((v - m.Low) / (m.High - m.Low) * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return m.Palette[idx]
}

// Label turns a snake_case feature name into a title fragment.
func Label(feature string) string {
	out := []rune(feature)
	for i, r := range out {
		if r == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}
