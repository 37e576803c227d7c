package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vanshika/demolab/internal/ui"
)

// BoxStyle carries the quick properties of the styled box. Size fields are
// raw user input and fall back to defaults when not numeric.
type BoxStyle struct {
	Align        string `json:"align"`
	Background   string `json:"background"`
	Bold         bool   `json:"bold"`
	Italic       bool   `json:"italic"`
	Color        string `json:"color"`
	FontSize     int    `json:"font_size"`
	BorderRadius int    `json:"border_radius"`
	BorderWidth  string `json:"border_width"`
	BorderStyle  string `json:"border_style"`
	BorderColor  string `json:"border_color"`
	Height       string `json:"height"`
	HeightUnit   string `json:"height_unit"`
	Width        string `json:"width"`
	WidthUnit    string `json:"width_unit"`
	Padding      [4]int `json:"padding"`
	Margin       [4]int `json:"margin"`
}

// DefaultBoxStyle is the form's initial state.
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		Align:        "start",
		Background:   "white",
		Color:        "black",
		FontSize:     12,
		BorderRadius: 5,
		BorderWidth:  "1",
		BorderStyle:  "dashed",
		BorderColor:  "black",
		Height:       "50",
		HeightUnit:   "%",
		Width:        "50",
		WidthUnit:    "%",
		Padding:      [4]int{20, 20, 20, 20},
		Margin:       [4]int{20, 20, 20, 20},
	}
}

// StyledBox renders "Text in a box" with the given style.
func StyledBox(st BoxStyle) ui.Component {
	height := floatOr(st.Height, 50)
	width := floatOr(st.Width, 50)
	border := floatOr(st.BorderWidth, 1)

	text := ui.Text("Text in a box").With(ui.Props{
		"bold":   st.Bold,
		"italic": st.Italic,
		"color":  st.Color,
	})
	return ui.Stack(text).With(ui.Props{
		"align":         st.Align,
		"background":    st.Background,
		"font_size":     fmt.Sprintf("%dpx", st.FontSize),
		"border_radius": fmt.Sprintf("%dpx", st.BorderRadius),
		"border":        cssNumber(border) + "px " + st.BorderStyle + " " + st.BorderColor,
		"height":        cssNumber(height) + st.HeightUnit,
		"width":         cssNumber(width) + st.WidthUnit,
		"padding":       boxSides(st.Padding),
		"margin":        boxSides(st.Margin),
	})
}

func floatOr(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return fallback
	}
	return v
}

// cssNumber prints whole numbers with a trailing ".0", as the form always has.
func cssNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func boxSides(sides [4]int) string {
	return fmt.Sprintf("%dpx %dpx %dpx %dpx", sides[0], sides[1], sides[2], sides[3])
}

// ApplyRawCSS attaches raw CSS to c. Input starting with "{" must be a JSON
// object of CSS properties; anything else is kept as a CSS string.
func ApplyRawCSS(c ui.Component, raw string) (ui.Component, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var props map[string]any
		if err := json.Unmarshal([]byte(trimmed), &props); err != nil {
			return ui.Component{}, fmt.Errorf("%w: raw css: %v", ErrInvalidInput, err)
		}
		return c.With(ui.Props{"raw_css": props}), nil
	}
	return c.With(ui.Props{"raw_css": raw}), nil
}

// RawCSSTarget names a demo component ApplyRawCSS can style.
func RawCSSTarget(name string) (ui.Component, error) {
	switch name {
	case "select", "":
		return ui.Select([]string{"first", "second", "third"}, []string{"first"}, "").
			With(ui.Props{"multiselect": true}), nil
	case "tabbed-card":
		return ui.Component{Type: "TabbedCard", Children: []ui.Component{
			ui.Card("Card 1", ui.Text("Some text")),
			ui.Card("Card 2", ui.Text("Some other text")),
		}}, nil
	default:
		return ui.Component{}, fmt.Errorf("%w: component %q", ErrNotFound, name)
	}
}

// CSSUnit is one row of the units table.
type CSSUnit struct {
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// Units describes the common CSS length units.
func Units() []CSSUnit {
	return []CSSUnit{
		{"px", "The px unit is the magic unit of CSS. It is not related to the current font and usually not related to physical centimeters or inches either. " +
			"The px unit is defined to be small but visible, and such that a horizontal 1px wide line can be displayed with sharp edges (no anti-aliasing). " +
			"What is sharp, small and visible depends on the device and the way it is used: do you hold it close to your eyes, like a mobile phone, " +
			"at arms length, like a computer monitor, or somewhere in between, like an e-book reader? " +
			"The px is thus not defined as a constant length, but as something that depends on the type of device and its typical use."},
		{"em", "These are related to the font size, and if the user has a big font (e.g., on a big screen) or a small font (e.g., on a handheld device), " +
			"the sizes will be in proportion. Declarations such as text-indent: 1.5em and margin: 1em are extremely common in CSS."},
		{"rem", `Is the "root em", it relates to the font size of the root element, whereas em varies depending on the parent element`},
		{"vw", "Relative to 1% of the width of the viewport"},
		{"vh", "Relative to 1% of the height of the viewport"},
		{"%", "Size relative to parent element"},
	}
}

// Link is a titled external resource.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// ResourceGroup is a heading with its links.
type ResourceGroup struct {
	Heading string `json:"heading"`
	Links   []Link `json:"links"`
}

// Resources lists learning material grouped by topic.
func Resources() []ResourceGroup {
	return []ResourceGroup{
		{"General CSS and CSS Propreties", []Link{
			{"W3 Schools", "https://www.w3schools.com/cssref/index.php"},
			{"MDN", "https://developer.mozilla.org/en-US/docs/Web/CSS"},
			{"CSS Tricks", "https://css-tricks.com/guides/"},
		}},
		{"CSS Box Model (Margin and Padding)", []Link{
			{"MDN - The Box Model", "https://developer.mozilla.org/en-US/docs/Learn/CSS/Building_blocks/The_box_model"},
		}},
		{"CSS Units", []Link{
			{"W3 Schools - CSS Units Reference", "https://www.w3schools.com/cssref/css_units.php"},
			{"Web Style Sheets CSS Tips & Tricks - Font Size Units", "https://www.w3.org/Style/Examples/007/units.en.html"},
		}},
		{"CSS Selectors", []Link{
			{"W3 Schools - CSS Selector Reference", "https://www.w3schools.com/cssref/css_selectors.php"},
			{"MDN - CSS Selector Reference", "https://developer.mozilla.org/en-US/docs/Web/CSS/CSS_Selectors"},
		}},
		{"Debugging CSS", []Link{
			{"Visbug Chrome Extension", "https://chrome.google.com/webstore/detail/visbug/cdockenadnadldjbbgcallicgledbeoc?hl=en"},
			{"Chrome DevTools", "https://developer.chrome.com/docs/devtools/css/"},
			{"Safari DevTools", "https://developer.apple.com/safari/tools/"},
		}},
	}
}

// ResourcesPage lays the resources out as headings and bulleted anchors.
func ResourcesPage() ui.Component {
	children := []ui.Component{ui.Heading("Useful Resources for Learning CSS", 3)}
	for _, g := range Resources() {
		links := make([]ui.Component, len(g.Links))
		for i, l := range g.Links {
			links[i] = ui.Anchor("• "+l.Label, l.Href)
		}
		children = append(children,
			ui.Heading(g.Heading, 4),
			ui.Stack(links...).With(ui.Props{"padding": "8px 8px 8px 20px"}),
		)
	}
	return ui.Stack(children...).With(ui.Props{"padding": "20px"})
}

// UnitsPage renders the units table as a two-column grid.
func UnitsPage() ui.Component {
	cells := []ui.Component{ui.Text("Unit").With(ui.Props{"bold": true}), ui.Text("Description").With(ui.Props{"bold": true})}
	for _, u := range Units() {
		cells = append(cells, ui.Text(u.Unit), ui.Text(u.Description))
	}
	return ui.Stack(
		ui.Heading("CSS Units Explained", 3),
		ui.Grid(2, cells...).With(ui.Props{"raw_css": map[string]any{"border-style": "solid"}}),
	)
}
