package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/ui"
)

func TestStyledBoxDefaults(t *testing.T) {
	box := StyledBox(DefaultBoxStyle())
	assert.Equal(t, "50.0%", box.Props["height"])
	assert.Equal(t, "50.0%", box.Props["width"])
	assert.Equal(t, "1.0px dashed black", box.Props["border"])
	assert.Equal(t, "12px", box.Props["font_size"])
	assert.Equal(t, "20px 20px 20px 20px", box.Props["padding"])
	require.Len(t, box.Children, 1)
	assert.Equal(t, "Text in a box", box.Children[0].Props["text"])
}

func TestStyledBoxFallsBackOnBadSizes(t *testing.T) {
	st := DefaultBoxStyle()
	st.Height = "tall"
	st.Width = "12.5"
	st.WidthUnit = "vw"
	st.BorderWidth = "Inf"
	st.Margin = [4]int{1, 2, 3, 4}

	box := StyledBox(st)
	assert.Equal(t, "50.0%", box.Props["height"])
	assert.Equal(t, "12.5vw", box.Props["width"])
	assert.Equal(t, "1.0px dashed black", box.Props["border"])
	assert.Equal(t, "1px 2px 3px 4px", box.Props["margin"])
}

func TestApplyRawCSS(t *testing.T) {
	target, err := RawCSSTarget("select")
	require.NoError(t, err)

	styled, err := ApplyRawCSS(target, `{"background-color": "pink"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"background-color": "pink"}, styled.Props["raw_css"])
	assert.Equal(t, true, styled.Props["multiselect"])

	styled, err = ApplyRawCSS(target, "color: red;")
	require.NoError(t, err)
	assert.Equal(t, "color: red;", styled.Props["raw_css"])

	_, err = ApplyRawCSS(target, "{not json")
	require.ErrorIs(t, err, ErrInvalidInput)

	card, err := RawCSSTarget("tabbed-card")
	require.NoError(t, err)
	assert.Len(t, card.Children, 2)

	_, err = RawCSSTarget("slider")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReferencePages(t *testing.T) {
	assert.Len(t, Units(), 6)
	units := UnitsPage()
	require.Len(t, units.Children, 2)
	assert.Len(t, units.Children[1].Children, 14)

	resources := ResourcesPage()
	assert.Len(t, resources.Children, 1+2*len(Resources()))
}

func TestRegisterApps(t *testing.T) {
	reg := ui.NewRegistry()
	social := newSocialService(t)
	RegisterApps(reg, Services{Social: social, Explorer: newExplorer(t)})

	var names []string
	for _, a := range reg.Apps() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"custom-css", "data-interactivity", "graph-viewer"}, names)

	page, err := reg.Render("graph-viewer", "influential-individuals")
	require.NoError(t, err)
	assert.Equal(t, "Stack", page.Type)

	page, err = reg.Render("custom-css", "css-units")
	require.NoError(t, err)
	assert.Equal(t, UnitsPage(), page)

	_, err = reg.Render("llm", "sales-predictions")
	require.ErrorIs(t, err, ui.ErrUnknownPage)
}
