package figure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearColorMapper(t *testing.T) {
	m := NewLinearColorMapper([]string{"a", "b", "c", "d"}, 0, 100)

	assert.Equal(t, "a", m.Map(0))
	assert.Equal(t, "a", m.Map(24.9))
	assert.Equal(t, "b", m.Map(25))
	assert.Equal(t, "d", m.Map(100))
	assert.Equal(t, "d", m.Map(250), "values above the range clamp")
	assert.Equal(t, "a", m.Map(-3), "values below the range clamp")
	assert.Equal(t, NaNColor, m.Map(math.NaN()))

	flat := NewLinearColorMapper([]string{"x", "y"}, 5, 5)
	assert.Equal(t, "x", flat.Map(5))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "crops production tonnes", Label("crops_production_tonnes"))
	assert.Equal(t, "gdp", Label("gdp"))
}

func TestPaletteSizes(t *testing.T) {
	assert.Len(t, Redor, 7)
	assert.Len(t, RdBu11, 11)
	assert.Len(t, Blues4, 4)
	assert.Len(t, Blues5, 5)
	assert.Len(t, Blues9, 9)
}
