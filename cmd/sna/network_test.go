package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditEdges(t *testing.T) {
	pairs := [][2]string{{"Alice", "Bob"}, {"Bob", "Cara"}}

	got, err := editEdges(pairs, []string{"Cara:Alice", "Bob:Alice"}, []string{"Cara:Bob"})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"Alice", "Bob"}, {"Cara", "Alice"}}, got)
	assert.Len(t, pairs, 2)

	_, err = editEdges(pairs, []string{"Alice"}, nil)
	require.Error(t, err)
	_, err = editEdges(pairs, nil, []string{"Bob:Bob"})
	require.Error(t, err)
}
