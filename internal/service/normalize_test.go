package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanshika/demolab/internal/domain"
)

func TestNormalizeFriendships(t *testing.T) {
	got := NormalizeFriendships([]domain.Friendship{
		{IndividualA: "  Ana  Lee", IndividualB: "Ben", Interactions: 3},
		{IndividualA: "Ben", IndividualB: "Ana Lee", Interactions: 9},
		{IndividualA: "Ben", IndividualB: "Cy", Interactions: 1},
	})
	assert.Equal(t, []domain.Friendship{
		{IndividualA: "Ana Lee", IndividualB: "Ben", Interactions: 3},
		{IndividualA: "Ben", IndividualB: "Cy", Interactions: 1},
	}, got)
}

func TestNormalizeInteractions(t *testing.T) {
	in := []domain.Interaction{{IndividualA: " Ana", IndividualB: "Ben\t", Kind: "Phone   Call"}}
	got := NormalizeInteractions(in)
	assert.Equal(t, "Ana", got[0].IndividualA)
	assert.Equal(t, "Ben", got[0].IndividualB)
	assert.Equal(t, "Phone Call", got[0].Kind)
	assert.Equal(t, " Ana", in[0].IndividualA)
}
