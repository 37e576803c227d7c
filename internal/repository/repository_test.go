package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/graph"
)

func TestUpsertFriendship(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.UpsertFriendship(context.Background(), domain.Friendship{IndividualA: "Ana", IndividualB: "Ben", Interactions: 4})
	require.NoError(t, err)

	calls := mem.Calls(graph.ModeWrite)
	require.Len(t, calls, 1)
	assert.Equal(t, upsertFriendshipCypher, calls[0].Query)
	assert.Equal(t, "Ana", calls[0].Params["a"])
	assert.Equal(t, "Ben", calls[0].Params["b"])
	assert.Equal(t, int64(4), calls[0].Params["interactions"])
	assert.NotEmpty(t, calls[0].Params["updatedAt"])
}

func TestUpsertFriendshipRejectsInvalidRows(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	cases := []domain.Friendship{
		{IndividualA: "", IndividualB: "Ben"},
		{IndividualA: "Ana", IndividualB: "Ana"},
		{IndividualA: "Ana", IndividualB: "Ben", Interactions: -1},
	}
	for _, f := range cases {
		err := repo.UpsertFriendship(context.Background(), f)
		require.ErrorIs(t, err, ErrInvalidFriendship)
	}
	assert.Empty(t, mem.Calls(""))
}

func TestUpsertInteractionFormatsDate(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	ev := domain.Interaction{
		Date:        time.Date(2023, 3, 9, 15, 0, 0, 0, time.UTC),
		IndividualA: "Ana",
		IndividualB: "Ben",
		Kind:        "call",
	}
	require.NoError(t, repo.UpsertInteraction(context.Background(), ev))

	calls := mem.Calls(graph.ModeWrite)
	require.Len(t, calls, 1)
	assert.Equal(t, "2023-03-09", calls[0].Params["date"])
	assert.Equal(t, "call", calls[0].Params["kind"])
}

func TestListFriendshipsDecodesRecords(t *testing.T) {
	mem := graph.NewMemoryClient().Respond("FRIENDS_WITH", graph.Result{Records: []graph.Record{
		{"a": "Ana", "b": "Ben", "interactions": int64(4)},
		{"a": "Ben", "b": "Cy", "interactions": int64(0)},
	}})
	repo := New(mem)

	rows, err := repo.ListFriendships(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Friendship{
		{IndividualA: "Ana", IndividualB: "Ben", Interactions: 4},
		{IndividualA: "Ben", IndividualB: "Cy", Interactions: 0},
	}, rows)

	reads := mem.Calls(graph.ModeRead)
	require.Len(t, reads, 1)
	assert.Equal(t, listFriendshipsCypher, reads[0].Query)
}

func TestListInteractions(t *testing.T) {
	mem := graph.NewMemoryClient().Respond("INTERACTED", graph.Result{Records: []graph.Record{
		{"date": "2023-01-02", "a": "Ana", "b": "Ben", "kind": "message"},
	}})
	events, err := New(mem).ListInteractions(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, "message", events[0].Kind)
}

func TestCountIndividuals(t *testing.T) {
	mem := graph.NewMemoryClient().Respond("count(DISTINCT i)", graph.Result{Records: []graph.Record{
		{"individuals": int64(5), "friendships": int64(6)},
	}})
	stats, err := New(mem).CountIndividuals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NetworkStats{Individuals: 5, Friendships: 6}, stats)

	empty, err := New(graph.NewMemoryClient()).CountIndividuals(context.Background())
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestRepositoryWrapsClientErrors(t *testing.T) {
	boom := errors.New("bolt: connection reset")
	repo := New(graph.NewMemoryClient().FailWith(boom))

	require.ErrorIs(t, repo.EnsureSchema(context.Background()), boom)
	_, err := repo.ListFriendships(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list friendships")
}
