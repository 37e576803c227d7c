package service

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/network"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSocialService(t *testing.T) *SocialNetworkService {
	t.Helper()
	friendships, err := FriendshipsFrame([]domain.Friendship{
		{IndividualA: "Alice", IndividualB: "Bob", Interactions: 12},
		{IndividualA: "Bob", IndividualB: "Cara", Interactions: 4},
		{IndividualA: "Cara", IndividualB: "Dan", Interactions: 9},
		{IndividualA: "Alice", IndividualB: "Cara", Interactions: 1},
	})
	require.NoError(t, err)
	day := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	interactions, err := InteractionsFrame([]domain.Interaction{
		{Date: day, IndividualA: "Alice", IndividualB: "Bob", Kind: "Call"},
		{Date: day.AddDate(0, 0, 1), IndividualA: "Bob", IndividualB: "Alice", Kind: "Text"},
		{Date: day.AddDate(0, 0, 2), IndividualA: "Cara", IndividualB: "Dan", Kind: "Lunch"},
	})
	require.NoError(t, err)
	svc, err := NewSocialNetworkService(friendships, interactions, discardLogger())
	require.NoError(t, err)
	return svc
}

func TestSocialNetworkRejectsMissingColumns(t *testing.T) {
	f := dataset.New("", ColIndividual1, ColInteractions)
	_, err := NewSocialNetworkService(f, nil, discardLogger())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestInteractionsFilteredByEdge(t *testing.T) {
	svc := newSocialService(t)

	all, err := svc.Interactions(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())

	pair, err := svc.Interactions(&dataset.Edge{Source: "Bob", Destination: "Alice"})
	require.NoError(t, err)
	require.Equal(t, 2, pair.Len())
	assert.Equal(t, "Text", pair.Value(0, ColKind))
	assert.Equal(t, "Call", pair.Value(1, ColKind))

	events := InteractionsFromFrame(all)
	require.Len(t, events, 3)
	assert.Equal(t, "Lunch", events[2].Kind)
	assert.Equal(t, 2023, events[2].Date.Year())
}

func TestSelectNode(t *testing.T) {
	svc := newSocialService(t)

	sel, err := svc.SelectNode(nil, "Alice")
	require.NoError(t, err)
	sel, err = svc.SelectNode(sel, "Bob")
	require.NoError(t, err)
	sel, err = svc.SelectNode(sel, "Dan")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Dan"}, sel)

	sel, err = svc.SelectNode(sel, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dan"}, sel)

	_, err = svc.SelectNode(sel, "Zed")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStrongestPathPrefersFrequentInteractions(t *testing.T) {
	svc := newSocialService(t)

	report, err := svc.StrongestPath([]string{"Alice", "Cara"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Cara"}, report.Path)
	assert.Equal(t, 3, report.Length)
	assert.Equal(t, 16, report.CumulativeInteractions)
	assert.Equal(t, "Alice → Cara", report.Title)
	require.Len(t, report.Rows, 2)

	alice, ok := report.Graph.Node("Alice")
	require.True(t, ok)
	assert.Equal(t, figure.Theme.Violet, alice.Meta.RenderingProperties.Color)
	bob, ok := report.Graph.Node("Bob")
	require.True(t, ok)
	assert.Equal(t, figure.Theme.Orange, bob.Meta.RenderingProperties.Color)

	// the base graph stays uncoloured
	base, _ := svc.Graph().Node("Bob")
	assert.Equal(t, figure.Theme.Blue4, base.Meta.RenderingProperties.Color)
}

func TestStrongestPathPartialSelection(t *testing.T) {
	svc := newSocialService(t)

	report, err := svc.StrongestPath([]string{"Alice"})
	require.NoError(t, err)
	assert.Empty(t, report.Path)
	assert.Empty(t, report.Rows)
	assert.Zero(t, report.CumulativeInteractions)
	assert.Empty(t, report.Title)

	_, err = svc.StrongestPath([]string{"Alice", "Zed"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStrongestPathDisconnected(t *testing.T) {
	f, err := FriendshipsFrame([]domain.Friendship{
		{IndividualA: "Alice", IndividualB: "Bob", Interactions: 2},
		{IndividualA: "Cara", IndividualB: "Dan", Interactions: 3},
	})
	require.NoError(t, err)
	svc, err := NewSocialNetworkService(f, nil, discardLogger())
	require.NoError(t, err)

	_, err = svc.StrongestPath([]string{"Alice", "Dan"})
	require.ErrorIs(t, err, ErrNoPath)
}

func TestCentrality(t *testing.T) {
	svc := newSocialService(t)

	report, err := svc.Centrality("")
	require.NoError(t, err)
	assert.Equal(t, network.Degree, report.Measure)
	assert.NotEmpty(t, report.Definition)
	require.Len(t, report.Scores, 4)
	assert.Equal(t, "Alice", report.Scores[0].Individual)
	assert.Equal(t, "Dan", report.Scores[3].Individual)

	best := report.Scores[0]
	for _, s := range report.Scores {
		if s.Value > best.Value {
			best = s
		}
	}
	assert.Equal(t, "Cara", best.Individual)
	assert.Equal(t, figure.KindHBar, report.Figure.Kind)
	assert.Equal(t, network.Degree, report.Figure.Title)

	_, err = svc.Centrality("Closeness Centrality")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransitivityTrend(t *testing.T) {
	svc := newSocialService(t)

	same := svc.Transitivity(nil)
	assert.InDelta(t, 0.6, same.Original, 1e-9)
	assert.Equal(t, 60.0, same.OriginalPercent)
	assert.Equal(t, TrendUnchanged, same.Trend)
	assert.Equal(t, figure.Theme.Text, same.Color)

	fewer := svc.Transitivity([][2]string{{"Alice", "Bob"}, {"Bob", "Cara"}, {"Cara", "Dan"}})
	assert.Zero(t, fewer.Current)
	assert.Equal(t, TrendDecrease, fewer.Trend)
	assert.Equal(t, figure.Theme.Error, fewer.Color)

	more := svc.Transitivity([][2]string{
		{"Alice", "Bob"}, {"Bob", "Cara"}, {"Cara", "Dan"}, {"Alice", "Cara"}, {"Dan", "Alice"},
	})
	assert.Equal(t, 75.0, more.CurrentPercent)
	assert.Equal(t, TrendIncrease, more.Trend)
	assert.Equal(t, figure.Theme.Success, more.Color)
}

func TestRecommendations(t *testing.T) {
	svc := newSocialService(t)

	recs, err := svc.Recommendations("Dan", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Alice", recs[0].Individual)
	assert.Equal(t, []string{"Cara"}, recs[0].CommonFriends)
	assert.InDelta(t, 0.75, recs[0].ProjectedTransitivity, 1e-9)

	_, err = svc.Recommendations("Zed", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFriendshipsRoundTripThroughFrame(t *testing.T) {
	rows := make([]domain.Friendship, 3)
	for i := range rows {
		rows[i] = domain.Friendship{IndividualA: "A" + strconv.Itoa(i), IndividualB: "B", Interactions: i}
	}
	f, err := FriendshipsFrame(rows)
	require.NoError(t, err)
	got, err := FriendshipsFromFrame(f)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestFriendshipsFromFrameCounts(t *testing.T) {
	tests := []struct {
		name    string
		count   string
		want    int
		wantErr bool
	}{
		{"integer", "7", 7, false},
		{"integral float", "7.0", 7, false},
		{"blank", "", 0, false},
		{"fractional", "0.5", 0, true},
		{"negative", "-2", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := dataset.New("", friendshipColumns...)
			require.NoError(t, f.AppendRow("0", "Alice", "Bob", tt.count))

			got, err := FriendshipsFromFrame(f)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Interactions)
		})
	}
}

func TestNewSocialNetworkServiceWithoutLogger(t *testing.T) {
	f, err := FriendshipsFrame([]domain.Friendship{{IndividualA: "Alice", IndividualB: "Bob", Interactions: 2}})
	require.NoError(t, err)

	svc, err := NewSocialNetworkService(f, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
