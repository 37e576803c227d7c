package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/network"
)

// Friendship table columns.
const (
	ColIndividual1  = "Individual 1"
	ColIndividual2  = "Individual 2"
	ColInteractions = "Interactions"
	ColDate         = "Date"
	ColKind         = "Interaction Type"
)

var friendshipColumns = []string{ColIndividual1, ColIndividual2, ColInteractions}

// FriendshipStore reads the social network from the graph store.
type FriendshipStore interface {
	ListFriendships(ctx context.Context) ([]domain.Friendship, error)
	ListInteractions(ctx context.Context) ([]domain.Interaction, error)
}

// SocialNetworkService backs the graph viewer app.
type SocialNetworkService struct {
	logger       *slog.Logger
	friendships  *dataset.Frame
	interactions *dataset.Frame
	view         *network.View
	analytic     *network.Analytic
	transitivity float64
}

// LoadSocialNetworkCSV reads friendships.csv and interactions.csv from root.
func LoadSocialNetworkCSV(root string, logger *slog.Logger) (*SocialNetworkService, error) {
	opts := dataset.Options{IndexCol: true}
	friendships, err := dataset.ReadCSVFile(filepath.Join(root, "friendships.csv"), opts)
	if err != nil {
		return nil, err
	}
	interactions, err := dataset.ReadCSVFile(filepath.Join(root, "interactions.csv"), opts)
	if err != nil {
		return nil, err
	}
	return NewSocialNetworkService(friendships, interactions, logger)
}

// LoadSocialNetworkStore reads the network from the graph store.
func LoadSocialNetworkStore(ctx context.Context, store FriendshipStore, logger *slog.Logger) (*SocialNetworkService, error) {
	rows, err := store.ListFriendships(ctx)
	if err != nil {
		return nil, err
	}
	events, err := store.ListInteractions(ctx)
	if err != nil {
		return nil, err
	}
	friendships, err := FriendshipsFrame(rows)
	if err != nil {
		return nil, err
	}
	interactions, err := InteractionsFrame(events)
	if err != nil {
		return nil, err
	}
	return NewSocialNetworkService(friendships, interactions, logger)
}

// NewSocialNetworkService builds both graph representations from the
// friendships table.
func NewSocialNetworkService(friendships, interactions *dataset.Frame, logger *slog.Logger) (*SocialNetworkService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rows, err := FriendshipsFromFrame(friendships)
	if err != nil {
		return nil, err
	}
	view, analytic, err := network.Build(rows, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if interactions == nil {
		interactions = dataset.New("", ColDate, ColIndividual1, ColIndividual2, ColKind)
	}
	logger.Info("social network loaded",
		slog.Int("individuals", analytic.Len()),
		slog.Int("friendships", len(analytic.Edges())),
		slog.Int("interactions", interactions.Len()),
	)
	return &SocialNetworkService{
		logger:       logger,
		friendships:  friendships,
		interactions: interactions,
		view:         view,
		analytic:     analytic,
		transitivity: network.Transitivity(view.EdgePairs()),
	}, nil
}

// FriendshipsFromFrame decodes the friendships table. A blank count reads as
// zero; fractional and negative counts are rejected.
func FriendshipsFromFrame(f *dataset.Frame) ([]domain.Friendship, error) {
	for _, c := range friendshipColumns {
		if !f.HasColumn(c) {
			return nil, fmt.Errorf("%w: friendships table lacks column %q", ErrInvalidInput, c)
		}
	}
	counts, err := f.Floats(ColInteractions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out := make([]domain.Friendship, f.Len())
	for i := range out {
		n := counts[i]
		switch {
		case math.IsNaN(n):
			n = 0
		case n < 0 || n != math.Trunc(n):
			return nil, fmt.Errorf("%w: row %d has interaction count %v, want a non-negative integer",
				ErrInvalidInput, i, n)
		}
		out[i] = domain.Friendship{
			IndividualA:  f.Value(i, ColIndividual1),
			IndividualB:  f.Value(i, ColIndividual2),
			Interactions: int(n),
		}
	}
	return out, nil
}

// FriendshipsFrame encodes friendships as a table indexed from 0.
func FriendshipsFrame(rows []domain.Friendship) (*dataset.Frame, error) {
	f := dataset.New("", friendshipColumns...)
	for i, r := range rows {
		if err := f.AppendRow(strconv.Itoa(i), r.IndividualA, r.IndividualB, strconv.Itoa(r.Interactions)); err != nil {
			return nil, fmt.Errorf("encode friendship %d: %w", i, err)
		}
	}
	return f, nil
}

// InteractionsFrame encodes the interaction log as a table indexed from 0.
func InteractionsFrame(events []domain.Interaction) (*dataset.Frame, error) {
	f := dataset.New("", ColDate, ColIndividual1, ColIndividual2, ColKind)
	for i, e := range events {
		if err := f.AppendRow(strconv.Itoa(i), e.Date.Format("2006-01-02"), e.IndividualA, e.IndividualB, e.Kind); err != nil {
			return nil, fmt.Errorf("encode interaction %d: %w", i, err)
		}
	}
	return f, nil
}

// InteractionsFromFrame decodes the interaction log. Rows with an
// unparseable date keep the zero time.
func InteractionsFromFrame(f *dataset.Frame) []domain.Interaction {
	out := make([]domain.Interaction, f.Len())
	for i := range out {
		row := f.Row(i)
		date, _ := time.Parse("2006-01-02", row[ColDate])
		out[i] = domain.Interaction{
			Date:        date,
			IndividualA: row[ColIndividual1],
			IndividualB: row[ColIndividual2],
			Kind:        row[ColKind],
		}
	}
	return out
}

// Friendships returns the friendships table.
func (s *SocialNetworkService) Friendships() *dataset.Frame { return s.friendships }

// Interactions returns the interaction log, restricted to one friendship
// when edge is set.
func (s *SocialNetworkService) Interactions(edge *dataset.Edge) (*dataset.Frame, error) {
	out, err := dataset.FilterByEdge(s.interactions, edge, ColIndividual1, ColIndividual2)
	if err != nil {
		return nil, fmt.Errorf("filter interactions: %w", err)
	}
	return out, nil
}

// Graph returns a copy of the uncoloured network.
func (s *SocialNetworkService) Graph() *network.View { return s.view.Clone() }

// Individuals lists every node name.
func (s *SocialNetworkService) Individuals() []string { return s.analytic.Nodes() }

// SelectNode toggles node in selection.
func (s *SocialNetworkService) SelectNode(selection []string, node string) ([]string, error) {
	if !s.analytic.Has(node) {
		return nil, fmt.Errorf("%w: individual %q", ErrNotFound, node)
	}
	return network.SelectNode(selection, node), nil
}

// PathReport describes the strongest path between two selected individuals.
type PathReport struct {
	Selection              []string         `json:"selection"`
	Path                   []string         `json:"path"`
	Graph                  *network.View    `json:"graph"`
	Rows                   []map[string]any `json:"rows"`
	Length                 int              `json:"length"`
	CumulativeInteractions int              `json:"cumulative_interactions"`
	Title                  string           `json:"title,omitempty"`
}

// StrongestPath finds the path with the most interactions between the two
// selected individuals. Selections of any other size yield an empty path.
func (s *SocialNetworkService) StrongestPath(selection []string) (PathReport, error) {
	path, err := s.analytic.ShortestPath(selection)
	switch {
	case errors.Is(err, network.ErrUnknownNode):
		return PathReport{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	case err != nil:
		return PathReport{}, err
	}

	rows, err := s.pathRows(path)
	if err != nil {
		return PathReport{}, err
	}
	total := 0
	counts, err := rows.Floats(ColInteractions)
	if err != nil {
		return PathReport{}, err
	}
	for _, c := range counts {
		if !math.IsNaN(c) {
			total += int(c)
		}
	}

	report := PathReport{
		Selection:              append([]string{}, selection...),
		Path:                   append([]string{}, path...),
		Graph:                  network.ColorPath(s.view, selection, path),
		Rows:                   rows.Records(),
		Length:                 len(path),
		CumulativeInteractions: total,
	}
	if len(selection) == network.MaxSelection {
		report.Title = selection[0] + " → " + selection[1]
	}
	return report, nil
}

func (s *SocialNetworkService) pathRows(path []string) (*dataset.Frame, error) {
	var parts []*dataset.Frame
	for i := 0; i+1 < len(path); i++ {
		part, err := dataset.FilterByEdge(s.friendships, &dataset.Edge{Source: path[i], Destination: path[i+1]}, ColIndividual1, ColIndividual2)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return dataset.New(s.friendships.IndexName, friendshipColumns...), nil
	}
	return dataset.Concat(parts...), nil
}

// CentralityReport carries one centrality measure for every individual.
type CentralityReport struct {
	Measure    string          `json:"measure"`
	Definition string          `json:"definition"`
	Scores     []network.Score `json:"scores"`
	Graph      *network.View   `json:"graph"`
	Figure     figure.Figure   `json:"figure"`
}

// Centrality scores every individual and recolours the graph on the Redor
// scale.
func (s *SocialNetworkService) Centrality(measure string) (CentralityReport, error) {
	if measure == "" {
		measure = network.Degree
	}
	scores, err := s.analytic.Centrality(measure)
	if err != nil {
		if errors.Is(err, network.ErrUnknownMeasure) {
			return CentralityReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return CentralityReport{}, err
	}

	ordered := make([]network.Score, 0, len(scores))
	for name, v := range scores {
		ordered = append(ordered, network.Score{Individual: name, Value: v})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Individual < ordered[j].Individual })

	return CentralityReport{
		Measure:    measure,
		Definition: network.CentralityDefinitions[measure],
		Scores:     ordered,
		Graph:      network.ColorByScores(s.view, scores, figure.Redor),
		Figure:     centralityFigure(measure, ordered),
	}, nil
}

func centralityFigure(measure string, scores []network.Score) figure.Figure {
	names := make([]string, len(scores))
	values := make([]float64, len(scores))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, sc := range scores {
		names[i] = sc.Individual
		values[i] = sc.Value
		lo, hi = math.Min(lo, sc.Value), math.Max(hi, sc.Value)
	}
	mapper := figure.NewLinearColorMapper(figure.Redor, lo, hi)
	colors := make([]string, len(values))
	for i, v := range values {
		colors[i] = mapper.Map(v)
	}
	return figure.Figure{
		Kind:       figure.KindHBar,
		Title:      measure,
		XLabel:     "Value",
		YLabel:     "Name",
		Series:     []figure.Series{{Labels: names, X: values, Colors: colors}},
		ColorScale: figure.Redor,
		Mapper:     &mapper,
	}
}

// Transitivity trends.
const (
	TrendDecrease  = "decrease"
	TrendIncrease  = "increase"
	TrendUnchanged = "unchanged"
)

// TransitivityReport compares an edited network with the original one.
type TransitivityReport struct {
	Original        float64 `json:"original"`
	Current         float64 `json:"current"`
	OriginalPercent float64 `json:"original_percent"`
	CurrentPercent  float64 `json:"current_percent"`
	Trend           string  `json:"trend"`
	Color           string  `json:"color"`
}

// Transitivity measures edges, or the original network when edges is nil.
func (s *SocialNetworkService) Transitivity(edges [][2]string) TransitivityReport {
	current := s.transitivity
	if edges != nil {
		current = network.Transitivity(edges)
	}
	report := TransitivityReport{
		Original:        s.transitivity,
		Current:         current,
		OriginalPercent: percent(s.transitivity),
		CurrentPercent:  percent(current),
		Trend:           TrendUnchanged,
		Color:           figure.Theme.Text,
	}
	switch {
	case s.transitivity > current:
		report.Trend, report.Color = TrendDecrease, figure.Theme.Error
	case s.transitivity < current:
		report.Trend, report.Color = TrendIncrease, figure.Theme.Success
	}
	return report
}

func percent(x float64) float64 {
	return math.Round(x*100*100) / 100
}

// Recommendations suggests new friendships for node.
func (s *SocialNetworkService) Recommendations(node string, limit int) ([]network.Recommendation, error) {
	recs, err := s.analytic.Recommend(node, limit)
	if errors.Is(err, network.ErrUnknownNode) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return recs, err
}
