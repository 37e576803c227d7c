// Package repository persists the social network in the graph store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/graph"
)

// ErrInvalidFriendship is returned for rows the store refuses to persist.
var ErrInvalidFriendship = errors.New("invalid friendship")

// FriendshipRepository stores individuals, their friendships and the
// interaction log as a property graph.
type FriendshipRepository struct {
	client graph.Client
}

func New(client graph.Client) *FriendshipRepository {
	return &FriendshipRepository{client: client}
}

// EnsureSchema creates the uniqueness constraint on individual names.
func (r *FriendshipRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, individualConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertFriendship merges both individuals and the undirected friendship
// between them, overwriting the interaction count.
func (r *FriendshipRepository) UpsertFriendship(ctx context.Context, f domain.Friendship) error {
	if err := validate(f.IndividualA, f.IndividualB); err != nil {
		return err
	}
	if f.Interactions < 0 {
		return fmt.Errorf("%w: negative interactions between %s and %s", ErrInvalidFriendship, f.IndividualA, f.IndividualB)
	}

	params := map[string]any{
		"a":            f.IndividualA,
		"b":            f.IndividualB,
		"interactions": int64(f.Interactions),
		"updatedAt":    time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertFriendshipCypher, params); err != nil {
		return fmt.Errorf("upsert friendship %s-%s: %w", f.IndividualA, f.IndividualB, err)
	}
	return nil
}

// UpsertInteraction records one dated interaction event. Replaying the same
// event is idempotent.
func (r *FriendshipRepository) UpsertInteraction(ctx context.Context, i domain.Interaction) error {
	if err := validate(i.IndividualA, i.IndividualB); err != nil {
		return err
	}
	params := map[string]any{
		"a":    i.IndividualA,
		"b":    i.IndividualB,
		"date": i.Date.UTC().Format("2006-01-02"),
		"kind": i.Kind,
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertInteractionCypher, params); err != nil {
		return fmt.Errorf("upsert interaction %s-%s: %w", i.IndividualA, i.IndividualB, err)
	}
	return nil
}

// ListFriendships returns every friendship once, ordered by the pair names.
func (r *FriendshipRepository) ListFriendships(ctx context.Context) ([]domain.Friendship, error) {
	res, err := r.client.ExecuteRead(ctx, listFriendshipsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	out := make([]domain.Friendship, 0, len(res.Records))
	for _, rec := range res.Records {
		out = append(out, domain.Friendship{
			IndividualA:  rec.String("a"),
			IndividualB:  rec.String("b"),
			Interactions: rec.Int("interactions"),
		})
	}
	return out, nil
}

// ListInteractions returns the interaction log ordered by date.
func (r *FriendshipRepository) ListInteractions(ctx context.Context) ([]domain.Interaction, error) {
	res, err := r.client.ExecuteRead(ctx, listInteractionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	out := make([]domain.Interaction, 0, len(res.Records))
	for _, rec := range res.Records {
		ev := domain.Interaction{
			IndividualA: rec.String("a"),
			IndividualB: rec.String("b"),
			Kind:        rec.String("kind"),
		}
		if d := rec.Time("date"); d != nil {
			ev.Date = *d
		}
		out = append(out, ev)
	}
	return out, nil
}

// CountIndividuals returns the number of individuals and friendships stored.
func (r *FriendshipRepository) CountIndividuals(ctx context.Context) (domain.NetworkStats, error) {
	res, err := r.client.ExecuteRead(ctx, countCypher, nil)
	if err != nil {
		return domain.NetworkStats{}, fmt.Errorf("count individuals: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.NetworkStats{}, nil
	}
	rec := res.Records[0]
	return domain.NetworkStats{
		Individuals: rec.Int("individuals"),
		Friendships: rec.Int("friendships"),
	}, nil
}

func validate(a, b string) error {
	if a == "" || b == "" {
		return fmt.Errorf("%w: both individuals are required", ErrInvalidFriendship)
	}
	if a == b {
		return fmt.Errorf("%w: %s cannot befriend themselves", ErrInvalidFriendship, a)
	}
	return nil
}

const individualConstraintCypher = `
CREATE CONSTRAINT individual_name IF NOT EXISTS
FOR (i:Individual) REQUIRE i.name IS UNIQUE`

const upsertFriendshipCypher = `
MERGE (a:Individual {name: $a})
MERGE (b:Individual {name: $b})
MERGE (a)-[f:FRIENDS_WITH]-(b)
SET f.interactions = $interactions,
	f.updatedAt = $updatedAt`

const upsertInteractionCypher = `
MERGE (a:Individual {name: $a})
MERGE (b:Individual {name: $b})
MERGE (a)-[e:INTERACTED {date: date($date), kind: $kind}]->(b)`

const listFriendshipsCypher = `
MATCH (a:Individual)-[f:FRIENDS_WITH]-(b:Individual)
WHERE elementId(a) < elementId(b)
RETURN a.name AS a, b.name AS b, coalesce(f.interactions, 0) AS interactions
ORDER BY a, b`

const listInteractionsCypher = `
MATCH (a:Individual)-[e:INTERACTED]->(b:Individual)
RETURN toString(e.date) AS date, a.name AS a, b.name AS b, e.kind AS kind
ORDER BY date, a, b`

const countCypher = `
MATCH (i:Individual)
OPTIONAL MATCH (i)-[f:FRIENDS_WITH]-()
RETURN count(DISTINCT i) AS individuals, count(DISTINCT f) AS friendships`
