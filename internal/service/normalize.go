package service

import (
	"regexp"
	"strings"

	"github.com/vanshika/demolab/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// sanitizeName collapses inner whitespace and trims the result.
func sanitizeName(value string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(value, " "))
}

// NormalizeFriendships cleans individual names and drops rows that repeat
// an earlier pair in either orientation. The first occurrence wins.
func NormalizeFriendships(rows []domain.Friendship) []domain.Friendship {
	seen := make(map[[2]string]struct{}, len(rows))
	out := make([]domain.Friendship, 0, len(rows))
	for _, r := range rows {
		r.IndividualA = sanitizeName(r.IndividualA)
		r.IndividualB = sanitizeName(r.IndividualB)
		key := [2]string{r.IndividualA, r.IndividualB}
		if key[1] < key[0] {
			key[0], key[1] = key[1], key[0]
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// NormalizeInteractions cleans names and interaction kinds.
func NormalizeInteractions(events []domain.Interaction) []domain.Interaction {
	out := make([]domain.Interaction, len(events))
	for i, e := range events {
		e.IndividualA = sanitizeName(e.IndividualA)
		e.IndividualB = sanitizeName(e.IndividualB)
		e.Kind = sanitizeName(e.Kind)
		out[i] = e
	}
	return out
}
