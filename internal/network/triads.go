package network

import (
	"fmt"
	"sort"
)

// Transitivity is 3 x triangles / connected triples over the undirected
// graph formed by edges. Duplicate pairs and self links are ignored.
func Transitivity(edges [][2]string) float64 {
	adj := map[string]map[string]bool{}
	link := func(a, b string) {
		if adj[a] == nil {
			adj[a] = map[string]bool{}
		}
		adj[a][b] = true
	}
	for _, e := range edges {
		if e[0] == e[1] {
			continue
		}
		link(e[0], e[1])
		link(e[1], e[0])
	}

	var closed, triples int
	for _, nbrs := range adj {
		d := len(nbrs)
		triples += d * (d - 1) / 2
		list := make([]string, 0, d)
		for n := range nbrs {
			list = append(list, n)
		}
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if adj[list[i]][list[j]] {
					closed++
				}
			}
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(closed) / float64(triples)
}

// Recommendation is a suggested new friendship for an individual.
type Recommendation struct {
	Individual            string   `json:"individual"`
	CommonFriends         []string `json:"common_friends"`
	ProjectedTransitivity float64  `json:"projected_transitivity"`
}

// Recommend suggests non-neighbours sharing at least one friend with name,
// ranked by the number of common friends and then by name. Each carries the
// transitivity the graph would have with that friendship added. A
// non-positive limit returns every candidate.
func (a *Analytic) Recommend(name string, limit int) ([]Recommendation, error) {
	own, err := a.Neighbors(name)
	if err != nil {
		return nil, err
	}
	friends := make(map[string]bool, len(own))
	for _, f := range own {
		friends[f] = true
	}

	common := map[string][]string{}
	for _, f := range own {
		fof, err := a.Neighbors(f)
		if err != nil {
			return nil, fmt.Errorf("neighbours of %s: %w", f, err)
		}
		for _, c := range fof {
			if c == name || friends[c] {
				continue
			}
			common[c] = append(common[c], f)
		}
	}

	out := make([]Recommendation, 0, len(common))
	for c, via := range common {
		sort.Strings(via)
		out = append(out, Recommendation{Individual: c, CommonFriends: via})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].CommonFriends) != len(out[j].CommonFriends) {
			return len(out[i].CommonFriends) > len(out[j].CommonFriends)
		}
		return out[i].Individual < out[j].Individual
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	base := a.Edges()
	for i := range out {
		out[i].ProjectedTransitivity = Transitivity(append(base[:len(base):len(base)], [2]string{name, out[i].Individual}))
	}
	return out, nil
}
