package domain

import "time"

// Friendship is one row of the friendships table: two individuals and the
// number of interactions between them.
type Friendship struct {
	IndividualA  string
	IndividualB  string
	Interactions int
}

// Interaction is a single dated interaction event between two individuals.
type Interaction struct {
	Date        time.Time
	IndividualA string
	IndividualB string
	Kind        string
}

// NetworkStats summarises the persisted social graph.
type NetworkStats struct {
	Individuals int
	Friendships int
}
