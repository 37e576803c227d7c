package dataset

// Edge names the two endpoints of an undirected relationship.
type Edge struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// FilterByEdge returns every row when edge is nil. Otherwise it returns the
// rows where (colA, colB) equals (Source, Destination), followed by the rows
// matching the reverse orientation.
func FilterByEdge(f *Frame, edge *Edge, colA, colB string) (*Frame, error) {
	if edge == nil {
		return f, nil
	}
	a, err := f.Column(colA)
	if err != nil {
		return nil, err
	}
	b, err := f.Column(colB)
	if err != nil {
		return nil, err
	}

	forward := f.Filter(func(i int) bool {
		return a[i] == edge.Source && b[i] == edge.Destination
	})
	reverse := f.Filter(func(i int) bool {
		return a[i] == edge.Destination && b[i] == edge.Source
	})
	return Concat(forward, reverse), nil
}
