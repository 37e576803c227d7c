package network

// MaxSelection bounds how many individuals can be selected at once.
const MaxSelection = 2

// SelectNode toggles node in selection. A node already present is removed;
// otherwise it is appended and only the most recent MaxSelection entries are
// kept. The input slice is not modified.
func SelectNode(selection []string, node string) []string {
	out := make([]string, 0, len(selection)+1)
	removed := false
	for _, s := range selection {
		if s == node {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if removed {
		return out
	}
	out = append(out, node)
	if len(out) > MaxSelection {
		out = out[len(out)-MaxSelection:]
	}
	return out
}
