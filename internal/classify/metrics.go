package classify

// Accuracy is the share of positions where pred matches truth.
func Accuracy(truth, pred []string) float64 {
	if len(truth) == 0 || len(truth) != len(pred) {
		return 0
	}
	var hit int
	for i := range truth {
		if truth[i] == pred[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(truth))
}

// ConfusionMatrix counts outcomes with rows as actual classes and columns as
// predicted classes, both ordered like classes. Unknown labels are ignored.
func ConfusionMatrix(truth, pred, classes []string) [][]int {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	out := make([][]int, len(classes))
	for i := range out {
		out[i] = make([]int, len(classes))
	}
	for i := range truth {
		if i >= len(pred) {
			break
		}
		a, ok := idx[truth[i]]
		if !ok {
			continue
		}
		p, ok := idx[pred[i]]
		if !ok {
			continue
		}
		out[a][p]++
	}
	return out
}
