package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// TrainTestSplit shuffles row positions with a seeded generator and returns
// the train and test positions. The test part holds ceil(testSize*n) rows.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size %v outside (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize*float64(n) - 1e-9))
	if nTest < 1 || nTest >= n {
		return nil, nil, fmt.Errorf("cannot split %d rows with test size %v", n, testSize)
	}
	perm := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Take returns the rows of f at the given positions.
func (f *Frame) Take(positions []int) *Frame {
	return f.take(positions)
}
