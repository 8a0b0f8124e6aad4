package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// TrainTestSplit shuffles row indices 0..n-1 with seed and returns disjoint
// train and test partitions. The test side gets ceil(testSize·n) rows.
// A split that would leave either side empty fails with domain.ErrInsufficientData.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("TrainTestSplit: test size %v outside (0, 1)", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest <= 0 || nTrain <= 0 {
		return nil, nil, fmt.Errorf("TrainTestSplit: %d rows with test size %v leave an empty partition: %w",
			n, testSize, domain.ErrInsufficientData)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
