// Package evaluate provides the train/test split and the classification
// metrics used to score every trained model against the same held-out data.
package evaluate

import (
	"fmt"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions indices 0..len(y)-1 into train and test sets,
// preserving per-class label proportions. The same seed always produces the
// same partition: classes are visited in sorted order and each class bucket
// is shuffled by a seeded source. Every class contributes at least one test
// sample.
func StratifiedSplit(y []int, testSize float64, seed int64) (trainIdx, testIdx []int, err error) {
	if len(y) == 0 {
		return nil, nil, fmt.Errorf("cannot split empty dataset")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be between 0 and 1, got %v", testSize)
	}

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, class := range classes {
		indices := byClass[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		testCount := int(float64(len(indices)) * testSize)
		if testCount == 0 {
			testCount = 1
		}
		if testCount >= len(indices) {
			return nil, nil, fmt.Errorf("class %d has only %d samples, too few to stratify", class, len(indices))
		}

		trainCount := len(indices) - testCount
		trainIdx = append(trainIdx, indices[:trainCount]...)
		testIdx = append(testIdx, indices[trainCount:]...)
	}

	rng.Shuffle(len(trainIdx), func(i, j int) {
		trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
	})
	rng.Shuffle(len(testIdx), func(i, j int) {
		testIdx[i], testIdx[j] = testIdx[j], testIdx[i]
	})

	return trainIdx, testIdx, nil
}

// SelectLabels copies the given entries of y into a new slice.
func SelectLabels(y []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}
