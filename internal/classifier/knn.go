package classifier

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// KNN is a k-nearest-neighbors classifier with euclidean distance and
// majority voting. Ties in the vote resolve to the smaller class code so
// predictions are deterministic.
type KNN struct {
	XTrain  [][]float64
	YTrain  []int
	Classes []int
	K       int
}

// NewKNN creates a KNN classifier. A non-positive k falls back to 5.
func NewKNN(k int) *KNN {
	if k <= 0 {
		k = 5
	}
	return &KNN{K: k}
}

// Name returns the model family name.
func (knn *KNN) Name() string {
	return FamilyKNN
}

// Fit stores the training data.
func (knn *KNN) Fit(X *mat.Dense, y []int) error {
	rows, _ := X.Dims()
	if rows != len(y) {
		return fmt.Errorf("knn: X has %d rows, y has %d labels", rows, len(y))
	}
	if rows == 0 {
		return fmt.Errorf("knn: empty training set")
	}
	knn.XTrain = matrixRows(X)
	knn.YTrain = make([]int, len(y))
	copy(knn.YTrain, y)
	knn.Classes = extractClasses(y)
	return nil
}

// Predict labels each row of X by majority vote among its k nearest
// training rows.
func (knn *KNN) Predict(X *mat.Dense) []int {
	rows, _ := X.Dims()
	predictions := make([]int, rows)
	for i := 0; i < rows; i++ {
		predictions[i] = knn.predictRow(X.RawRowView(i))
	}
	return predictions
}

func (knn *KNN) predictRow(sample []float64) int {
	type neighbor struct {
		index    int
		distance float64
	}

	neighbors := make([]neighbor, len(knn.XTrain))
	for i, trainRow := range knn.XTrain {
		neighbors[i] = neighbor{index: i, distance: sqDist(sample, trainRow)}
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].distance < neighbors[j].distance
	})

	k := knn.K
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := make(map[int]int)
	for _, n := range neighbors[:k] {
		votes[knn.YTrain[n.index]]++
	}

	best := knn.Classes[0]
	bestVotes := votes[best]
	for _, class := range knn.Classes[1:] {
		if votes[class] > bestVotes {
			best = class
			bestVotes = votes[class]
		}
	}
	return best
}
