// Package classifier implements the demand classifiers trained by the model
// bank: k-nearest neighbors, Gaussian naive Bayes and nearest centroid.
// All of them consume the dense feature matrix the preprocessing pipeline
// produces, and keep their fitted parameters in exported fields so they can
// be gob-persisted by the registry.
package classifier

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Family names, used as registry artifact keys and report headings.
const (
	FamilyKNN             = "K-Nearest Neighbors (KNN)"
	FamilyGaussianNB      = "Gaussian Naive Bayes"
	FamilyNearestCentroid = "Nearest Centroid"
)

// Families lists every model family a training run fits, in display order.
func Families() []string {
	return []string{FamilyKNN, FamilyGaussianNB, FamilyNearestCentroid}
}

// Classifier is one fitted model family.
type Classifier interface {
	Fit(X *mat.Dense, y []int) error
	Predict(X *mat.Dense) []int
	Name() string
}

// extractClasses returns the sorted distinct labels in y.
func extractClasses(y []int) []int {
	seen := make(map[int]bool)
	for _, label := range y {
		seen[label] = true
	}
	classes := make([]int, 0, len(seen))
	for class := range seen {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes
}

// matrixRows copies a dense matrix into plain row slices, the form the
// fitted parameters are stored in.
func matrixRows(X *mat.Dense) [][]float64 {
	rows, cols := X.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		copy(out[i], X.RawRowView(i))
	}
	return out
}

// sqDist is the squared euclidean distance between two rows.
func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
