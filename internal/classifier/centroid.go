package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NearestCentroid classifies a sample by the class whose training centroid
// is closest in euclidean distance.
type NearestCentroid struct {
	Classes   []int
	Centroids [][]float64
}

// NewNearestCentroid creates a nearest-centroid classifier.
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

// Name returns the model family name.
func (nc *NearestCentroid) Name() string {
	return FamilyNearestCentroid
}

// Fit computes one centroid per class.
func (nc *NearestCentroid) Fit(X *mat.Dense, y []int) error {
	rows, cols := X.Dims()
	if rows != len(y) {
		return fmt.Errorf("nearest centroid: X has %d rows, y has %d labels", rows, len(y))
	}
	if rows == 0 {
		return fmt.Errorf("nearest centroid: empty training set")
	}

	nc.Classes = extractClasses(y)
	nc.Centroids = make([][]float64, len(nc.Classes))

	for c, class := range nc.Classes {
		centroid := make([]float64, cols)
		count := 0
		for i, label := range y {
			if label != class {
				continue
			}
			row := X.RawRowView(i)
			for j, v := range row {
				centroid[j] += v
			}
			count++
		}
		if count == 0 {
			return fmt.Errorf("nearest centroid: class %d has no samples", class)
		}
		for j := range centroid {
			centroid[j] /= float64(count)
		}
		nc.Centroids[c] = centroid
	}
	return nil
}

// Predict labels each row of X with its nearest centroid's class.
func (nc *NearestCentroid) Predict(X *mat.Dense) []int {
	rows, _ := X.Dims()
	predictions := make([]int, rows)
	for i := 0; i < rows; i++ {
		predictions[i] = nc.predictRow(X.RawRowView(i))
	}
	return predictions
}

func (nc *NearestCentroid) predictRow(sample []float64) int {
	best := nc.Classes[0]
	bestDist := sqDist(sample, nc.Centroids[0])
	for c := 1; c < len(nc.Classes); c++ {
		if d := sqDist(sample, nc.Centroids[c]); d < bestDist {
			bestDist = d
			best = nc.Classes[c]
		}
	}
	return best
}
