package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussianNB is a Gaussian naive Bayes classifier working in log space.
type GaussianNB struct {
	Classes      []int
	LogPriors    []float64
	Means        [][]float64
	Variances    [][]float64
	VarSmoothing float64
}

// NewGaussianNB creates a Gaussian naive Bayes classifier with the standard
// variance smoothing term.
func NewGaussianNB() *GaussianNB {
	return &GaussianNB{VarSmoothing: 1e-9}
}

// Name returns the model family name.
func (nb *GaussianNB) Name() string {
	return FamilyGaussianNB
}

// Fit estimates per-class priors and per-feature Gaussian parameters.
func (nb *GaussianNB) Fit(X *mat.Dense, y []int) error {
	rows, cols := X.Dims()
	if rows != len(y) {
		return fmt.Errorf("gaussian nb: X has %d rows, y has %d labels", rows, len(y))
	}
	if rows == 0 {
		return fmt.Errorf("gaussian nb: empty training set")
	}

	nb.Classes = extractClasses(y)
	nb.LogPriors = make([]float64, len(nb.Classes))
	nb.Means = make([][]float64, len(nb.Classes))
	nb.Variances = make([][]float64, len(nb.Classes))

	for c, class := range nb.Classes {
		var classRows [][]float64
		for i, label := range y {
			if label == class {
				classRows = append(classRows, X.RawRowView(i))
			}
		}
		if len(classRows) == 0 {
			return fmt.Errorf("gaussian nb: class %d has no samples", class)
		}
		nb.LogPriors[c] = math.Log(float64(len(classRows)) / float64(rows))

		nb.Means[c] = make([]float64, cols)
		nb.Variances[c] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			var sum float64
			for _, row := range classRows {
				sum += row[j]
			}
			mean := sum / float64(len(classRows))

			var variance float64
			for _, row := range classRows {
				diff := row[j] - mean
				variance += diff * diff
			}
			variance /= float64(len(classRows))

			nb.Means[c][j] = mean
			nb.Variances[c][j] = variance + nb.VarSmoothing
		}
	}
	return nil
}

// Predict labels each row of X with the class of highest posterior.
func (nb *GaussianNB) Predict(X *mat.Dense) []int {
	rows, _ := X.Dims()
	predictions := make([]int, rows)
	for i := 0; i < rows; i++ {
		predictions[i] = nb.predictRow(X.RawRowView(i))
	}
	return predictions
}

func (nb *GaussianNB) predictRow(sample []float64) int {
	best := nb.Classes[0]
	bestLogProb := math.Inf(-1)

	for c, class := range nb.Classes {
		logProb := nb.LogPriors[c]
		for j, value := range sample {
			logProb += logGaussianPDF(value, nb.Means[c][j], nb.Variances[c][j])
		}
		if logProb > bestLogProb {
			bestLogProb = logProb
			best = class
		}
	}
	return best
}

func logGaussianPDF(x, mean, variance float64) float64 {
	diff := x - mean
	return -0.5*math.Log(2*math.Pi*variance) - (diff*diff)/(2*variance)
}
