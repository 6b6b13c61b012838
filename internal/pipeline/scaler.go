// Package pipeline implements the fitted preprocessing applied to feature
// frames before model training and prediction: standard scaling for numeric
// columns, one-hot encoding for categorical columns, and label encoding for
// the target.
package pipeline

import (
	"fmt"
	"math"
)

// StandardScaler scales values to zero mean and unit variance using
// statistics captured at fit time. Parameters are exported for gob.
type StandardScaler struct {
	Mean   []float64
	Std    []float64
	Fitted bool
}

// Fit computes per-column mean and standard deviation. Columns are given
// column-major. A zero standard deviation is replaced with 1 so constant
// columns scale to zero instead of dividing by zero.
func (s *StandardScaler) Fit(columns [][]float64) error {
	if len(columns) == 0 {
		return fmt.Errorf("scaler: no columns to fit")
	}
	s.Mean = make([]float64, len(columns))
	s.Std = make([]float64, len(columns))

	for j, column := range columns {
		if len(column) == 0 {
			return fmt.Errorf("scaler: column %d is empty", j)
		}
		var sum float64
		for _, v := range column {
			sum += v
		}
		mean := sum / float64(len(column))

		var variance float64
		for _, v := range column {
			diff := v - mean
			variance += diff * diff
		}
		variance /= float64(len(column))

		std := math.Sqrt(variance)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}

	s.Fitted = true
	return nil
}

// Scale transforms a single value of column j.
func (s *StandardScaler) Scale(j int, value float64) float64 {
	return (value - s.Mean[j]) / s.Std[j]
}
