package model

import (
	"time"
)

// Weather conditions accepted by the prediction form.
var WeatherConditions = []string{"Cloudy", "Rainy", "Sunny", "Snowy"}

// Promotion flags accepted by the prediction form.
var PromotionValues = []string{"No", "Yes"}

// PredictionRequest is a single raw-feature record submitted for scoring.
type PredictionRequest struct {
	Date      time.Time
	ProductID string
	StoreID   string
	Weather   string
	Promotion string
	Price     float64
	Discount  float64
}

// Validate checks value constraints on a populated request. Missing-field
// detection is the prediction service's job; Validate only rejects values
// outside the form's domain.
func (r *PredictionRequest) Validate() error {
	if r.Price < 0 {
		return &ValidationError{Field: "Price", Reason: "must be >= 0"}
	}
	if r.Discount < 0 || r.Discount > 1 {
		return &ValidationError{Field: "Discount", Reason: "must be between 0 and 1"}
	}
	if !contains(WeatherConditions, r.Weather) {
		return &ValidationError{Field: "Weather", Reason: "must be one of Cloudy, Rainy, Sunny, Snowy"}
	}
	if !contains(PromotionValues, r.Promotion) {
		return &ValidationError{Field: "Promotion", Reason: "must be Yes or No"}
	}
	return nil
}

// ValidationError reports a request field with an out-of-domain value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
