// Package model defines the core domain types shared across the application.
package model

import (
	"math"
	"time"
)

// Transaction represents a single retail sales record from the source dataset.
type Transaction struct {
	Date          time.Time
	ProductID     string
	StoreID       string
	Weather       string
	Promotion     string
	Price         float64
	Discount      float64
	SalesQuantity float64
}

// Demand category names as the original dataset labels them.
const (
	DemandLow    = "Rendah"
	DemandMedium = "Sedang"
	DemandHigh   = "Tinggi"
)

// DemandCategories lists every demand label in ascending demand order.
var DemandCategories = []string{DemandLow, DemandMedium, DemandHigh}

// DemandCategory bins a sales quantity into a demand label using
// right-closed edges: (0,5] low, (5,10] medium, (10,inf) high.
// The second return is false when the quantity falls outside every bin
// (zero, negative, NaN or Inf); such rows carry no label.
func DemandCategory(salesQuantity float64) (string, bool) {
	switch {
	case math.IsNaN(salesQuantity) || math.IsInf(salesQuantity, 0) || salesQuantity <= 0:
		return "", false
	case salesQuantity <= 5:
		return DemandLow, true
	case salesQuantity <= 10:
		return DemandMedium, true
	default:
		return DemandHigh, true
	}
}
