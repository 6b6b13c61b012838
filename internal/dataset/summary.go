package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rantau/demandcast/internal/model"
)

// ColumnStats describes a numeric column of the raw dataset.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// ValueCount is a categorical value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// Summary is the dataset overview shown by the analyze command.
type Summary struct {
	Rows            int
	NumericStats    []ColumnStats
	WeatherCounts   []ValueCount
	PromotionCounts []ValueCount
	DemandCounts    []ValueCount
	DateMin         string
	DateMax         string
}

// Summarize computes descriptive statistics over the raw table, including
// how the rows would distribute across demand categories.
func Summarize(table *Table) *Summary {
	summary := &Summary{Rows: table.Len()}
	if table.Len() == 0 {
		return summary
	}

	price := make([]float64, table.Len())
	discount := make([]float64, table.Len())
	quantity := make([]float64, table.Len())
	weather := make(map[string]int)
	promotion := make(map[string]int)
	demand := make(map[string]int)

	minDate := table.Transactions[0].Date
	maxDate := minDate
	for i, txn := range table.Transactions {
		price[i] = txn.Price
		discount[i] = txn.Discount
		quantity[i] = txn.SalesQuantity
		weather[txn.Weather]++
		promotion[txn.Promotion]++
		if category, ok := model.DemandCategory(txn.SalesQuantity); ok {
			demand[category]++
		}
		if txn.Date.Before(minDate) {
			minDate = txn.Date
		}
		if txn.Date.After(maxDate) {
			maxDate = txn.Date
		}
	}

	summary.NumericStats = []ColumnStats{
		numericStats("Price", price),
		numericStats("Discount", discount),
		numericStats("SalesQuantity", quantity),
	}
	summary.WeatherCounts = sortedCounts(weather)
	summary.PromotionCounts = sortedCounts(promotion)
	summary.DemandCounts = demandCounts(demand)
	summary.DateMin = minDate.Format("2006-01-02")
	summary.DateMax = maxDate.Format("2006-01-02")
	return summary
}

func numericStats(name string, values []float64) ColumnStats {
	stats := ColumnStats{
		Name:  name,
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Std:   stat.StdDev(values, nil),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	return stats
}

func sortedCounts(counts map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, ValueCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// demandCounts keeps the demand categories in ascending demand order
// rather than by frequency.
func demandCounts(counts map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(model.DemandCategories))
	for _, category := range model.DemandCategories {
		out = append(out, ValueCount{Value: category, Count: counts[category]})
	}
	return out
}
