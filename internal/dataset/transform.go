package dataset

import (
	"log/slog"
	"time"

	"github.com/rantau/demandcast/internal/common"
	"github.com/rantau/demandcast/internal/model"
)

// Canonical feature column order, frozen at training time and persisted so
// prediction reproduces the exact layout the pipeline was fitted on.
var featureColumns = []string{
	"ProductID", "StoreID", "Price", "Discount",
	"Weather", "Promotion", "Month", "DayOfWeek", "DayOfYear",
}

var numericFeatures = []string{"Price", "Discount", "Month", "DayOfWeek", "DayOfYear"}

var categoricalFeatures = []string{"ProductID", "StoreID", "Weather", "Promotion"}

// FeatureColumns returns the canonical feature column order.
func FeatureColumns() []string {
	out := make([]string, len(featureColumns))
	copy(out, featureColumns)
	return out
}

// NumericFeatures returns the numeric feature column names.
func NumericFeatures() []string {
	out := make([]string, len(numericFeatures))
	copy(out, numericFeatures)
	return out
}

// CategoricalFeatures returns the categorical feature column names.
func CategoricalFeatures() []string {
	out := make([]string, len(categoricalFeatures))
	copy(out, categoricalFeatures)
	return out
}

// CalendarFeatures derives Month (1-12), DayOfWeek (Monday=0) and DayOfYear
// (1-366) from a date. Both the training path and the prediction path call
// this; it is the only place calendar features are computed.
func CalendarFeatures(date time.Time) (month, dayOfWeek, dayOfYear int) {
	month = int(date.Month())
	// time.Weekday counts Sunday=0; the dataset convention is Monday=0.
	dayOfWeek = (int(date.Weekday()) + 6) % 7
	dayOfYear = date.YearDay()
	return month, dayOfWeek, dayOfYear
}

// DeriveLabel bins each row's sales quantity into a demand category and
// drops rows that fall outside every bin. The returned transactions and
// labels are parallel slices.
func DeriveLabel(table *Table) ([]model.Transaction, []string, error) {
	kept := make([]model.Transaction, 0, table.Len())
	labels := make([]string, 0, table.Len())
	dropped := 0

	for _, txn := range table.Transactions {
		category, ok := model.DemandCategory(txn.SalesQuantity)
		if !ok {
			dropped++
			continue
		}
		kept = append(kept, txn)
		labels = append(labels, category)
	}

	if dropped > 0 {
		slog.Debug("Dropped rows without a demand category", "count", dropped)
	}
	if len(kept) == 0 {
		return nil, nil, common.ErrEmptyAfterLabeling
	}
	return kept, labels, nil
}

// BuildFrame converts transactions into the canonical feature frame,
// deriving calendar features from each row's date.
func BuildFrame(txns []model.Transaction) (*Frame, error) {
	n := len(txns)
	productID := make([]string, n)
	storeID := make([]string, n)
	price := make([]float64, n)
	discount := make([]float64, n)
	weather := make([]string, n)
	promotion := make([]string, n)
	month := make([]float64, n)
	dayOfWeek := make([]float64, n)
	dayOfYear := make([]float64, n)

	for i, txn := range txns {
		m, dow, doy := CalendarFeatures(txn.Date)
		productID[i] = txn.ProductID
		storeID[i] = txn.StoreID
		price[i] = txn.Price
		discount[i] = txn.Discount
		weather[i] = txn.Weather
		promotion[i] = txn.Promotion
		month[i] = float64(m)
		dayOfWeek[i] = float64(dow)
		dayOfYear[i] = float64(doy)
	}

	frame := NewFrame()
	adds := []error{
		frame.AddCategorical("ProductID", productID),
		frame.AddCategorical("StoreID", storeID),
		frame.AddNumeric("Price", price),
		frame.AddNumeric("Discount", discount),
		frame.AddCategorical("Weather", weather),
		frame.AddCategorical("Promotion", promotion),
		frame.AddNumeric("Month", month),
		frame.AddNumeric("DayOfWeek", dayOfWeek),
		frame.AddNumeric("DayOfYear", dayOfYear),
	}
	for _, err := range adds {
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// BuildRequestFrame converts a single prediction request into a one-row
// feature frame, using the same calendar derivation as training.
func BuildRequestFrame(req *model.PredictionRequest) (*Frame, error) {
	return BuildFrame([]model.Transaction{{
		Date:      req.Date,
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Weather:   req.Weather,
		Promotion: req.Promotion,
		Price:     req.Price,
		Discount:  req.Discount,
	}})
}
