package model

import (
	"fmt"
	"strconv"
	"time"
)

// Raw record field names a prediction request must supply.
var requestFields = []string{
	"ProductID", "StoreID", "Price", "Discount",
	"Weather", "Promotion", "PredictionDate",
}

// ParseRequest builds a PredictionRequest from a raw field map. Every
// required field must be present; a missing field is a schema mismatch for
// the caller to surface, never silently defaulted. The returned missing
// list is nil when parsing succeeded.
func ParseRequest(fields map[string]string) (*PredictionRequest, []string, error) {
	var missing []string
	for _, name := range requestFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missing, nil
	}

	price, err := strconv.ParseFloat(fields["Price"], 64)
	if err != nil {
		return nil, nil, &ValidationError{Field: "Price", Reason: "not a number"}
	}
	discount, err := strconv.ParseFloat(fields["Discount"], 64)
	if err != nil {
		return nil, nil, &ValidationError{Field: "Discount", Reason: "not a number"}
	}
	date, err := time.Parse("2006-01-02", fields["PredictionDate"])
	if err != nil {
		return nil, nil, &ValidationError{Field: "PredictionDate", Reason: fmt.Sprintf("not a date: %v", err)}
	}

	req := &PredictionRequest{
		Date:      date,
		ProductID: fields["ProductID"],
		StoreID:   fields["StoreID"],
		Weather:   fields["Weather"],
		Promotion: fields["Promotion"],
		Price:     price,
		Discount:  discount,
	}
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	return req, nil, nil
}
