package model

import (
	"errors"
	"testing"
)

func validFields() map[string]string {
	return map[string]string{
		"ProductID":      "P0001",
		"StoreID":        "S0001",
		"Price":          "25.50",
		"Discount":       "0.10",
		"Weather":        "Sunny",
		"Promotion":      "Yes",
		"PredictionDate": "2024-03-15",
	}
}

func TestParseRequest(t *testing.T) {
	t.Run("complete record parses", func(t *testing.T) {
		req, missing, err := ParseRequest(validFields())
		if err != nil {
			t.Fatalf("ParseRequest() error = %v", err)
		}
		if missing != nil {
			t.Fatalf("ParseRequest() missing = %v, want none", missing)
		}
		if req.ProductID != "P0001" || req.Price != 25.50 || req.Discount != 0.10 {
			t.Errorf("ParseRequest() parsed fields wrong: %+v", req)
		}
		if req.Date.Year() != 2024 || int(req.Date.Month()) != 3 || req.Date.Day() != 15 {
			t.Errorf("ParseRequest() date = %v", req.Date)
		}
	})

	t.Run("missing discount is reported, not defaulted", func(t *testing.T) {
		fields := validFields()
		delete(fields, "Discount")
		req, missing, err := ParseRequest(fields)
		if err != nil {
			t.Fatalf("ParseRequest() error = %v", err)
		}
		if req != nil {
			t.Fatal("ParseRequest() returned a request despite missing column")
		}
		if len(missing) != 1 || missing[0] != "Discount" {
			t.Errorf("ParseRequest() missing = %v, want [Discount]", missing)
		}
	})

	tests := []struct {
		name   string
		column string
		value  string
	}{
		{name: "negative price", column: "Price", value: "-1"},
		{name: "discount above one", column: "Discount", value: "1.5"},
		{name: "unknown weather", column: "Weather", value: "Foggy"},
		{name: "unknown promotion", column: "Promotion", value: "Maybe"},
		{name: "malformed date", column: "PredictionDate", value: "15-03-2024"},
		{name: "non-numeric price", column: "Price", value: "expensive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			fields[tt.column] = tt.value
			_, _, err := ParseRequest(fields)
			if err == nil {
				t.Fatalf("ParseRequest() with %s=%q succeeded, want error", tt.column, tt.value)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("ParseRequest() error = %T, want *ValidationError", err)
			}
		})
	}
}
