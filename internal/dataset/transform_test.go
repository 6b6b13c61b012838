package dataset

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rantau/demandcast/internal/common"
	"github.com/rantau/demandcast/internal/model"
)

func TestCalendarFeatures(t *testing.T) {
	tests := []struct {
		name          string
		date          time.Time
		wantMonth     int
		wantDayOfWeek int
		wantDayOfYear int
	}{
		{
			// 2024-03-15 is a Friday.
			name:          "mid March leap year",
			date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantMonth:     3,
			wantDayOfWeek: 4,
			wantDayOfYear: 75,
		},
		{
			name:          "Monday maps to zero",
			date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantMonth:     1,
			wantDayOfWeek: 0,
			wantDayOfYear: 1,
		},
		{
			name:          "Sunday maps to six",
			date:          time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			wantMonth:     12,
			wantDayOfWeek: 6,
			wantDayOfYear: 365,
		},
		{
			name:          "leap year end",
			date:          time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			wantMonth:     12,
			wantDayOfWeek: 1,
			wantDayOfYear: 366,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, dayOfWeek, dayOfYear := CalendarFeatures(tt.date)
			if month != tt.wantMonth || dayOfWeek != tt.wantDayOfWeek || dayOfYear != tt.wantDayOfYear {
				t.Errorf("CalendarFeatures(%v) = (%d, %d, %d), want (%d, %d, %d)",
					tt.date, month, dayOfWeek, dayOfYear,
					tt.wantMonth, tt.wantDayOfWeek, tt.wantDayOfYear)
			}
		})
	}
}

func TestDeriveLabel(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("single low row", func(t *testing.T) {
		table := &Table{Transactions: []model.Transaction{
			{Date: date, ProductID: "P1", SalesQuantity: 3},
		}}
		kept, labels, err := DeriveLabel(table)
		if err != nil {
			t.Fatalf("DeriveLabel() error = %v", err)
		}
		if len(kept) != 1 || labels[0] != model.DemandLow {
			t.Errorf("DeriveLabel() labels = %v, want [%s]", labels, model.DemandLow)
		}
	})

	t.Run("single high row", func(t *testing.T) {
		table := &Table{Transactions: []model.Transaction{
			{Date: date, ProductID: "P1", SalesQuantity: 11},
		}}
		_, labels, err := DeriveLabel(table)
		if err != nil {
			t.Fatalf("DeriveLabel() error = %v", err)
		}
		if labels[0] != model.DemandHigh {
			t.Errorf("DeriveLabel() label = %q, want %q", labels[0], model.DemandHigh)
		}
	})

	t.Run("unlabelable rows are dropped", func(t *testing.T) {
		table := &Table{Transactions: []model.Transaction{
			{Date: date, SalesQuantity: 0},
			{Date: date, SalesQuantity: 7},
			{Date: date, SalesQuantity: -4},
		}}
		kept, labels, err := DeriveLabel(table)
		if err != nil {
			t.Fatalf("DeriveLabel() error = %v", err)
		}
		if len(kept) != 1 || labels[0] != model.DemandMedium {
			t.Errorf("DeriveLabel() kept %d rows with labels %v", len(kept), labels)
		}
	})

	t.Run("all rows dropped is fatal", func(t *testing.T) {
		table := &Table{Transactions: []model.Transaction{
			{Date: date, SalesQuantity: 0},
			{Date: date, SalesQuantity: -1},
		}}
		_, _, err := DeriveLabel(table)
		if !errors.Is(err, common.ErrEmptyAfterLabeling) {
			t.Errorf("DeriveLabel() error = %v, want ErrEmptyAfterLabeling", err)
		}
	})
}

func TestBuildFrameColumnOrder(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ProductID: "P1", StoreID: "S1",
			Weather: "Sunny", Promotion: "Yes",
			Price: 20, Discount: 0.1,
		},
	}
	frame, err := BuildFrame(txns)
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	if !reflect.DeepEqual(frame.Columns(), FeatureColumns()) {
		t.Errorf("BuildFrame() columns = %v, want %v", frame.Columns(), FeatureColumns())
	}

	month, ok := frame.Numeric("Month")
	if !ok || month[0] != 3 {
		t.Errorf("frame Month = %v, want [3]", month)
	}
	dayOfWeek, _ := frame.Numeric("DayOfWeek")
	if dayOfWeek[0] != 4 {
		t.Errorf("frame DayOfWeek = %v, want [4]", dayOfWeek)
	}
	dayOfYear, _ := frame.Numeric("DayOfYear")
	if dayOfYear[0] != 75 {
		t.Errorf("frame DayOfYear = %v, want [75]", dayOfYear)
	}
}

func TestFrameSelect(t *testing.T) {
	frame := NewFrame()
	if err := frame.AddNumeric("Price", []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := frame.AddCategorical("Weather", []string{"Sunny", "Rainy"}); err != nil {
		t.Fatal(err)
	}

	t.Run("reorders columns", func(t *testing.T) {
		selected, err := frame.Select([]string{"Weather", "Price"})
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if !reflect.DeepEqual(selected.Columns(), []string{"Weather", "Price"}) {
			t.Errorf("Select() columns = %v", selected.Columns())
		}
	})

	t.Run("missing column is a schema mismatch", func(t *testing.T) {
		_, err := frame.Select([]string{"Price", "Discount"})
		if !errors.Is(err, common.ErrSchemaMismatch) {
			t.Fatalf("Select() error = %v, want ErrSchemaMismatch", err)
		}
		var schemaErr *common.SchemaError
		if !errors.As(err, &schemaErr) || len(schemaErr.MissingColumns) != 1 || schemaErr.MissingColumns[0] != "Discount" {
			t.Errorf("Select() missing columns = %v, want [Discount]", schemaErr.MissingColumns)
		}
	})
}
