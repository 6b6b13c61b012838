package dataset

import (
	"fmt"

	"github.com/rantau/demandcast/internal/common"
)

// Frame is a column-ordered table of feature values. Columns are either
// numeric (float64) or categorical (string); the column order is
// significant and preserved through Select.
type Frame struct {
	numeric     map[string][]float64
	categorical map[string][]string
	columns     []string
	rows        int
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
	}
}

// AddNumeric appends a numeric column. The first column added fixes the
// frame's row count; later columns must match it.
func (f *Frame) AddNumeric(name string, values []float64) error {
	if err := f.addColumn(name, len(values)); err != nil {
		return err
	}
	f.numeric[name] = values
	return nil
}

// AddCategorical appends a categorical column.
func (f *Frame) AddCategorical(name string, values []string) error {
	if err := f.addColumn(name, len(values)); err != nil {
		return err
	}
	f.categorical[name] = values
	return nil
}

func (f *Frame) addColumn(name string, length int) error {
	if _, ok := f.numeric[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	if _, ok := f.categorical[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(f.columns) == 0 {
		f.rows = length
	} else if length != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, length, f.rows)
	}
	f.columns = append(f.columns, name)
	return nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	return f.rows
}

// Numeric returns the values of a numeric column.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	values, ok := f.numeric[name]
	return values, ok
}

// Categorical returns the values of a categorical column.
func (f *Frame) Categorical(name string) ([]string, bool) {
	values, ok := f.categorical[name]
	return values, ok
}

// Select returns a frame containing exactly the named columns, in the given
// order. A requested column absent from the frame is a schema mismatch;
// selection never fills defaults.
func (f *Frame) Select(order []string) (*Frame, error) {
	var missing []string
	for _, name := range order {
		if _, ok := f.numeric[name]; ok {
			continue
		}
		if _, ok := f.categorical[name]; ok {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		return nil, common.NewSchemaError(missing)
	}

	out := NewFrame()
	for _, name := range order {
		if values, ok := f.numeric[name]; ok {
			if err := out.AddNumeric(name, values); err != nil {
				return nil, err
			}
			continue
		}
		if err := out.AddCategorical(name, f.categorical[name]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
