package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rantau/demandcast/internal/dataset"
)

// ColumnPipeline is the fitted preprocessing step shared by every model:
// numeric columns are standard-scaled, categorical columns one-hot encoded.
// It is fitted exactly once per training run, on training data only, and
// reused unchanged for evaluation and serving.
type ColumnPipeline struct {
	NumericColumns     []string
	CategoricalColumns []string
	Scaler             *StandardScaler
	Encoder            *OneHotEncoder
	Fitted             bool
}

// New creates an unfitted pipeline over the canonical feature split.
func New() *ColumnPipeline {
	return &ColumnPipeline{
		NumericColumns:     dataset.NumericFeatures(),
		CategoricalColumns: dataset.CategoricalFeatures(),
		Scaler:             &StandardScaler{},
		Encoder:            &OneHotEncoder{},
	}
}

// Fit captures scaling statistics and categorical vocabularies from the
// training frame.
func (p *ColumnPipeline) Fit(frame *dataset.Frame) error {
	numeric := make([][]float64, len(p.NumericColumns))
	for j, name := range p.NumericColumns {
		values, ok := frame.Numeric(name)
		if !ok {
			return fmt.Errorf("pipeline: numeric column %q missing from frame", name)
		}
		numeric[j] = values
	}
	if err := p.Scaler.Fit(numeric); err != nil {
		return err
	}

	categorical := make(map[string][]string, len(p.CategoricalColumns))
	for _, name := range p.CategoricalColumns {
		values, ok := frame.Categorical(name)
		if !ok {
			return fmt.Errorf("pipeline: categorical column %q missing from frame", name)
		}
		categorical[name] = values
	}
	if err := p.Encoder.Fit(categorical); err != nil {
		return err
	}

	p.Fitted = true
	return nil
}

// Width returns the number of output feature columns.
func (p *ColumnPipeline) Width() int {
	width := len(p.NumericColumns)
	for _, name := range p.CategoricalColumns {
		width += p.Encoder.Width(name)
	}
	return width
}

// Transform applies the fitted scaling and encoding to a frame, producing
// the dense matrix the classifiers consume. The output layout is the
// scaled numeric block followed by each categorical column's one-hot block.
func (p *ColumnPipeline) Transform(frame *dataset.Frame) (*mat.Dense, error) {
	if !p.Fitted {
		return nil, fmt.Errorf("pipeline: transform before fit")
	}

	rows := frame.Rows()
	out := mat.NewDense(rows, p.Width(), nil)

	for j, name := range p.NumericColumns {
		values, ok := frame.Numeric(name)
		if !ok {
			return nil, fmt.Errorf("pipeline: numeric column %q missing from frame", name)
		}
		for i := 0; i < rows; i++ {
			out.Set(i, j, p.Scaler.Scale(j, values[i]))
		}
	}

	offset := len(p.NumericColumns)
	for _, name := range p.CategoricalColumns {
		values, ok := frame.Categorical(name)
		if !ok {
			return nil, fmt.Errorf("pipeline: categorical column %q missing from frame", name)
		}
		width := p.Encoder.Width(name)
		block := make([]float64, width)
		for i := 0; i < rows; i++ {
			p.Encoder.Encode(name, values[i], block)
			for k, v := range block {
				out.Set(i, offset+k, v)
			}
		}
		offset += width
	}

	return out, nil
}
