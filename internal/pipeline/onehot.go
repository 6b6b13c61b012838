package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
)

// OneHotEncoder encodes categorical columns over the vocabulary observed at
// fit time. Values unseen during fitting encode to an all-zero block; a
// served request may legitimately carry a product or store the training
// data never saw.
type OneHotEncoder struct {
	// Vocabulary holds the sorted distinct values per column, keyed by
	// column name. Sorting keeps the encoded layout deterministic across
	// runs.
	Vocabulary map[string][]string
	Fitted     bool
}

// Fit records the distinct values of each categorical column.
func (e *OneHotEncoder) Fit(columns map[string][]string) error {
	if len(columns) == 0 {
		return fmt.Errorf("onehot: no columns to fit")
	}
	e.Vocabulary = make(map[string][]string, len(columns))

	for name, values := range columns {
		seen := make(map[string]bool)
		for _, v := range values {
			seen[v] = true
		}
		vocab := make([]string, 0, len(seen))
		for v := range seen {
			vocab = append(vocab, v)
		}
		sort.Strings(vocab)
		e.Vocabulary[name] = vocab
	}

	e.Fitted = true
	return nil
}

// Width returns the number of encoded output columns for one input column.
func (e *OneHotEncoder) Width(column string) int {
	return len(e.Vocabulary[column])
}

// Encode writes the one-hot block for a value of the given column into dst,
// which must have length Width(column). Unknown values leave dst all zero.
func (e *OneHotEncoder) Encode(column, value string, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	idx := sort.SearchStrings(e.Vocabulary[column], value)
	if idx < len(e.Vocabulary[column]) && e.Vocabulary[column][idx] == value {
		dst[idx] = 1
		return
	}
	slog.Debug("Encoding unseen categorical value as zero block",
		"column", column, "value", value)
}
