package pipeline

import (
	"fmt"
	"sort"
)

// LabelEncoder maps category names to small integer codes and back.
// Classes are assigned codes in sorted-name order so the mapping is
// reproducible across training runs.
type LabelEncoder struct {
	Classes []string
	Codes   map[string]int
	Fitted  bool
}

// Fit learns the label vocabulary.
func (le *LabelEncoder) Fit(labels []string) {
	seen := make(map[string]bool)
	for _, label := range labels {
		seen[label] = true
	}

	le.Classes = make([]string, 0, len(seen))
	for label := range seen {
		le.Classes = append(le.Classes, label)
	}
	sort.Strings(le.Classes)

	le.Codes = make(map[string]int, len(le.Classes))
	for i, label := range le.Classes {
		le.Codes[label] = i
	}
	le.Fitted = true
}

// Transform encodes label names to integer codes.
func (le *LabelEncoder) Transform(labels []string) ([]int, error) {
	if !le.Fitted {
		return nil, fmt.Errorf("label encoder: transform before fit")
	}
	encoded := make([]int, len(labels))
	for i, label := range labels {
		code, ok := le.Codes[label]
		if !ok {
			return nil, fmt.Errorf("label encoder: unknown label %q", label)
		}
		encoded[i] = code
	}
	return encoded, nil
}

// FitTransform fits the encoder and encodes the same labels.
func (le *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	le.Fit(labels)
	return le.Transform(labels)
}

// InverseTransform decodes integer codes back to label names.
func (le *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !le.Fitted {
		return nil, fmt.Errorf("label encoder: inverse transform before fit")
	}
	labels := make([]string, len(codes))
	for i, code := range codes {
		if code < 0 || code >= len(le.Classes) {
			return nil, fmt.Errorf("label encoder: unknown code %d", code)
		}
		labels[i] = le.Classes[code]
	}
	return labels, nil
}
