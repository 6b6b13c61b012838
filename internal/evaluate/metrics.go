package evaluate

import (
	"sort"
)

// ClassReport holds per-class precision, recall, F1 and support.
type ClassReport struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation is the full scoring of one model against held-out data.
type Evaluation struct {
	PerClass  map[int]ClassReport
	Classes   []int
	Confusion [][]int
	Accuracy  float64
	MacroF1   float64
	Samples   int
}

// Evaluate scores predictions against true labels. Classes are taken from
// the union of both slices so the confusion matrix always covers every
// observed label.
func Evaluate(yTrue, yPred []int) *Evaluation {
	classes := unionClasses(yTrue, yPred)
	classIdx := make(map[int]int, len(classes))
	for i, class := range classes {
		classIdx[class] = i
	}

	confusion := make([][]int, len(classes))
	for i := range confusion {
		confusion[i] = make([]int, len(classes))
	}
	correct := 0
	for i := range yTrue {
		confusion[classIdx[yTrue[i]]][classIdx[yPred[i]]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	perClass := make(map[int]ClassReport, len(classes))
	var macroF1 float64
	for i, class := range classes {
		tp := confusion[i][i]
		fp, fn, support := 0, 0, 0
		for j := range classes {
			if j != i {
				fp += confusion[j][i]
				fn += confusion[i][j]
			}
			support += confusion[i][j]
		}

		precision := safeDiv(float64(tp), float64(tp+fp))
		recall := safeDiv(float64(tp), float64(tp+fn))
		f1 := safeDiv(2*precision*recall, precision+recall)
		perClass[class] = ClassReport{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
		macroF1 += f1
	}
	if len(classes) > 0 {
		macroF1 /= float64(len(classes))
	}

	accuracy := 0.0
	if len(yTrue) > 0 {
		accuracy = float64(correct) / float64(len(yTrue))
	}

	return &Evaluation{
		Accuracy:  accuracy,
		MacroF1:   macroF1,
		PerClass:  perClass,
		Classes:   classes,
		Confusion: confusion,
		Samples:   len(yTrue),
	}
}

func unionClasses(yTrue, yPred []int) []int {
	seen := make(map[int]bool)
	for _, label := range yTrue {
		seen[label] = true
	}
	for _, label := range yPred {
		seen[label] = true
	}
	classes := make([]int, 0, len(seen))
	for class := range seen {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
