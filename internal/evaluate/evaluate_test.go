package evaluate

import (
	"reflect"
	"testing"
)

func TestStratifiedSplit(t *testing.T) {
	// 50 of class 0, 30 of class 1, 20 of class 2.
	y := make([]int, 0, 100)
	for i := 0; i < 50; i++ {
		y = append(y, 0)
	}
	for i := 0; i < 30; i++ {
		y = append(y, 1)
	}
	for i := 0; i < 20; i++ {
		y = append(y, 2)
	}

	trainIdx, testIdx, err := StratifiedSplit(y, 0.2, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if len(trainIdx)+len(testIdx) != len(y) {
		t.Fatalf("split sizes %d + %d != %d", len(trainIdx), len(testIdx), len(y))
	}

	counts := func(indices []int) map[int]int {
		out := make(map[int]int)
		for _, idx := range indices {
			out[y[idx]]++
		}
		return out
	}
	testCounts := counts(testIdx)
	if testCounts[0] != 10 || testCounts[1] != 6 || testCounts[2] != 4 {
		t.Errorf("test class proportions = %v, want map[0:10 1:6 2:4]", testCounts)
	}

	// No index appears on both sides.
	seen := make(map[int]bool)
	for _, idx := range trainIdx {
		seen[idx] = true
	}
	for _, idx := range testIdx {
		if seen[idx] {
			t.Fatalf("index %d appears in both train and test", idx)
		}
	}
}

func TestStratifiedSplitDeterminism(t *testing.T) {
	y := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2}

	train1, test1, err := StratifiedSplit(y, 0.2, 7)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	train2, test2, err := StratifiedSplit(y, 0.2, 7)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("same seed produced different splits")
	}

	train3, _, err := StratifiedSplit(y, 0.2, 8)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if reflect.DeepEqual(train1, train3) {
		t.Error("different seeds produced identical splits")
	}
}

func TestStratifiedSplitErrors(t *testing.T) {
	if _, _, err := StratifiedSplit(nil, 0.2, 1); err == nil {
		t.Error("empty dataset split succeeded, want error")
	}
	if _, _, err := StratifiedSplit([]int{0, 1}, 1.5, 1); err == nil {
		t.Error("test size 1.5 accepted, want error")
	}
	// A class with a single sample cannot appear in both sides.
	if _, _, err := StratifiedSplit([]int{0, 0, 0, 1}, 0.2, 1); err == nil {
		t.Error("degenerate class split succeeded, want error")
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("perfect predictions", func(t *testing.T) {
		y := []int{0, 1, 2, 0, 1, 2}
		eval := Evaluate(y, y)
		if eval.Accuracy != 1 {
			t.Errorf("Accuracy = %v, want 1", eval.Accuracy)
		}
		if eval.MacroF1 != 1 {
			t.Errorf("MacroF1 = %v, want 1", eval.MacroF1)
		}
		for class, report := range eval.PerClass {
			if report.Precision != 1 || report.Recall != 1 || report.Support != 2 {
				t.Errorf("class %d report = %+v", class, report)
			}
		}
	})

	t.Run("known confusion", func(t *testing.T) {
		yTrue := []int{0, 0, 0, 1, 1, 1}
		yPred := []int{0, 0, 1, 1, 1, 0}
		eval := Evaluate(yTrue, yPred)

		wantConfusion := [][]int{{2, 1}, {1, 2}}
		if !reflect.DeepEqual(eval.Confusion, wantConfusion) {
			t.Errorf("Confusion = %v, want %v", eval.Confusion, wantConfusion)
		}
		if eval.Accuracy != 4.0/6.0 {
			t.Errorf("Accuracy = %v, want %v", eval.Accuracy, 4.0/6.0)
		}
		report := eval.PerClass[0]
		if report.Precision != 2.0/3.0 || report.Recall != 2.0/3.0 {
			t.Errorf("class 0 report = %+v", report)
		}
	})

	t.Run("class predicted but never true", func(t *testing.T) {
		eval := Evaluate([]int{0, 0}, []int{0, 1})
		if len(eval.Classes) != 2 {
			t.Fatalf("Classes = %v, want both observed classes", eval.Classes)
		}
		if eval.PerClass[1].Recall != 0 || eval.PerClass[1].Support != 0 {
			t.Errorf("phantom class report = %+v", eval.PerClass[1])
		}
	})
}
