package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/dataset"
	"github.com/rantau/demandcast/internal/evaluate"
	"github.com/rantau/demandcast/internal/model"
	"github.com/rantau/demandcast/internal/pipeline"
	"github.com/rantau/demandcast/internal/registry"
)

// TrainerConfig carries the training knobs from configuration.
type TrainerConfig struct {
	Seed         int64
	TestSize     float64
	KNNNeighbors int
}

// DefaultTrainerConfig matches the original training setup.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Seed:         42,
		TestSize:     0.2,
		KNNNeighbors: 5,
	}
}

// TrainingResult reports one completed training run.
type TrainingResult struct {
	Evaluations map[string]*evaluate.Evaluation
	Classes     []string
	RunID       string
	TrainedAt   time.Time
	Rows        int
	TrainRows   int
	TestRows    int
}

// Trainer runs the full training workflow: label and feature derivation,
// one stratified split shared by every model family, pipeline fitting on
// training data only, per-family fit and evaluation, and a single atomic
// registry save. At most one run is in flight at a time.
type Trainer struct {
	registry Registry
	cache    *AssetCache
	config   TrainerConfig

	// Progress, when set, is called after each model family finishes.
	Progress func(family string)

	mu sync.Mutex
}

// NewTrainer creates a trainer backed by the given registry. The cache, if
// non-nil, is invalidated after every successful run.
func NewTrainer(reg Registry, cache *AssetCache, config TrainerConfig) *Trainer {
	if config.TestSize <= 0 || config.TestSize >= 1 {
		config.TestSize = 0.2
	}
	if config.KNNNeighbors <= 0 {
		config.KNNNeighbors = 5
	}
	return &Trainer{registry: reg, cache: cache, config: config}
}

// Train fits all model families on the table and persists the resulting
// artifact set. Any family's failure fails the whole run; the three models
// are only meaningful as a comparable set.
func (t *Trainer) Train(ctx context.Context, table *dataset.Table) (*TrainingResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	started := time.Now()
	slog.Info("Training run started", "rows", table.Len(), "seed", t.config.Seed)

	txns, labels, err := dataset.DeriveLabel(table)
	if err != nil {
		return nil, err
	}

	encoder := &pipeline.LabelEncoder{}
	y, err := encoder.FitTransform(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode labels: %w", err)
	}

	trainIdx, testIdx, err := evaluate.StratifiedSplit(y, t.config.TestSize, t.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}

	trainFrame, err := dataset.BuildFrame(selectTxns(txns, trainIdx))
	if err != nil {
		return nil, fmt.Errorf("failed to build training frame: %w", err)
	}
	testFrame, err := dataset.BuildFrame(selectTxns(txns, testIdx))
	if err != nil {
		return nil, fmt.Errorf("failed to build test frame: %w", err)
	}
	yTrain := evaluate.SelectLabels(y, trainIdx)
	yTest := evaluate.SelectLabels(y, testIdx)

	// The pipeline is fitted once, on training rows only, and shared by
	// every model and by later serving.
	pipe := pipeline.New()
	if err := pipe.Fit(trainFrame); err != nil {
		return nil, fmt.Errorf("failed to fit pipeline: %w", err)
	}
	xTrain, err := pipe.Transform(trainFrame)
	if err != nil {
		return nil, fmt.Errorf("failed to transform training frame: %w", err)
	}
	xTest, err := pipe.Transform(testFrame)
	if err != nil {
		return nil, fmt.Errorf("failed to transform test frame: %w", err)
	}

	models := map[string]classifier.Classifier{
		classifier.FamilyKNN:             classifier.NewKNN(t.config.KNNNeighbors),
		classifier.FamilyGaussianNB:      classifier.NewGaussianNB(),
		classifier.FamilyNearestCentroid: classifier.NewNearestCentroid(),
	}

	evaluations := make(map[string]*evaluate.Evaluation, len(models))
	for _, family := range classifier.Families() {
		clf := models[family]
		if err := clf.Fit(xTrain, yTrain); err != nil {
			return nil, fmt.Errorf("failed to train %s: %w", family, err)
		}
		evaluations[family] = evaluate.Evaluate(yTest, clf.Predict(xTest))
		slog.Info("Model trained",
			"family", family,
			"accuracy", evaluations[family].Accuracy)
		if t.Progress != nil {
			t.Progress(family)
		}
	}

	set := &registry.ArtifactSet{
		Pipeline:       pipe,
		LabelEncoder:   encoder,
		FeatureColumns: trainFrame.Columns(),
		Models:         models,
		Evaluations:    evaluations,
		TestData: &registry.TestData{
			X: denseRows(xTest),
			Y: yTest,
		},
	}
	if err := t.registry.Save(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to save artifact set: %w", err)
	}
	if t.cache != nil {
		t.cache.Invalidate()
	}

	slog.Info("Training run finished",
		"run_id", set.RunID,
		"duration", time.Since(started).Round(time.Millisecond))

	return &TrainingResult{
		Evaluations: evaluations,
		Classes:     encoder.Classes,
		RunID:       set.RunID,
		TrainedAt:   set.TrainedAt,
		Rows:        len(txns),
		TrainRows:   len(trainIdx),
		TestRows:    len(testIdx),
	}, nil
}

func selectTxns(txns []model.Transaction, indices []int) []model.Transaction {
	out := make([]model.Transaction, len(indices))
	for i, idx := range indices {
		out[i] = txns[idx]
	}
	return out
}

func denseRows(X *mat.Dense) [][]float64 {
	rows, cols := X.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		copy(out[i], X.RawRowView(i))
	}
	return out
}
