package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/common"
	"github.com/rantau/demandcast/internal/dataset"
	"github.com/rantau/demandcast/internal/evaluate"
	"github.com/rantau/demandcast/internal/model"
	"github.com/rantau/demandcast/internal/pipeline"
)

func createTestRegistry(t *testing.T) *SQLiteRegistry {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	reg, err := NewSQLiteRegistry(dbPath)
	require.NoError(t, err, "failed to create registry")

	ctx := context.Background()
	require.NoError(t, reg.Migrate(ctx), "failed to migrate")

	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

// fittedArtifactSet trains a tiny but real artifact set so gob round-trips
// cover every persisted type.
func fittedArtifactSet(t *testing.T) *ArtifactSet {
	t.Helper()

	txns := []model.Transaction{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductID: "P1", StoreID: "S1", Weather: "Sunny", Promotion: "Yes", Price: 10, Discount: 0.1, SalesQuantity: 3},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ProductID: "P2", StoreID: "S1", Weather: "Rainy", Promotion: "No", Price: 20, Discount: 0.2, SalesQuantity: 7},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), ProductID: "P1", StoreID: "S2", Weather: "Cloudy", Promotion: "No", Price: 30, Discount: 0.3, SalesQuantity: 12},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), ProductID: "P2", StoreID: "S2", Weather: "Sunny", Promotion: "Yes", Price: 40, Discount: 0.0, SalesQuantity: 4},
	}
	labels := []string{model.DemandLow, model.DemandMedium, model.DemandHigh, model.DemandLow}

	encoder := &pipeline.LabelEncoder{}
	y, err := encoder.FitTransform(labels)
	require.NoError(t, err)

	frame, err := dataset.BuildFrame(txns)
	require.NoError(t, err)

	pipe := pipeline.New()
	require.NoError(t, pipe.Fit(frame))
	X, err := pipe.Transform(frame)
	require.NoError(t, err)

	models := map[string]classifier.Classifier{
		classifier.FamilyKNN:             classifier.NewKNN(1),
		classifier.FamilyGaussianNB:      classifier.NewGaussianNB(),
		classifier.FamilyNearestCentroid: classifier.NewNearestCentroid(),
	}
	evaluations := make(map[string]*evaluate.Evaluation)
	for family, clf := range models {
		require.NoError(t, clf.Fit(X, y))
		evaluations[family] = evaluate.Evaluate(y, clf.Predict(X))
	}

	rows, cols := X.Dims()
	testX := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		testX[i] = make([]float64, cols)
		copy(testX[i], X.RawRowView(i))
	}

	return &ArtifactSet{
		Pipeline:       pipe,
		LabelEncoder:   encoder,
		FeatureColumns: frame.Columns(),
		Models:         models,
		Evaluations:    evaluations,
		TestData:       &TestData{X: testX, Y: y},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	reg := createTestRegistry(t)
	ctx := context.Background()

	set := fittedArtifactSet(t)
	require.NoError(t, reg.Save(ctx, set))
	assert.NotEmpty(t, set.RunID, "Save should assign a run ID")

	loaded, err := reg.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, set.RunID, loaded.RunID)
	assert.Equal(t, set.FeatureColumns, loaded.FeatureColumns,
		"feature column order must survive persistence exactly")
	assert.Equal(t, dataset.FeatureColumns(), loaded.FeatureColumns)
	assert.Equal(t, set.LabelEncoder.Classes, loaded.LabelEncoder.Classes)
	assert.True(t, loaded.Pipeline.Fitted, "loaded pipeline must still be fitted")
	require.NotNil(t, loaded.TestData)
	assert.Equal(t, set.TestData.Y, loaded.TestData.Y)
	require.Len(t, loaded.Models, 3)
	require.NotNil(t, loaded.Evaluations)

	// Reloaded models produce the same predictions as the originals.
	frame, err := dataset.BuildFrame([]model.Transaction{{
		Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ProductID: "P1", StoreID: "S1",
		Weather: "Sunny", Promotion: "Yes", Price: 15, Discount: 0.1,
	}})
	require.NoError(t, err)
	X, err := loaded.Pipeline.Transform(frame)
	require.NoError(t, err)
	for family, clf := range loaded.Models {
		original := set.Models[family].Predict(X)
		reloaded := clf.Predict(X)
		assert.Equal(t, original, reloaded, "family %s predictions changed after reload", family)
	}
}

func TestLoadBeforeTraining(t *testing.T) {
	reg := createTestRegistry(t)
	_, err := reg.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNotTrained)
}

func TestSaveReplacesWholeSet(t *testing.T) {
	reg := createTestRegistry(t)
	ctx := context.Background()

	first := fittedArtifactSet(t)
	require.NoError(t, reg.Save(ctx, first))

	second := fittedArtifactSet(t)
	require.NoError(t, reg.Save(ctx, second))
	assert.NotEqual(t, first.RunID, second.RunID)

	loaded, err := reg.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, loaded.RunID)

	// Only the current run remains on disk.
	var runs int
	require.NoError(t, reg.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 1, runs)
	var orphans int
	require.NoError(t, reg.db.QueryRow(
		`SELECT COUNT(*) FROM artifacts WHERE run_id != ?`, second.RunID).Scan(&orphans))
	assert.Equal(t, 0, orphans)
}

func TestPartialArtifactSetIsNotTrained(t *testing.T) {
	reg := createTestRegistry(t)
	ctx := context.Background()

	set := fittedArtifactSet(t)
	require.NoError(t, reg.Save(ctx, set))

	// Simulate a corrupted store missing one required artifact.
	_, err := reg.db.Exec(`DELETE FROM artifacts WHERE name = ?`, artifactLabelEncoder)
	require.NoError(t, err)

	_, err = reg.Load(ctx)
	assert.ErrorIs(t, err, common.ErrNotTrained)
}

func TestSaveRejectsIncompleteSet(t *testing.T) {
	reg := createTestRegistry(t)
	set := fittedArtifactSet(t)
	set.LabelEncoder = nil

	err := reg.Save(context.Background(), set)
	require.Error(t, err)
}

func TestSaveIsAtomicOnFailure(t *testing.T) {
	reg := createTestRegistry(t)
	ctx := context.Background()

	good := fittedArtifactSet(t)
	require.NoError(t, reg.Save(ctx, good))

	// A save that explodes mid-transaction leaves the previous run intact.
	bad := fittedArtifactSet(t)
	bad.RunID = good.RunID // primary key collision on runs.id
	require.Error(t, reg.Save(ctx, bad))

	loaded, err := reg.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, good.RunID, loaded.RunID)
}

func TestLoadAfterCorruptPayload(t *testing.T) {
	reg := createTestRegistry(t)
	ctx := context.Background()

	set := fittedArtifactSet(t)
	require.NoError(t, reg.Save(ctx, set))

	_, err := reg.db.Exec(`UPDATE artifacts SET payload = ? WHERE name = ?`,
		[]byte("not gob"), artifactPreprocessor)
	require.NoError(t, err)

	_, err = reg.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotTrained,
		"corruption should be distinguishable from an untrained store")
}
