// Package registry persists the complete training artifact set (pipeline,
// label encoder, feature column order, held-out test data and every trained
// model) in a SQLite database, replacing it atomically on each training run.
package registry

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/evaluate"
	"github.com/rantau/demandcast/internal/pipeline"
)

// Artifact names, one row per artifact under a training run.
const (
	artifactPreprocessor   = "preprocessor"
	artifactLabelEncoder   = "label_encoder"
	artifactFeatureColumns = "feature_columns"
	artifactTestData       = "test_data"
	artifactEvaluations    = "evaluations"
	modelArtifactPrefix    = "model/"
)

func init() {
	gob.Register(&classifier.KNN{})
	gob.Register(&classifier.GaussianNB{})
	gob.Register(&classifier.NearestCentroid{})
}

// TestData is the held-out evaluation split, persisted so results can be
// re-displayed without retraining.
type TestData struct {
	X [][]float64
	Y []int
}

// ArtifactSet is the durable unit a training run produces and the
// prediction service consumes. All parts come from the same run.
type ArtifactSet struct {
	Pipeline       *pipeline.ColumnPipeline
	LabelEncoder   *pipeline.LabelEncoder
	Models         map[string]classifier.Classifier
	Evaluations    map[string]*evaluate.Evaluation
	TestData       *TestData
	FeatureColumns []string
	RunID          string
	TrainedAt      time.Time
}

func encodeArtifact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeArtifact(payload []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(payload)).Decode(v)
}
