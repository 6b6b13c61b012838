package service

import (
	"context"
	"fmt"

	"github.com/rantau/demandcast/internal/dataset"
	"github.com/rantau/demandcast/internal/model"
)

// Predictor scores single raw records against every persisted model family.
// It is side-effect free; all state lives in the asset cache.
type Predictor struct {
	cache *AssetCache
}

// NewPredictor creates a predictor reading artifacts through the cache.
func NewPredictor(cache *AssetCache) *Predictor {
	return &Predictor{cache: cache}
}

// PredictFamily scores one request against a single named model family.
func (p *Predictor) PredictFamily(ctx context.Context, req *model.PredictionRequest, family string) (string, error) {
	results, err := p.Predict(ctx, req)
	if err != nil {
		return "", err
	}
	label, ok := results[family]
	if !ok {
		return "", fmt.Errorf("unknown model family %q", family)
	}
	return label, nil
}

// Predict transforms one request exactly the way training data was
// transformed and returns each model family's decoded demand category.
func (p *Predictor) Predict(ctx context.Context, req *model.PredictionRequest) (map[string]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	assets, err := p.cache.Assets(ctx)
	if err != nil {
		return nil, err
	}

	frame, err := dataset.BuildRequestFrame(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request frame: %w", err)
	}
	// Reorder to the column order the pipeline was fitted on. A column the
	// artifact set expects but the frame lacks is a schema mismatch.
	frame, err = frame.Select(assets.FeatureColumns)
	if err != nil {
		return nil, err
	}

	x, err := assets.Pipeline.Transform(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to transform request: %w", err)
	}

	results := make(map[string]string, len(assets.Models))
	for family, clf := range assets.Models {
		codes := clf.Predict(x)
		labels, err := assets.LabelEncoder.InverseTransform(codes)
		if err != nil {
			return nil, fmt.Errorf("failed to decode prediction for %s: %w", family, err)
		}
		results[family] = labels[0]
	}
	return results, nil
}
