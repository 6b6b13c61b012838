// Package service wires the training and prediction workflows: it owns the
// trainer that produces artifact sets, the predictor that scores single
// records, and the explicit cache between them.
package service

import (
	"context"

	"github.com/rantau/demandcast/internal/registry"
)

// Registry is the contract for durable artifact storage.
type Registry interface {
	Save(ctx context.Context, set *registry.ArtifactSet) error
	Load(ctx context.Context) (*registry.ArtifactSet, error)
}
