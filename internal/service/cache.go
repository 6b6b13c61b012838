package service

import (
	"context"
	"sync"

	"github.com/rantau/demandcast/internal/dataset"
	"github.com/rantau/demandcast/internal/registry"
)

// AssetCache holds the last-loaded artifact set and dataset table so
// repeated predict calls don't reload them. It is explicit state with an
// explicit invalidation point (a new training run), not hidden globals.
type AssetCache struct {
	registry Registry

	mu    sync.RWMutex
	set   *registry.ArtifactSet
	table *dataset.Table
}

// NewAssetCache creates a cache backed by the given registry.
func NewAssetCache(reg Registry) *AssetCache {
	return &AssetCache{registry: reg}
}

// Assets returns the cached artifact set, loading it from the registry on
// first use or after invalidation.
func (c *AssetCache) Assets(ctx context.Context) (*registry.ArtifactSet, error) {
	c.mu.RLock()
	if c.set != nil {
		set := c.set
		c.mu.RUnlock()
		return set, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set == nil {
		set, err := c.registry.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.set = set
	}
	return c.set, nil
}

// Table returns the cached dataset table, if any.
func (c *AssetCache) Table() *dataset.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

// SetTable caches a loaded dataset table.
func (c *AssetCache) SetTable(table *dataset.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
}

// Invalidate drops the cached artifact set. The dataset table stays; a
// training run changes artifacts, not the source data.
func (c *AssetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = nil
}
