package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/rantau/demandcast/internal/config"
	"github.com/rantau/demandcast/internal/dataset"
	"github.com/rantau/demandcast/internal/registry"
)

// initRegistry opens the artifact registry with proper path expansion.
func initRegistry(ctx context.Context) (*registry.SQLiteRegistry, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/demandcast/registry.db"
	}
	dbPath = config.ExpandPath(dbPath)

	reg, err := registry.NewSQLiteRegistry(dbPath)
	if err != nil {
		return nil, err
	}

	if err := reg.Migrate(ctx); err != nil {
		_ = reg.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return reg, nil
}

// loadDataset reads the transaction table from the configured path.
func loadDataset() (*dataset.Table, error) {
	path := viper.GetString("data.path")
	if path == "" {
		path = "retail_store_inventory.csv"
	}
	return dataset.Load(config.ExpandPath(path))
}
