package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rantau/demandcast/internal/classifier"
	"github.com/rantau/demandcast/internal/common"
	"github.com/rantau/demandcast/internal/evaluate"
	"github.com/rantau/demandcast/internal/pipeline"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteRegistry stores artifact sets in SQLite. Each training run writes a
// full set under a fresh run ID inside one transaction and flips the
// current-run pointer last, so a concurrent reader sees either the old
// complete set or the new complete set, never a mix.
type SQLiteRegistry struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteRegistry opens (creating if needed) the registry database.
func NewSQLiteRegistry(dbPath string) (*SQLiteRegistry, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: registry path is empty", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping registry database: %w", err)
	}

	return &SQLiteRegistry{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

// Migrate creates the registry schema.
func (r *SQLiteRegistry) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			trained_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS current_run (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			run_id TEXT NOT NULL REFERENCES runs(id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate registry: %w", err)
		}
	}
	return nil
}

// Save persists a complete artifact set under a fresh run ID and publishes
// it as the current run, deleting superseded runs in the same transaction.
func (r *SQLiteRegistry) Save(ctx context.Context, set *ArtifactSet) error {
	if set.Pipeline == nil || set.LabelEncoder == nil || len(set.FeatureColumns) == 0 || len(set.Models) == 0 {
		return fmt.Errorf("refusing to save incomplete artifact set")
	}

	runID := set.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	trainedAt := set.TrainedAt
	if trainedAt.IsZero() {
		trainedAt = time.Now().UTC()
	}

	payloads, err := encodeSet(set)
	if err != nil {
		return fmt.Errorf("failed to encode artifact set: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin registry transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, trained_at) VALUES (?, ?)`,
		runID, trainedAt); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	for name, payload := range payloads {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO artifacts (run_id, name, payload) VALUES (?, ?, ?)`,
			runID, name, payload); err != nil {
			return fmt.Errorf("failed to insert artifact %q: %w", name, err)
		}
	}

	// Publishing the pointer is the commit point for readers.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO current_run (id, run_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET run_id = excluded.run_id`,
		runID); err != nil {
		return fmt.Errorf("failed to publish run: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM artifacts WHERE run_id != ?`, runID); err != nil {
		return fmt.Errorf("failed to prune superseded artifacts: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM runs WHERE id != ?`, runID); err != nil {
		return fmt.Errorf("failed to prune superseded runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registry transaction: %w", err)
	}

	set.RunID = runID
	set.TrainedAt = trainedAt
	slog.Info("Artifact set saved", "run_id", runID, "artifacts", len(payloads))
	return nil
}

// Load reads the current artifact set. A registry with no published run, or
// with a published run missing any required artifact, reports ErrNotTrained;
// running with a partial set is never attempted.
func (r *SQLiteRegistry) Load(ctx context.Context) (*ArtifactSet, error) {
	var runID string
	var trainedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT runs.id, runs.trained_at FROM current_run
		 JOIN runs ON runs.id = current_run.run_id
		 WHERE current_run.id = 1`).Scan(&runID, &trainedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotTrained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current run: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, payload FROM artifacts WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payloads := make(map[string][]byte)
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		payloads[name] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}

	set, err := decodeSet(payloads)
	if err != nil {
		return nil, err
	}
	set.RunID = runID
	set.TrainedAt = trainedAt
	return set, nil
}

func encodeSet(set *ArtifactSet) (map[string][]byte, error) {
	payloads := make(map[string][]byte)

	var err error
	if payloads[artifactPreprocessor], err = encodeArtifact(set.Pipeline); err != nil {
		return nil, err
	}
	if payloads[artifactLabelEncoder], err = encodeArtifact(set.LabelEncoder); err != nil {
		return nil, err
	}
	if payloads[artifactFeatureColumns], err = encodeArtifact(set.FeatureColumns); err != nil {
		return nil, err
	}
	if set.TestData != nil {
		if payloads[artifactTestData], err = encodeArtifact(set.TestData); err != nil {
			return nil, err
		}
	}
	if set.Evaluations != nil {
		if payloads[artifactEvaluations], err = encodeArtifact(set.Evaluations); err != nil {
			return nil, err
		}
	}
	for family, clf := range set.Models {
		payload, err := encodeArtifact(&clf)
		if err != nil {
			return nil, err
		}
		payloads[modelArtifactPrefix+family] = payload
	}
	return payloads, nil
}

func decodeSet(payloads map[string][]byte) (*ArtifactSet, error) {
	required := []string{artifactPreprocessor, artifactLabelEncoder, artifactFeatureColumns}
	for _, family := range classifier.Families() {
		required = append(required, modelArtifactPrefix+family)
	}
	for _, name := range required {
		if _, ok := payloads[name]; !ok {
			slog.Warn("Registry has a partial artifact set, treating as untrained",
				"missing", name)
			return nil, common.ErrNotTrained
		}
	}

	set := &ArtifactSet{
		Pipeline:     &pipeline.ColumnPipeline{},
		LabelEncoder: &pipeline.LabelEncoder{},
		Models:       make(map[string]classifier.Classifier),
	}
	if err := decodeArtifact(payloads[artifactPreprocessor], set.Pipeline); err != nil {
		return nil, fmt.Errorf("failed to decode preprocessor: %w", err)
	}
	if err := decodeArtifact(payloads[artifactLabelEncoder], set.LabelEncoder); err != nil {
		return nil, fmt.Errorf("failed to decode label encoder: %w", err)
	}
	if err := decodeArtifact(payloads[artifactFeatureColumns], &set.FeatureColumns); err != nil {
		return nil, fmt.Errorf("failed to decode feature columns: %w", err)
	}
	if payload, ok := payloads[artifactTestData]; ok {
		set.TestData = &TestData{}
		if err := decodeArtifact(payload, set.TestData); err != nil {
			return nil, fmt.Errorf("failed to decode test data: %w", err)
		}
	}
	if payload, ok := payloads[artifactEvaluations]; ok {
		set.Evaluations = make(map[string]*evaluate.Evaluation)
		if err := decodeArtifact(payload, &set.Evaluations); err != nil {
			return nil, fmt.Errorf("failed to decode evaluations: %w", err)
		}
	}
	for _, family := range classifier.Families() {
		var clf classifier.Classifier
		if err := decodeArtifact(payloads[modelArtifactPrefix+family], &clf); err != nil {
			return nil, fmt.Errorf("failed to decode model %q: %w", family, err)
		}
		set.Models[family] = clf
	}
	return set, nil
}
