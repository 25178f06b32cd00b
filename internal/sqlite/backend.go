package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

var _ types.FittingRegistry = (*Backend)(nil)

// Backend implements FittingRegistry using SQLite as the query engine and
// fittings.jsonl as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend: creates DataDir if needed, rebuilds the
// SQLite database from fittings.jsonl, and seeds the default fitting when
// the registry is empty. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("%w: sqlite backend cannot attach %q", types.ErrBackendUnknown, config.Backend)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	config.DataDir = dataDir

	// The database is a cache of the JSONL file and is rebuilt on every attach.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	jsonlPath := filepath.Join(dataDir, fittingsJSONL)
	if err := ensureJSONL(jsonlPath); err != nil {
		db.Close()
		return err
	}
	loaded, err := loadFittings(db, jsonlPath)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	seeded, err := seedDefaultFitting(db, jsonlPath)
	if err != nil {
		db.Close()
		return fmt.Errorf("seed: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	b.logger.Info("sqlite registry attached",
		zap.String("data_dir", dataDir),
		zap.Int("loaded", loaded),
		zap.Bool("seeded", seeded))
	return nil
}

// Detach persists the registry to JSONL and closes the database.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	err := multierr.Append(
		b.persistLocked(context.Background()),
		b.db.Close(),
	)
	b.db = nil
	b.attached = false

	b.logger.Info("sqlite registry detached", zap.Error(err))
	return err
}

// jsonlPath returns the path of the JSONL source of truth.
func (b *Backend) jsonlPath() string {
	return filepath.Join(b.config.DataDir, fittingsJSONL)
}
