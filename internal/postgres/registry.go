// Package postgres implements the fittings registry on PostgreSQL through a
// pgx connection pool, for deployments that share one registry between
// several service instances.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

var _ types.FittingRegistry = (*Registry)(nil)

const attachTimeout = 10 * time.Second

const createFittings = `CREATE TABLE IF NOT EXISTS fittings (
    code TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    series TEXT NOT NULL,
    configuration TEXT NOT NULL,
    cracking_pressure TEXT,
    material TEXT
)`

const (
	fittingColumns = "code, description, series, configuration, cracking_pressure, material"
	upsertSQL      = `INSERT INTO fittings (` + fittingColumns + `) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO UPDATE SET
    description = EXCLUDED.description,
    series = EXCLUDED.series,
    configuration = EXCLUDED.configuration,
    cracking_pressure = EXCLUDED.cracking_pressure,
    material = EXCLUDED.material`
	seedSQL = `INSERT INTO fittings (` + fittingColumns + `) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO NOTHING`
)

// Registry stores fittings in a PostgreSQL table.
type Registry struct {
	mu     sync.RWMutex
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRegistry returns an unattached registry. A nil logger discards output.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// Attach connects to config.PostgresDSN, creates the fittings table if
// needed, and seeds the default fitting when the table is empty.
func (r *Registry) Attach(config types.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendPostgres {
		return fmt.Errorf("%w: postgres backend cannot attach %q", types.ErrBackendUnknown, config.Backend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), attachTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, config.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createFittings); err != nil {
		pool.Close()
		return fmt.Errorf("creating fittings table: %w", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM fittings").Scan(&count); err != nil {
		pool.Close()
		return fmt.Errorf("counting fittings: %w", err)
	}
	if count == 0 {
		seed := types.DefaultFitting()
		if _, err := pool.Exec(ctx, seedSQL, args(seed)...); err != nil {
			pool.Close()
			return fmt.Errorf("seeding default fitting: %w", err)
		}
	}

	r.pool = pool
	r.logger.Info("postgres registry attached", zap.Bool("seeded", count == 0))
	return nil
}

// Detach closes the pool. Idempotent.
func (r *Registry) Detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
		r.logger.Info("postgres registry detached")
	}
	return nil
}

// GetFitting returns the fitting stored under code.
func (r *Registry) GetFitting(ctx context.Context, code string) (*types.Fitting, error) {
	if code == "" {
		return nil, types.ErrInvalidCode
	}
	pool, err := r.acquire()
	if err != nil {
		return nil, err
	}

	row := pool.QueryRow(ctx, "SELECT "+fittingColumns+" FROM fittings WHERE code = $1", code)
	f, err := scanFitting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting fitting %s: %w", code, err)
	}
	return f, nil
}

// SetFitting upserts f.
func (r *Registry) SetFitting(ctx context.Context, f *types.Fitting) error {
	if err := f.Validate(); err != nil {
		return err
	}
	pool, err := r.acquire()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, upsertSQL, args(f)...); err != nil {
		return fmt.Errorf("persisting fitting %s: %w", f.Code, err)
	}
	return nil
}

// FetchFittings returns the matching fittings ordered by code.
func (r *Registry) FetchFittings(ctx context.Context, filter types.Filter) ([]*types.Fitting, error) {
	series, material, err := filter.Strings()
	if err != nil {
		return nil, err
	}
	limit, offset, err := filter.Window()
	if err != nil {
		return nil, err
	}
	pool, err := r.acquire()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + fittingColumns + " FROM fittings"
	var conditions []string
	var params []any
	if series != "" {
		params = append(params, series)
		conditions = append(conditions, fmt.Sprintf("series = $%d", len(params)))
	}
	if material != "" {
		params = append(params, material)
		conditions = append(conditions, fmt.Sprintf("material = $%d", len(params)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	rows, err := pool.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("fetching fittings: %w", err)
	}
	defer rows.Close()

	results := []*types.Fitting{}
	for rows.Next() {
		f, err := scanFitting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fitting: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fittings: %w", err)
	}
	return results, nil
}

func (r *Registry) acquire() (*pgxpool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pool == nil {
		return nil, types.ErrRegistryDetached
	}
	return r.pool, nil
}

func args(f *types.Fitting) []any {
	return []any{f.Code, f.Description, f.Series, f.Configuration, f.CrackingPressure, f.Material}
}

func scanFitting(row pgx.Row) (*types.Fitting, error) {
	var f types.Fitting
	if err := row.Scan(&f.Code, &f.Description, &f.Series, &f.Configuration, &f.CrackingPressure, &f.Material); err != nil {
		return nil, err
	}
	return &f, nil
}
