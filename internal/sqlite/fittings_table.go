package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

// GetFitting retrieves a fitting by code.
// Returns ErrInvalidCode if code is empty, ErrNotFound if not found.
func (b *Backend) GetFitting(ctx context.Context, code string) (*types.Fitting, error) {
	if code == "" {
		return nil, types.ErrInvalidCode
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRegistryDetached
	}

	row := b.db.QueryRowContext(ctx, selectFittingSQL+" WHERE code = ?", code)
	fit, err := hydrateFitting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting fitting %s: %w", code, err)
	}
	return fit, nil
}

// SetFitting inserts or replaces the fitting and rewrites fittings.jsonl.
func (b *Backend) SetFitting(ctx context.Context, f *types.Fitting) error {
	if err := f.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrRegistryDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertFitting(ctx, tx, f); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing fitting: %w", err)
	}

	if err := b.persistLocked(ctx); err != nil {
		return fmt.Errorf("persisting %s: %w", fittingsJSONL, err)
	}
	return nil
}

// FetchFittings queries fittings matching the filter ordered by code.
func (b *Backend) FetchFittings(ctx context.Context, filter types.Filter) ([]*types.Fitting, error) {
	series, material, err := filter.Strings()
	if err != nil {
		return nil, err
	}
	limit, offset, err := filter.Window()
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRegistryDetached
	}

	query := selectFittingSQL
	var conditions []string
	var args []any
	if series != "" {
		conditions = append(conditions, "series = ?")
		args = append(args, series)
	}
	if material != "" {
		conditions = append(conditions, "material = ?")
		args = append(args, material)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	} else if offset > 0 {
		query += " LIMIT -1"
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	return queryFittings(ctx, b.db, query, args...)
}

// persistLocked writes every fitting to fittings.jsonl.
// The caller must hold b.mu.
func (b *Backend) persistLocked(ctx context.Context) error {
	all, err := queryFittings(ctx, b.db, selectFittingSQL+" ORDER BY code ASC")
	if err != nil {
		return err
	}
	return writeFittingsJSONL(b.jsonlPath(), all)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertFitting(ctx context.Context, ex execer, f *types.Fitting) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO fittings (`+fittingColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   description = excluded.description,
		   series = excluded.series,
		   configuration = excluded.configuration,
		   cracking_pressure = excluded.cracking_pressure,
		   material = excluded.material`,
		f.Code, f.Description, f.Series, f.Configuration,
		nullString(f.CrackingPressure), nullString(f.Material),
	)
	if err != nil {
		return fmt.Errorf("persisting fitting %s: %w", f.Code, err)
	}
	return nil
}

func queryFittings(ctx context.Context, db *sql.DB, query string, args ...any) ([]*types.Fitting, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching fittings: %w", err)
	}
	defer rows.Close()

	results := []*types.Fitting{}
	for rows.Next() {
		fit, err := hydrateFitting(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating fitting: %w", err)
		}
		results = append(results, fit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fittings: %w", err)
	}
	return results, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateFitting converts a row into a *types.Fitting.
func hydrateFitting(row scanner) (*types.Fitting, error) {
	var f types.Fitting
	var pressure, material sql.NullString
	if err := row.Scan(&f.Code, &f.Description, &f.Series, &f.Configuration, &pressure, &material); err != nil {
		return nil, err
	}
	if pressure.Valid {
		f.CrackingPressure = types.StringPtr(pressure.String)
	}
	if material.Valid {
		f.Material = types.StringPtr(material.String)
	}
	return &f, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
