package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// loadFittings reads fittings.jsonl into the fittings table in one
// transaction: either every valid record loads or the table stays empty.
// A later record with the same code replaces an earlier one.
func loadFittings(db *sql.DB, path string) (int, error) {
	fittings, err := readFittingsJSONL(path)
	if err != nil {
		return 0, err
	}
	if len(fittings) == 0 {
		return 0, nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, f := range fittings {
		if err := upsertFitting(ctx, tx, f); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return len(fittings), nil
}
