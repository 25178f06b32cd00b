package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

// seedDefaultFitting inserts the default fitting when the table is empty and
// writes it to fittings.jsonl. It reports whether a seed was written.
// Seeding is idempotent: once any fitting exists it does nothing.
func seedDefaultFitting(db *sql.DB, jsonlPath string) (bool, error) {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fittings").Scan(&count); err != nil {
		return false, fmt.Errorf("counting fittings: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	seed := types.DefaultFitting()
	if err := upsertFitting(ctx, db, seed); err != nil {
		return false, err
	}
	if err := writeFittingsJSONL(jsonlPath, []*types.Fitting{seed}); err != nil {
		return false, fmt.Errorf("persisting seeded fitting: %w", err)
	}
	return true, nil
}
