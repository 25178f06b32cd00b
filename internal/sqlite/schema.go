// Package sqlite implements the SQLite-backed fittings registry.
package sqlite

// Schema DDL for the fittings table.
const (
	createFittings = `CREATE TABLE fittings (
    code TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    series TEXT NOT NULL,
    configuration TEXT NOT NULL,
    cracking_pressure TEXT,
    material TEXT
);`

	idxFittingsSeries   = `CREATE INDEX idx_fittings_series ON fittings(series);`
	idxFittingsMaterial = `CREATE INDEX idx_fittings_material ON fittings(material);`
)

// schemaDDL lists all statements applied on attach, in order.
var schemaDDL = []string{
	createFittings,
	idxFittingsSeries,
	idxFittingsMaterial,
}

// File names inside DataDir.
const (
	dbFileName       = "fittings.db"
	fittingsJSONL    = "fittings.jsonl"
	fittingColumns   = "code, description, series, configuration, cracking_pressure, material"
	selectFittingSQL = "SELECT " + fittingColumns + " FROM fittings"
)
