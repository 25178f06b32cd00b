// Package registry is the public entry point for fitting registries.
// It selects a backend from a Config while keeping the implementations
// internal.
package registry

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/internal/memory"
	"github.com/mesh-intelligence/jobb/internal/postgres"
	"github.com/mesh-intelligence/jobb/internal/sqlite"
	"github.com/mesh-intelligence/jobb/pkg/types"
)

// New returns an unattached registry for cfg.Backend. It fails with the
// Config validation error when the backend is empty or unknown. A nil
// logger discards log output.
//
// Example:
//
//	reg, err := registry.New(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".jobb-db",
//	}, nil)
//	if err != nil { ... }
//	if err := reg.Attach(cfg); err != nil { ... }
//	defer reg.Detach()
func New(cfg types.Config, logger *zap.Logger) (types.FittingRegistry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(sqlite.WithLogger(logger)), nil
	case types.BackendPostgres:
		return postgres.NewRegistry(logger), nil
	default:
		return memory.NewRegistry(), nil
	}
}
