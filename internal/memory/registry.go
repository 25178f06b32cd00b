// Package memory implements an in-process fittings registry. It is the
// default backend: fast, seeded on attach, and gone when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

var _ types.FittingRegistry = (*Registry)(nil)

// Registry keeps fittings in a map keyed by code.
type Registry struct {
	mu       sync.RWMutex
	attached bool
	fittings map[string]*types.Fitting
}

// NewRegistry returns an unattached registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Attach seeds the registry with the default fitting.
func (r *Registry) Attach(config types.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	seed := types.DefaultFitting()
	r.fittings = map[string]*types.Fitting{seed.Code: seed}
	r.attached = true
	return nil
}

// Detach drops every stored fitting. Idempotent.
func (r *Registry) Detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attached = false
	r.fittings = nil
	return nil
}

// GetFitting returns a copy of the fitting stored under code.
func (r *Registry) GetFitting(_ context.Context, code string) (*types.Fitting, error) {
	if code == "" {
		return nil, types.ErrInvalidCode
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.attached {
		return nil, types.ErrRegistryDetached
	}
	f, ok := r.fittings[code]
	if !ok {
		return nil, types.ErrNotFound
	}
	return f.Clone(), nil
}

// SetFitting stores a copy of f, replacing any fitting with the same code.
func (r *Registry) SetFitting(_ context.Context, f *types.Fitting) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.attached {
		return types.ErrRegistryDetached
	}
	r.fittings[f.Code] = f.Clone()
	return nil
}

// FetchFittings returns copies of the matching fittings ordered by code.
func (r *Registry) FetchFittings(_ context.Context, filter types.Filter) ([]*types.Fitting, error) {
	series, material, err := filter.Strings()
	if err != nil {
		return nil, err
	}
	limit, offset, err := filter.Window()
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.attached {
		return nil, types.ErrRegistryDetached
	}

	codes := make([]string, 0, len(r.fittings))
	for code, f := range r.fittings {
		if series != "" && f.Series != series {
			continue
		}
		if material != "" && types.Deref(f.Material) != material {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)

	if offset >= len(codes) {
		return []*types.Fitting{}, nil
	}
	codes = codes[offset:]
	if limit > 0 && limit < len(codes) {
		codes = codes[:limit]
	}

	out := make([]*types.Fitting, len(codes))
	for i, code := range codes {
		out[i] = r.fittings[code].Clone()
	}
	return out, nil
}
