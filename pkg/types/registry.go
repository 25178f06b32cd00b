package types

import (
	"context"
	"errors"
)

// FittingRegistry defines backend-agnostic access to the fittings catalog.
// Callers attach to a backend, read and write fittings by code, and detach
// when done. Fittings are never deleted.
type FittingRegistry interface {
	// Attach connects the registry to the backend described by config and
	// seeds the default fitting when the store is empty. Returns
	// ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrRegistryDetached.
	Detach() error

	// GetFitting returns the fitting with the given code.
	// Returns ErrNotFound if no fitting has that code.
	GetFitting(ctx context.Context, code string) (*Fitting, error)

	// SetFitting adds the fitting, or replaces the fitting with the same code.
	SetFitting(ctx context.Context, f *Fitting) error

	// FetchFittings returns fittings matching the filter ordered by code.
	// An empty filter returns every fitting.
	FetchFittings(ctx context.Context, filter Filter) ([]*Fitting, error)
}

// Filter narrows FetchFittings. Recognized keys are FilterSeries and
// FilterMaterial (string values) and FilterLimit and FilterOffset (int values).
type Filter map[string]any

// Filter keys.
const (
	FilterSeries   = "series"
	FilterMaterial = "material"
	FilterLimit    = "limit"
	FilterOffset   = "offset"
)

// Strings returns the string-valued series and material filters.
// Returns ErrInvalidFilter if either key holds a non-string value.
func (f Filter) Strings() (series, material string, err error) {
	if v, ok := f[FilterSeries]; ok {
		s, ok := v.(string)
		if !ok {
			return "", "", ErrInvalidFilter
		}
		series = s
	}
	if v, ok := f[FilterMaterial]; ok {
		s, ok := v.(string)
		if !ok {
			return "", "", ErrInvalidFilter
		}
		material = s
	}
	return series, material, nil
}

// Window returns the limit and offset filters; zero means unset.
// Returns ErrInvalidFilter for non-int or negative values.
func (f Filter) Window() (limit, offset int, err error) {
	for key, dst := range map[string]*int{FilterLimit: &limit, FilterOffset: &offset} {
		v, ok := f[key]
		if !ok {
			continue
		}
		n, ok := v.(int)
		if !ok || n < 0 {
			return 0, 0, ErrInvalidFilter
		}
		*dst = n
	}
	return limit, offset, nil
}

// Registry lifecycle errors.
var (
	ErrRegistryDetached = errors.New("registry is detached")
	ErrAlreadyAttached  = errors.New("registry is already attached")
)

// Registry operation errors.
var (
	ErrNotFound      = errors.New("fitting not found")
	ErrInvalidCode   = errors.New("invalid fitting code")
	ErrInvalidData   = errors.New("invalid fitting data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)
