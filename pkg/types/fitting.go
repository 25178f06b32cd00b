package types

import (
	"fmt"
	"strings"
)

// Fitting is a catalog record for a physical connector or adapter part,
// identified by its vendor code.
type Fitting struct {
	Code             string  `json:"code" yaml:"code" validate:"required,max=64"`
	Description      string  `json:"description" yaml:"description" validate:"required"`
	Series           string  `json:"series" yaml:"series" validate:"required"`
	Configuration    string  `json:"configuration" yaml:"configuration" validate:"required"`
	CrackingPressure *string `json:"cracking_pressure" yaml:"cracking_pressure,omitempty"`
	Material         *string `json:"material" yaml:"material,omitempty"`
}

// DefaultFittingCode is the code of the fitting every registry is seeded with.
const DefaultFittingCode = "4A-C4L-25-SS"

// DefaultFitting returns a fresh copy of the seed fitting.
func DefaultFitting() *Fitting {
	return &Fitting{
		Code:             DefaultFittingCode,
		Description:      "Check valve",
		Series:           "4A",
		Configuration:    "C4L",
		CrackingPressure: StringPtr("25 psi"),
		Material:         StringPtr("stainless steel"),
	}
}

// Validate reports whether the required fields are present.
// Returns ErrInvalidCode for an empty code and ErrInvalidData otherwise.
func (f *Fitting) Validate() error {
	if f == nil {
		return ErrInvalidData
	}
	if strings.TrimSpace(f.Code) == "" {
		return ErrInvalidCode
	}
	required := []struct{ name, value string }{
		{"description", f.Description},
		{"series", f.Series},
		{"configuration", f.Configuration},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidData, r.name)
		}
	}
	return nil
}

// Clone returns a deep copy so stored records are never aliased by callers.
func (f *Fitting) Clone() *Fitting {
	if f == nil {
		return nil
	}
	cp := *f
	if f.CrackingPressure != nil {
		cp.CrackingPressure = StringPtr(*f.CrackingPressure)
	}
	if f.Material != nil {
		cp.Material = StringPtr(*f.Material)
	}
	return &cp
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
