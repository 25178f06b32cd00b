package types

import (
	"fmt"
	"strings"
)

// Brand selects the vendor whose fittings qualify the handleliste items.
type Brand string

// Supported brands.
const (
	BrandParker   Brand = "parker"
	BrandSwagelok Brand = "swagelok"
	BrandHylok    Brand = "hylok"
)

// DefaultBrand is used when a request does not name a brand.
const DefaultBrand = BrandParker

// brandNames maps each brand to the display name prefixed to fitting items.
var brandNames = map[Brand]string{
	BrandParker:   "Parker",
	BrandSwagelok: "Swagelok",
	BrandHylok:    "Hy-Lok",
}

// Brands lists the supported brands.
var Brands = []Brand{BrandParker, BrandSwagelok, BrandHylok}

// ParseBrand normalizes s to a Brand. An empty string yields DefaultBrand.
// Returns an error wrapping ErrUnknownBrand for anything else.
func ParseBrand(s string) (Brand, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultBrand, nil
	}
	b := Brand(s)
	if _, ok := brandNames[b]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownBrand, s)
	}
	return b, nil
}

// DisplayName returns the vendor name used in item labels.
func (b Brand) DisplayName() string {
	if name, ok := brandNames[b]; ok {
		return name
	}
	return brandNames[DefaultBrand]
}

// Qualify prefixes a base fitting name with the brand display name,
// e.g. "Coupling" becomes "Parker Coupling".
func (b Brand) Qualify(base string) string {
	return b.DisplayName() + " " + base
}
