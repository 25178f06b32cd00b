package types

import (
	"errors"
	"fmt"
)

// Component is the kind tag of one element in a piping system.
type Component string

// Components recognized by the catalog.
const (
	ComponentPipe     Component = "pipe"
	ComponentValve    Component = "valve"
	ComponentPump     Component = "pump"
	ComponentFlange   Component = "flange"
	ComponentFilter   Component = "filter"
	ComponentAnalyzer Component = "analyzer"
)

// Components lists every recognized component in catalog order.
var Components = []Component{
	ComponentPipe,
	ComponentValve,
	ComponentPump,
	ComponentFlange,
	ComponentFilter,
	ComponentAnalyzer,
}

// Valid reports whether c is one of the recognized components.
func (c Component) Valid() bool {
	for _, known := range Components {
		if c == known {
			return true
		}
	}
	return false
}

// ParseComponent converts a tag to a Component.
// Returns an error wrapping ErrUnknownComponent that names the tag.
func ParseComponent(s string) (Component, error) {
	c := Component(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownComponent, s)
	}
	return c, nil
}

// Line connects two components by their position in PipingSystem.Components.
// Size is a free-form label such as "1/4"; an empty Size is unspecified.
type Line struct {
	Start    int    `json:"start" yaml:"start" toml:"start"`
	End      int    `json:"end" yaml:"end" toml:"end"`
	Size     string `json:"size" yaml:"size" toml:"size"`
	Tee      bool   `json:"tee" yaml:"tee" toml:"tee"`
	Bulkhead bool   `json:"bulkhead" yaml:"bulkhead" toml:"bulkhead"`
}

// PipingSystem is an ordered list of components and the lines between them.
type PipingSystem struct {
	Components []Component `json:"components" yaml:"components" toml:"components"`
	Lines      []Line      `json:"lines" yaml:"lines" toml:"lines"`
}

// HandlelisteResponse is the ordered parts list for a piping system.
type HandlelisteResponse struct {
	Items []string `json:"items"`
}

// Generator errors.
var (
	ErrUnknownComponent  = errors.New("unknown component")
	ErrInvalidLineIndex  = errors.New("line references invalid component index")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownBrand      = errors.New("unknown brand")
)
