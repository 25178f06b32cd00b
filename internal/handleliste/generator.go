package handleliste

import (
	"fmt"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

// Generator produces handlelister from piping systems. A Generator holds no
// per-call state and is safe for concurrent use.
type Generator struct {
	catalog *Catalog
	strict  bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithStrictTransitions enables the transition whitelist. Lines joining a
// pair the whitelist does not allow fail with ErrInvalidTransition instead
// of being skipped.
func WithStrictTransitions(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// New returns a Generator using the default catalog in permissive mode
// unless options say otherwise.
func New(opts ...Option) *Generator {
	g := &Generator{catalog: DefaultCatalog()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Strict reports whether the transition whitelist is enforced.
func (g *Generator) Strict() bool {
	return g.strict
}

// Generate builds the handleliste for system using brand to qualify fitting
// names. An empty brand selects types.DefaultBrand. The output is fully
// determined by the inputs.
func (g *Generator) Generate(system types.PipingSystem, brand types.Brand) (*types.HandlelisteResponse, error) {
	brand, err := types.ParseBrand(string(brand))
	if err != nil {
		return nil, err
	}
	if err := g.validate(system); err != nil {
		return nil, err
	}

	items := make([]string, 0, len(system.Components)+2*len(system.Lines))
	seen := make(map[int]bool, len(system.Components))
	sizes := make(map[int]string, len(system.Components))

	emitLabel := func(idx int) {
		if seen[idx] {
			return
		}
		label, _ := g.catalog.Label(system.Components[idx])
		items = append(items, label)
		seen[idx] = true
	}

	for _, line := range system.Lines {
		from := system.Components[line.Start]
		to := system.Components[line.End]

		if line.Size != "" && (sizeChanged(sizes, line.Start, line.Size) || sizeChanged(sizes, line.End, line.Size)) {
			items = append(items, brand.Qualify(fittingAdapter))
		}

		emitLabel(line.Start)

		if g.strict && !g.catalog.Allowed(from, to) {
			return nil, fmt.Errorf("%w from %s to %s", types.ErrInvalidTransition, from, to)
		}

		if base, ok := g.catalog.Fitting(from, to); ok {
			items = append(items, brand.Qualify(base))
		}
		if line.Bulkhead {
			items = append(items, brand.Qualify(fittingBulkhead))
		}
		if line.Tee {
			items = append(items, brand.Qualify(fittingTee))
		}

		if line.Size != "" {
			sizes[line.Start] = line.Size
			sizes[line.End] = line.Size
		}

		emitLabel(line.End)
	}

	for idx := range system.Components {
		emitLabel(idx)
	}

	return &types.HandlelisteResponse{Items: items}, nil
}

// validate checks catalog membership, line indices and, in strict mode for
// a system without lines, the consecutive component transitions.
func (g *Generator) validate(system types.PipingSystem) error {
	for _, c := range system.Components {
		if _, ok := g.catalog.Label(c); !ok {
			return fmt.Errorf("%w: %s", types.ErrUnknownComponent, c)
		}
	}

	n := len(system.Components)
	for i, line := range system.Lines {
		if line.Start < 0 || line.Start >= n {
			return fmt.Errorf("%w: line %d start %d", types.ErrInvalidLineIndex, i, line.Start)
		}
		if line.End < 0 || line.End >= n {
			return fmt.Errorf("%w: line %d end %d", types.ErrInvalidLineIndex, i, line.End)
		}
	}

	if g.strict && len(system.Lines) == 0 {
		for i := 1; i < n; i++ {
			from, to := system.Components[i-1], system.Components[i]
			if !g.catalog.Allowed(from, to) {
				return fmt.Errorf("%w from %s to %s", types.ErrInvalidTransition, from, to)
			}
		}
	}
	return nil
}

// sizeChanged reports whether idx was last connected at a size other than size.
func sizeChanged(sizes map[int]string, idx int, size string) bool {
	prev, ok := sizes[idx]
	return ok && prev != size
}
