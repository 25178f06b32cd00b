package handleliste

import "github.com/mesh-intelligence/jobb/pkg/types"

// pair is an ordered (start, end) component kind pair.
type pair struct {
	from, to types.Component
}

// Base fitting and annotation names, qualified by brand at emit time.
const (
	fittingAdapter   = "Adapter"
	fittingCoupling  = "Coupling"
	fittingConnector = "Connector"
	fittingGasket    = "Gasket"
	fittingBulkhead  = "Bulkhead"
	fittingTee       = "Tee"
)

// Catalog holds the component labels, the fitting lookup keyed by ordered
// component pair, and the transition whitelist used in strict mode.
type Catalog struct {
	labels      map[types.Component]string
	fittings    map[pair]string
	transitions map[types.Component]map[types.Component]bool
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		labels: map[types.Component]string{
			types.ComponentPipe:     "Pipe Item",
			types.ComponentValve:    "Valve Item",
			types.ComponentPump:     "Pump Item",
			types.ComponentFlange:   "Flange Item",
			types.ComponentFilter:   "Filter Item",
			types.ComponentAnalyzer: "Analyzer Item",
		},
		fittings: map[pair]string{
			{types.ComponentPipe, types.ComponentValve}:      fittingCoupling,
			{types.ComponentValve, types.ComponentPump}:      fittingAdapter,
			{types.ComponentPump, types.ComponentFlange}:     fittingConnector,
			{types.ComponentFlange, types.ComponentPipe}:     fittingGasket,
			{types.ComponentPipe, types.ComponentFilter}:     fittingCoupling,
			{types.ComponentFilter, types.ComponentAnalyzer}: fittingConnector,
			{types.ComponentAnalyzer, types.ComponentFlange}: fittingAdapter,
		},
		transitions: map[types.Component]map[types.Component]bool{
			types.ComponentPipe:     set(types.ComponentValve, types.ComponentFlange, types.ComponentFilter),
			types.ComponentValve:    set(types.ComponentPump, types.ComponentFilter),
			types.ComponentPump:     set(types.ComponentFlange),
			types.ComponentFlange:   set(types.ComponentPipe),
			types.ComponentFilter:   set(types.ComponentAnalyzer),
			types.ComponentAnalyzer: set(types.ComponentFlange),
		},
	}
}

func set(cs ...types.Component) map[types.Component]bool {
	m := make(map[types.Component]bool, len(cs))
	for _, c := range cs {
		m[c] = true
	}
	return m
}

// Label returns the catalog label for c.
func (c *Catalog) Label(comp types.Component) (string, bool) {
	label, ok := c.labels[comp]
	return label, ok
}

// Fitting returns the base fitting name joining from to to, if one exists.
func (c *Catalog) Fitting(from, to types.Component) (string, bool) {
	name, ok := c.fittings[pair{from, to}]
	return name, ok
}

// Allowed reports whether the whitelist permits a line from from to to.
func (c *Catalog) Allowed(from, to types.Component) bool {
	return c.transitions[from][to]
}
