package symbol

import "pilaster/pkg/host"

// Default probe names, in priority order. Families name their dimension
// parameters inconsistently ("b" vs "Width" vs "Depth"), so lookup is a
// capability probe against an ordered table rather than a fixed schema.
var (
	DefaultWidthParams  = []string{"b", "Width", "Depth", "d"}
	DefaultHeightParams = []string{"h", "Height", "t"}
)

// ProbeTable holds the ordered parameter names recognized for each
// dimension role. The first name a symbol yields a value for wins.
type ProbeTable struct {
	Width  []string
	Height []string
}

// DefaultProbes returns the built-in probe table.
func DefaultProbes() ProbeTable {
	return ProbeTable{Width: DefaultWidthParams, Height: DefaultHeightParams}
}

// WidthOf probes the symbol for its width-like parameter.
func (pt ProbeTable) WidthOf(sym host.Symbol) (float64, bool) {
	return probe(sym, pt.Width)
}

// HeightOf probes the symbol for its height-like parameter.
func (pt ProbeTable) HeightOf(sym host.Symbol) (float64, bool) {
	return probe(sym, pt.Height)
}

// WidthName returns the first width-like parameter name the symbol has.
// Used when deriving a sized variant, to write the dimensions back under
// the names the family actually understands.
func (pt ProbeTable) WidthName(sym host.Symbol) (string, bool) {
	return probeName(sym, pt.Width)
}

// HeightName returns the first height-like parameter name the symbol has.
func (pt ProbeTable) HeightName(sym host.Symbol) (string, bool) {
	return probeName(sym, pt.Height)
}

func probe(sym host.Symbol, names []string) (float64, bool) {
	for _, n := range names {
		if v, ok := sym.Param(n); ok {
			return v, true
		}
	}
	return 0, false
}

func probeName(sym host.Symbol, names []string) (string, bool) {
	for _, n := range names {
		if _, ok := sym.Param(n); ok {
			return n, true
		}
	}
	return "", false
}
