// Package symbol maps (width, height) placement requests onto sized
// symbols in the host's template catalog.
//
// Resolution runs in a fixed order: exact match against loaded symbols,
// then derivation of a new sized variant from a base family, then a
// similarity fallback that returns the closest loaded symbol with a
// degraded-match warning. Results are cached per run under a rounded
// dimension key, so each distinct size triggers at most one resolution
// attempt regardless of how many rectangles request it.
package symbol

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"pilaster/pkg/geometry"
	"pilaster/pkg/host"
	"pilaster/pkg/observability"
)

// DefaultTolerance is the dimension-match tolerance in model units.
const DefaultTolerance = 0.01

// MatchKind describes how a resolution was satisfied.
type MatchKind int

const (
	// MatchNone means no symbol could be resolved for the request.
	MatchNone MatchKind = iota
	// MatchExact means a loaded symbol matched the dimensions within tolerance.
	MatchExact
	// MatchDerived means a new sized variant was created from a base family.
	MatchDerived
	// MatchFallback means the closest loaded symbol was returned instead of
	// an exact size. Degraded: placements will not have the requested dimensions.
	MatchFallback
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchDerived:
		return "derived"
	case MatchFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Resolution is the outcome of one dimension request. Symbol is nil when
// Match is MatchNone.
type Resolution struct {
	Symbol host.Symbol
	Match  MatchKind
}

// Config configures a Resolver.
type Config struct {
	// Probes overrides the dimension parameter probe table.
	Probes ProbeTable

	// Tolerance is the exact-match tolerance. Defaults to DefaultTolerance.
	Tolerance float64

	// BaseFamily names the family used to derive new sized variants.
	// When empty, the family of the first loaded symbol is used.
	BaseFamily string

	Logger *log.Logger
}

// Resolver resolves dimension requests against a host model with a per-run
// cache. It is not safe for concurrent use; batch runs are single-threaded.
type Resolver struct {
	model  host.Model
	probes ProbeTable
	tol    float64
	family string
	logger *log.Logger
	cache  map[string]Resolution
}

// New creates a Resolver for one batch run. The cache lives as long as the
// Resolver; create a fresh Resolver per run.
func New(model host.Model, cfg Config) *Resolver {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if len(cfg.Probes.Width) == 0 {
		cfg.Probes.Width = DefaultWidthParams
	}
	if len(cfg.Probes.Height) == 0 {
		cfg.Probes.Height = DefaultHeightParams
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{
		model:  model,
		probes: cfg.Probes,
		tol:    cfg.Tolerance,
		family: cfg.BaseFamily,
		logger: cfg.Logger,
		cache:  make(map[string]Resolution),
	}
}

// Resolve maps a (width, height) request to a symbol. Idempotent within a
// run: the second request for the same rounded dimension key returns the
// cached result without re-running the resolution chain.
func (r *Resolver) Resolve(ctx context.Context, width, height float64) (Resolution, error) {
	key := geometry.DimKey(width, height)
	if res, ok := r.cache[key]; ok {
		observability.Symbol().OnCacheHit(ctx, key)
		return res, nil
	}
	observability.Symbol().OnCacheMiss(ctx, key)

	res, err := r.resolve(ctx, width, height, key)
	if err != nil {
		return Resolution{}, err
	}
	r.cache[key] = res
	observability.Symbol().OnResolve(ctx, key, res.Match.String())
	return res, nil
}

// Cached returns the cached resolution for a dimension key, if present.
func (r *Resolver) Cached(width, height float64) (Resolution, bool) {
	res, ok := r.cache[geometry.DimKey(width, height)]
	return res, ok
}

// Attempts returns how many distinct dimension keys have been resolved.
func (r *Resolver) Attempts() int {
	return len(r.cache)
}

func (r *Resolver) resolve(ctx context.Context, width, height float64, key string) (Resolution, error) {
	symbols, err := r.model.Symbols(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("list symbols: %w", err)
	}
	if len(symbols) == 0 {
		r.logger.Warn("template catalog is empty", "request", key)
		return Resolution{Match: MatchNone}, nil
	}

	// 1. Exact match among loaded symbols.
	for _, sym := range symbols {
		w, okW := r.probes.WidthOf(sym)
		h, okH := r.probes.HeightOf(sym)
		if okW && okH && math.Abs(w-width) <= r.tol && math.Abs(h-height) <= r.tol {
			r.logger.Debug("exact symbol match", "request", key, "symbol", sym.Name())
			return Resolution{Symbol: sym, Match: MatchExact}, nil
		}
	}

	// 2. Derive a sized variant from the base family.
	if sym, ok := r.derive(ctx, symbols, width, height, key); ok {
		return Resolution{Symbol: sym, Match: MatchDerived}, nil
	}

	// 3. Similarity fallback: closest loaded symbol by area and aspect.
	if sym := r.closest(symbols, width, height); sym != nil {
		r.logger.Warn("no exact symbol, using closest match",
			"request", key,
			"symbol", sym.Name())
		return Resolution{Symbol: sym, Match: MatchFallback}, nil
	}

	return Resolution{Match: MatchNone}, nil
}

// derive creates a new sized variant inside its own isolated mutation
// scope. Returns false when no base symbol exists, the base exposes no
// recognizable dimension parameters, or the host refuses the derivation.
func (r *Resolver) derive(ctx context.Context, symbols []host.Symbol, width, height float64, key string) (host.Symbol, bool) {
	base := r.baseSymbol(symbols)
	if base == nil {
		return nil, false
	}
	wName, okW := r.probes.WidthName(base)
	hName, okH := r.probes.HeightName(base)
	if !okW || !okH {
		r.logger.Debug("base symbol has no recognizable dimension parameters",
			"family", base.Family())
		return nil, false
	}

	name := fmt.Sprintf("%s %s", base.Family(), key)
	params := map[string]float64{wName: width, hName: height}

	var derived host.Symbol
	err := r.model.Transact(ctx, "derive symbol", func(sc host.Scope) error {
		var err error
		derived, err = sc.Derive(base, name, params)
		return err
	})
	if err != nil {
		r.logger.Info("symbol derivation failed", "request", key, "err", err)
		return nil, false
	}
	r.logger.Debug("derived sized symbol", "request", key, "symbol", name)
	return derived, true
}

func (r *Resolver) baseSymbol(symbols []host.Symbol) host.Symbol {
	if r.family == "" {
		return symbols[0]
	}
	for _, sym := range symbols {
		if sym.Family() == r.family {
			return sym
		}
	}
	return nil
}

// closest scores every loaded symbol by normalized area and aspect-ratio
// distance and returns the lowest-scoring one. Symbols without probeable
// dimensions are skipped.
func (r *Resolver) closest(symbols []host.Symbol, width, height float64) host.Symbol {
	targetArea := width * height
	targetRatio := width / height

	var best host.Symbol
	bestScore := math.Inf(1)
	for _, sym := range symbols {
		w, okW := r.probes.WidthOf(sym)
		h, okH := r.probes.HeightOf(sym)
		if !okW || !okH || w <= 0 || h <= 0 {
			continue
		}
		ratio := w / h
		score := math.Abs(targetArea-w*h)/targetArea +
			math.Abs(targetRatio-ratio)/math.Max(targetRatio, ratio)
		if score < bestScore {
			bestScore = score
			best = sym
		}
	}
	return best
}
