package batch

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"pilaster/pkg/detect"
	"pilaster/pkg/errors"
	"pilaster/pkg/geometry"
	"pilaster/pkg/host"
	"pilaster/pkg/observability"
	"pilaster/pkg/symbol"
)

// Runner executes batch placement runs against a host model.
//
// A Runner holds no per-run state; the symbol cache and candidate set are
// created at run start and discarded at run end. Runs are synchronous and
// single-threaded, matching the host's single-writer document model.
type Runner struct {
	Model  host.Model
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger defaults to log.Default().
func NewRunner(model host.Model, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Model: model, Logger: logger}
}

// item is one placement request: a rectangle's dimensions and center.
type item struct {
	width  float64
	height float64
	center geometry.Point2D
}

// Execute runs the full detect → resolve → activate → create pipeline.
//
// Per-candidate failures are recorded in the report and never abort the
// run. Execute returns an error only for run-level failures: invalid
// input, user cancellation, zero rectangles detected, or zero columns
// created (in which case the create scope has been rolled back in full).
// The returned Result is non-nil whenever detection ran, so callers can
// still render the report after an error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{State: StateCollectingInput}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return result, err
	}
	result.Stats.Segments = len(opts.Segments)

	// Detection reads the model but mutates nothing.
	result.State = StateDetecting
	detectStart := time.Now()
	observability.Batch().OnDetectStart(ctx, len(opts.Segments))
	candidates, unused := detect.Detect(opts.Segments, opts.detectOptions())
	result.Stats.DetectTime = time.Since(detectStart)
	result.Stats.Candidates = len(candidates)
	observability.Batch().OnDetectComplete(ctx, len(candidates), len(unused), result.Stats.DetectTime)

	result.Report.Detected = len(candidates)
	result.Report.Consumed = len(opts.Segments) - len(unused)
	result.Report.Unused = len(unused)
	result.Report.FailurePreview = opts.FailurePreview

	opts.Logger.Info("detection finished",
		"segments", len(opts.Segments),
		"rectangles", len(candidates),
		"unused", len(unused),
		"duration", result.Stats.DetectTime)

	if len(candidates) == 0 {
		result.State = StateDone
		return result, errors.New(errors.ErrCodeNoRectangles,
			"no closed rectangles found among %d segments", len(opts.Segments))
	}

	// Blocking confirmation, still before any mutation scope.
	if opts.Confirm != nil && !opts.Confirm(len(candidates)) {
		result.State = StateUserCancelled
		return result, errors.New(errors.ErrCodeUserCancelled, "cancelled at confirmation prompt")
	}

	items := make([]item, len(candidates))
	for i, c := range candidates {
		items[i] = item{
			width:  c.Analysis.Width,
			height: c.Analysis.Height,
			center: c.Analysis.Center,
		}
	}
	return r.run(ctx, items, opts, result)
}

// PlaceSingle places one column of the given dimensions at center,
// running the same resolve → activate → create phases as a batch of one.
func (r *Runner) PlaceSingle(ctx context.Context, center geometry.Point2D, width, height float64, opts Options) (*Result, error) {
	// Single placement needs no segments, so the batch input check and
	// detection options do not apply.
	base := Options{
		SymbolTolerance: opts.SymbolTolerance,
		BaseFamily:      opts.BaseFamily,
		WidthParams:     opts.WidthParams,
		HeightParams:    opts.HeightParams,
		Elevation:       opts.Elevation,
		FailurePreview:  opts.FailurePreview,
		Logger:          opts.Logger,
	}
	r.applyLogger(&base)
	if base.SymbolTolerance <= 0 {
		base.SymbolTolerance = symbol.DefaultTolerance
	}
	if base.FailurePreview <= 0 {
		base.FailurePreview = DefaultFailurePreview
	}

	if width <= 0 || height <= 0 {
		return &Result{State: StateCollectingInput}, errors.New(errors.ErrCodeInvalidInput,
			"column size must be positive, got %.3f x %.3f", width, height)
	}

	result := &Result{State: StateDetecting}
	result.Report.Detected = 1
	result.Report.FailurePreview = base.FailurePreview
	result.Stats.Candidates = 1

	return r.run(ctx, []item{{width: width, height: height, center: center}}, base, result)
}

// run executes the three mutation phases over the given items.
func (r *Runner) run(ctx context.Context, items []item, opts Options, result *Result) (*Result, error) {
	resolver := symbol.New(r.Model, opts.resolverConfig())

	// Phase 1 - Resolve: populate the symbol cache. The only mutation is
	// derivation, isolated inside the resolver's own scope.
	result.State = StateResolving
	resolveStart := time.Now()
	observability.Batch().OnPhaseStart(ctx, "resolve", len(items))
	err := r.resolveAll(ctx, resolver, items, opts)
	result.Stats.ResolveTime = time.Since(resolveStart)
	observability.Batch().OnPhaseComplete(ctx, "resolve", result.Stats.ResolveTime, err)
	if err != nil {
		result.State = StateDone
		return result, err
	}
	opts.Logger.Info("symbols resolved",
		"requests", len(items),
		"attempts", resolver.Attempts(),
		"duration", result.Stats.ResolveTime)

	// Phase 2 - Activate: one scope for every resolved, inactive symbol.
	result.State = StateActivating
	activateStart := time.Now()
	pending := pendingActivations(resolver, items)
	observability.Batch().OnPhaseStart(ctx, "activate", len(pending))
	err = r.activateAll(ctx, pending, opts)
	result.Stats.ActivateTime = time.Since(activateStart)
	observability.Batch().OnPhaseComplete(ctx, "activate", result.Stats.ActivateTime, err)
	if err != nil {
		result.State = StateDone
		return result, err
	}

	// Phase 3 - Create: one scope for all placements; rolled back in full
	// when nothing was created.
	result.State = StateCreating
	createStart := time.Now()
	observability.Batch().OnPhaseStart(ctx, "create", len(items))
	err = r.createAll(ctx, resolver, items, opts, result)
	result.Stats.CreateTime = time.Since(createStart)
	observability.Batch().OnPhaseComplete(ctx, "create", result.Stats.CreateTime, err)
	if err != nil {
		return result, err
	}

	result.State = StateReporting
	opts.Logger.Info("columns created",
		"created", result.Report.Created,
		"failed", result.Report.Failed,
		"duration", result.Stats.CreateTime)
	result.State = StateDone
	return result, nil
}

// resolveAll populates the symbol cache for every item. When the catalog
// is empty it bulk-loads the host's standard symbol set once and retries.
func (r *Runner) resolveAll(ctx context.Context, resolver *symbol.Resolver, items []item, opts Options) error {
	symbols, err := r.Model.Symbols(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "list symbols")
	}
	if len(symbols) == 0 {
		opts.Logger.Warn("template catalog empty, loading standard symbol set")
		if err := r.Model.LoadDefaults(ctx); err != nil {
			opts.Logger.Error("standard symbol set failed to load", "err", err)
		}
	}

	for _, it := range items {
		if _, err := resolver.Resolve(ctx, it.width, it.height); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err,
				"resolve %.3f x %.3f", it.width, it.height)
		}
	}
	return nil
}

// pendingActivations returns the distinct resolved symbols that are not
// yet active, in first-use order.
func pendingActivations(resolver *symbol.Resolver, items []item) []host.Symbol {
	var pending []host.Symbol
	seen := make(map[string]bool)
	for _, it := range items {
		res, ok := resolver.Cached(it.width, it.height)
		if !ok || res.Symbol == nil || res.Symbol.IsActive() || seen[res.Symbol.Name()] {
			continue
		}
		seen[res.Symbol.Name()] = true
		pending = append(pending, res.Symbol)
	}
	return pending
}

// activateAll activates the pending symbols inside one scope. Individual
// activation failures are logged and non-fatal: a symbol that stays
// inactive is retried at use time in the create phase.
func (r *Runner) activateAll(ctx context.Context, pending []host.Symbol, opts Options) error {
	if len(pending) == 0 {
		return nil
	}
	err := r.Model.Transact(ctx, "activate symbols", func(sc host.Scope) error {
		for _, sym := range pending {
			if err := sc.Activate(sym); err != nil {
				opts.Logger.Warn("symbol activation failed, will retry at creation",
					"symbol", sym.Name(), "err", err)
				continue
			}
			opts.Logger.Debug("symbol activated", "symbol", sym.Name())
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "activation scope")
	}
	return nil
}

// createAll places every item inside one scope, recording per-item
// outcomes. The scope rolls back when zero columns were created.
func (r *Runner) createAll(ctx context.Context, resolver *symbol.Resolver, items []item, opts Options, result *Result) error {
	levels, err := r.Model.Levels(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "list levels")
	}

	err = r.Model.Transact(ctx, "create columns", func(sc host.Scope) error {
		for _, it := range items {
			r.createOne(ctx, sc, resolver, it, levels, opts, &result.Report)
		}
		if result.Report.Created == 0 {
			return host.ErrRollback
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creation scope")
	}

	if result.Report.Created == 0 {
		result.State = StateAborted
		return errors.New(errors.ErrCodeCreationFailed,
			"no columns created from %d rectangles, all changes rolled back", len(items))
	}
	return nil
}

// createOne handles a single placement inside the create scope. All
// failures are recorded on the report; none propagate.
func (r *Runner) createOne(ctx context.Context, sc host.Scope, resolver *symbol.Resolver, it item, levels []host.Level, opts Options, report *Report) {
	fail := func(code errors.Code, reason string) {
		opts.Logger.Warn("placement failed",
			"width", it.width, "height", it.height, "center", it.center,
			"reason", reason)
		report.addFailure(Failure{
			Code: code, Reason: reason,
			Width: it.width, Height: it.height, Center: it.center,
		})
		observability.Batch().OnPlacement(ctx, it.width, it.height, false, reason)
	}

	res, ok := resolver.Cached(it.width, it.height)
	if !ok || res.Symbol == nil {
		fail(errors.ErrCodeTemplateResolution,
			"no symbol for "+geometry.DimKey(it.width, it.height))
		return
	}

	if !res.Symbol.IsActive() {
		// Second chance for symbols that failed activation in phase 2.
		if err := sc.Activate(res.Symbol); err != nil {
			fail(errors.ErrCodeActivationFailed,
				"symbol "+res.Symbol.Name()+" could not be activated: "+err.Error())
			return
		}
	}

	lvl, err := SelectLevel(opts.Elevation, levels)
	if err != nil {
		fail(errors.ErrCodeLevelResolution, err.Error())
		return
	}

	ref, err := sc.CreateColumn(it.center, res.Symbol, lvl)
	if err != nil {
		fail(errors.ErrCodeCreationFailed, err.Error())
		return
	}

	opts.Logger.Debug("column created",
		"ref", ref, "symbol", res.Symbol.Name(),
		"center", it.center, "level", lvl.Name)
	report.addPlacement(Placement{
		Ref: ref, Symbol: res.Symbol.Name(),
		Width: it.width, Height: it.height,
		Center: it.center, Level: lvl,
	})
	observability.Batch().OnPlacement(ctx, it.width, it.height, true, "")
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
