// Package batch orchestrates one end-to-end column placement run:
// detect rectangles among the input segments, resolve a sized symbol per
// rectangle, and create one column per rectangle center.
//
// # Phased mutation protocol
//
// The host forbids opening a mutation scope while another is open, so all
// side effects happen in three strictly ordered, non-overlapping scopes:
//
//  1. Resolve: populate the symbol cache for every candidate. The only
//     mutation is symbol derivation, isolated in its own internal scope.
//  2. Activate: one scope that activates every resolved, not-yet-active
//     symbol. Individual failures are logged and non-fatal.
//  3. Create: one scope that places every column. If zero columns were
//     created, the whole scope rolls back and the run ends Aborted.
//
// Everything is derived and validated before any irreversible mutation;
// scopes never nest. Preserve this property when changing the runner.
//
// # Usage
//
//	runner := batch.NewRunner(model, logger)
//	result, err := runner.Execute(ctx, batch.Options{Segments: segments})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Report.Summary())
package batch

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"pilaster/pkg/detect"
	"pilaster/pkg/errors"
	"pilaster/pkg/geometry"
	"pilaster/pkg/symbol"
)

// DefaultFailurePreview is how many failure reasons the summary lists
// before collapsing the rest into an "and N more" suffix.
const DefaultFailurePreview = 5

// minSegments is the smallest selection that can contain a rectangle.
const minSegments = 4

// State identifies where a run is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateCollectingInput
	StateDetecting
	StateResolving
	StateActivating
	StateCreating
	StateReporting
	StateDone

	// StateUserCancelled is reached when the confirm prompt is declined.
	// No mutation scope has opened at that point; the model is untouched.
	StateUserCancelled

	// StateAborted is reached from Creating only when zero columns were
	// created; the create scope is rolled back in full.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollectingInput:
		return "collecting-input"
	case StateDetecting:
		return "detecting"
	case StateResolving:
		return "resolving"
	case StateActivating:
		return "activating"
	case StateCreating:
		return "creating"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	case StateUserCancelled:
		return "user-cancelled"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Options configures one batch run.
type Options struct {
	// Segments is the user's selection, in selection order. Detection is
	// greedy and order-dependent: earlier segments seed loops first.
	Segments []geometry.Segment

	// Tolerance is the endpoint-coincidence tolerance. Defaults to
	// detect.DefaultTolerance.
	Tolerance float64

	// MinSize and MaxSize bound accepted rectangle edge lengths.
	MinSize float64
	MaxSize float64

	// SymbolTolerance is the exact-match tolerance for symbol dimensions.
	SymbolTolerance float64

	// BaseFamily names the family used to derive sized symbol variants.
	BaseFamily string

	// WidthParams and HeightParams override the dimension probe tables.
	WidthParams  []string
	HeightParams []string

	// Elevation is the vertical coordinate of the placement reference,
	// used to pick the nearest level.
	Elevation float64

	// FailurePreview caps the failure list in the summary.
	FailurePreview int

	// Confirm, when set, is called with the detected rectangle count
	// before any mutation scope opens. Returning false cancels the run
	// with zero side effects.
	Confirm func(rectangles int) bool

	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Segments) < minSegments {
		return errors.New(errors.ErrCodeInvalidInput,
			"need at least %d segments, got %d", minSegments, len(o.Segments))
	}
	if o.Tolerance <= 0 {
		o.Tolerance = detect.DefaultTolerance
	}
	if o.MinSize <= 0 {
		o.MinSize = detect.DefaultMinSize
	}
	if o.MaxSize <= 0 {
		o.MaxSize = detect.DefaultMaxSize
	}
	if o.SymbolTolerance <= 0 {
		o.SymbolTolerance = symbol.DefaultTolerance
	}
	if o.FailurePreview <= 0 {
		o.FailurePreview = DefaultFailurePreview
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func (o *Options) detectOptions() detect.Options {
	return detect.Options{
		Tolerance: o.Tolerance,
		MinSize:   o.MinSize,
		MaxSize:   o.MaxSize,
		Logger:    o.Logger,
	}
}

func (o *Options) resolverConfig() symbol.Config {
	return symbol.Config{
		Probes:     symbol.ProbeTable{Width: o.WidthParams, Height: o.HeightParams},
		Tolerance:  o.SymbolTolerance,
		BaseFamily: o.BaseFamily,
		Logger:     o.Logger,
	}
}

// Result contains the outputs of one run.
type Result struct {
	// State is the terminal lifecycle state.
	State State

	// Report is the consolidated per-candidate outcome.
	Report Report

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run execution statistics.
type Stats struct {
	Segments   int
	Candidates int

	DetectTime   time.Duration
	ResolveTime  time.Duration
	ActivateTime time.Duration
	CreateTime   time.Duration
}
