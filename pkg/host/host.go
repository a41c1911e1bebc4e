// Package host defines the boundary between the placement engine and the
// CAD host model.
//
// The engine never owns geometry, symbols, or levels - it reads them from a
// Model and mutates them only inside a Scope obtained from Transact. The
// host forbids reentrant mutation scopes, which is why the batch runner
// performs all side effects in three strictly ordered, non-overlapping
// scopes (resolve, activate, create).
//
// Implementations live outside this package: memmodel provides an in-memory
// model for the CLI and tests; a production adapter wraps the real host API.
package host

import (
	"context"
	"errors"

	"pilaster/pkg/geometry"
)

var (
	// ErrRollback can be returned from a Transact callback to roll the
	// scope back without reporting an error to the caller. The batch
	// runner uses it to discard the create scope when zero columns were
	// placed.
	ErrRollback = errors.New("rollback requested")

	// ErrNestedScope is returned by Transact when a mutation scope is
	// already open. The host model does not support reentrant scopes.
	ErrNestedScope = errors.New("mutation scope already open")

	// ErrNoLevels is returned by SelectLevel-style lookups when the model
	// defines no levels.
	ErrNoLevels = errors.New("no levels defined in model")
)

// Symbol is a sized placement template in the host's catalog. Dimension
// parameters are exposed by name; which names carry width and height is a
// capability of the loaded family, probed by the resolver rather than
// assumed.
type Symbol interface {
	// Family returns the name of the owning template family.
	Family() string

	// Name returns the symbol's unique name within the catalog.
	Name() string

	// IsActive reports whether the symbol is loaded for placement.
	// Inactive symbols must be activated inside a mutation scope first.
	IsActive() bool

	// Param returns the named dimension parameter, if the symbol has it.
	Param(name string) (float64, bool)
}

// Level is a horizontal reference elevation used to position created
// elements vertically.
type Level struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"`
}

// ElementRef identifies an element created in the host model.
type ElementRef string

// Catalog is the host's template catalog.
type Catalog interface {
	// Symbols returns every loaded symbol. The slice is a snapshot; it
	// does not observe later catalog mutations.
	Symbols(ctx context.Context) ([]Symbol, error)

	// LoadDefaults bulk-loads the host's standard symbol set. The batch
	// runner calls it at most once per run, when the catalog is empty.
	LoadDefaults(ctx context.Context) error
}

// Scope is one open mutation scope. All methods mutate the host model;
// none may be called after Transact returns.
type Scope interface {
	// Activate makes an inactive symbol placeable.
	Activate(sym Symbol) error

	// Derive creates a new sized variant of base with the given dimension
	// parameters and returns it.
	Derive(base Symbol, name string, params map[string]float64) (Symbol, error)

	// CreateColumn places a column at center on the given level and
	// returns a reference to the created element.
	CreateColumn(center geometry.Point2D, sym Symbol, lvl Level) (ElementRef, error)
}

// Model is the full host boundary the batch runner operates against.
type Model interface {
	Catalog

	// Levels returns the model's levels. Order is not guaranteed.
	Levels(ctx context.Context) ([]Level, error)

	// Transact opens a mutation scope, runs fn, and commits the scope if
	// fn returns nil. A non-nil return rolls every staged mutation back;
	// ErrRollback rolls back without being propagated. Transact returns
	// ErrNestedScope when called while another scope is open.
	Transact(ctx context.Context, name string, fn func(Scope) error) error
}
