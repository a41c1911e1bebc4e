// Package memmodel provides an in-memory implementation of the host model
// boundary.
//
// It backs the CLI (driving the engine from a model snapshot file) and the
// test suite. The model enforces the host's single-writer, non-reentrant
// mutation protocol: at most one scope may be open, and every mutation made
// inside a scope is undone if the scope rolls back.
//
// Failure injection fields (DenyDerive, DenyActivate, DenyCreate) exist so
// tests and demos can exercise the engine's degraded paths without a real
// host.
package memmodel

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"pilaster/pkg/geometry"
	"pilaster/pkg/host"
)

// Symbol is an in-memory sized placement template.
type Symbol struct {
	family string
	name   string
	params map[string]float64
	active bool
}

// Family returns the owning family name.
func (s *Symbol) Family() string { return s.family }

// Name returns the symbol name.
func (s *Symbol) Name() string { return s.name }

// IsActive reports whether the symbol is loaded for placement.
func (s *Symbol) IsActive() bool { return s.active }

// Param returns the named dimension parameter, if present.
func (s *Symbol) Param(name string) (float64, bool) {
	v, ok := s.params[name]
	return v, ok
}

// Params returns a copy of all dimension parameters.
func (s *Symbol) Params() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for k, v := range s.params {
		out[k] = v
	}
	return out
}

// Column is a placed structural element.
type Column struct {
	Ref    host.ElementRef  `json:"ref"`
	Center geometry.Point2D `json:"center"`
	Symbol string           `json:"symbol"`
	Level  host.Level       `json:"level"`
}

// SymbolSpec describes one symbol for seeding or LoadDefaults.
type SymbolSpec struct {
	Family string             `json:"family"`
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params"`
	Active bool               `json:"active"`
}

// Model is an in-memory host model.
//
// It is not safe for concurrent use; the host contract is single-writer and
// the batch runner is strictly sequential.
type Model struct {
	levels  []host.Level
	symbols []*Symbol
	columns []Column

	// Defaults is the symbol set installed by LoadDefaults.
	Defaults []SymbolSpec

	// DenyDerive makes every Derive call fail, simulating a host where
	// sized variants cannot be created (forcing the similarity fallback).
	DenyDerive bool

	// DenyActivate lists symbol names whose activation fails.
	DenyActivate map[string]bool

	// DenyCreate lists symbol names for which CreateColumn fails. The
	// wildcard "*" rejects every creation.
	DenyCreate map[string]bool

	inScope bool
}

// New creates an empty model.
func New() *Model {
	return &Model{}
}

// AddLevel adds a level to the model.
func (m *Model) AddLevel(name string, elevation float64) {
	m.levels = append(m.levels, host.Level{Name: name, Elevation: elevation})
}

// AddSymbol seeds a symbol outside any mutation scope. Intended for model
// setup, not for use during a batch run.
func (m *Model) AddSymbol(spec SymbolSpec) *Symbol {
	s := newSymbol(spec)
	m.symbols = append(m.symbols, s)
	return s
}

// Columns returns the columns created so far.
func (m *Model) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// SymbolSpecs returns the current catalog as specs, for snapshot export.
func (m *Model) SymbolSpecs() []SymbolSpec {
	out := make([]SymbolSpec, 0, len(m.symbols))
	for _, s := range m.symbols {
		out = append(out, SymbolSpec{Family: s.family, Name: s.name, Params: s.Params(), Active: s.active})
	}
	return out
}

// Levels returns the model's levels sorted ascending by elevation.
func (m *Model) Levels(ctx context.Context) ([]host.Level, error) {
	out := make([]host.Level, len(m.levels))
	copy(out, m.levels)
	sort.Slice(out, func(i, j int) bool { return out[i].Elevation < out[j].Elevation })
	return out, nil
}

// Symbols returns a snapshot of the catalog.
func (m *Model) Symbols(ctx context.Context) ([]host.Symbol, error) {
	out := make([]host.Symbol, len(m.symbols))
	for i, s := range m.symbols {
		out[i] = s
	}
	return out, nil
}

// LoadDefaults installs the Defaults symbol set. A model with no Defaults
// configured loads nothing, which is how tests simulate a host with no
// standard library available.
func (m *Model) LoadDefaults(ctx context.Context) error {
	for _, spec := range m.Defaults {
		m.symbols = append(m.symbols, newSymbol(spec))
	}
	return nil
}

// Transact opens a mutation scope, runs fn, and commits unless fn returns
// an error. host.ErrRollback rolls back silently. Nested calls fail with
// host.ErrNestedScope.
func (m *Model) Transact(ctx context.Context, name string, fn func(host.Scope) error) error {
	if m.inScope {
		return fmt.Errorf("%s: %w", name, host.ErrNestedScope)
	}
	m.inScope = true
	sc := &scope{model: m}
	err := fn(sc)
	m.inScope = false

	if err != nil {
		sc.rollback()
		if err == host.ErrRollback {
			return nil
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func newSymbol(spec SymbolSpec) *Symbol {
	params := make(map[string]float64, len(spec.Params))
	for k, v := range spec.Params {
		params[k] = v
	}
	return &Symbol{family: spec.Family, name: spec.Name, params: params, active: spec.Active}
}

// =============================================================================
// Scope
// =============================================================================

// scope applies mutations immediately and keeps an undo log so a rollback
// can restore the model. Mutations must be visible within the scope (a
// symbol activated during the create phase is used right away), which rules
// out a stage-then-apply design.
type scope struct {
	model *Model
	undo  []func()
}

func (sc *scope) rollback() {
	for i := len(sc.undo) - 1; i >= 0; i-- {
		sc.undo[i]()
	}
	sc.undo = nil
}

// Activate marks the symbol active.
func (sc *scope) Activate(sym host.Symbol) error {
	s, ok := sym.(*Symbol)
	if !ok {
		return fmt.Errorf("foreign symbol %q", sym.Name())
	}
	if sc.model.DenyActivate[s.name] {
		return fmt.Errorf("activate %q: host refused", s.name)
	}
	if s.active {
		return nil
	}
	s.active = true
	sc.undo = append(sc.undo, func() { s.active = false })
	return nil
}

// Derive creates a sized variant of base with the given parameters.
func (sc *scope) Derive(base host.Symbol, name string, params map[string]float64) (host.Symbol, error) {
	if sc.model.DenyDerive {
		return nil, fmt.Errorf("derive %q: host refused", name)
	}
	b, ok := base.(*Symbol)
	if !ok {
		return nil, fmt.Errorf("foreign base symbol %q", base.Name())
	}

	merged := b.Params()
	for k, v := range params {
		merged[k] = v
	}
	s := &Symbol{family: b.family, name: name, params: merged, active: false}
	sc.model.symbols = append(sc.model.symbols, s)
	sc.undo = append(sc.undo, func() {
		syms := sc.model.symbols
		sc.model.symbols = syms[:len(syms)-1]
	})
	return s, nil
}

// CreateColumn places a column and returns its element reference.
func (sc *scope) CreateColumn(center geometry.Point2D, sym host.Symbol, lvl host.Level) (host.ElementRef, error) {
	if sc.model.DenyCreate[sym.Name()] || sc.model.DenyCreate["*"] {
		return "", fmt.Errorf("create column %q at %s: host refused", sym.Name(), center)
	}
	if !sym.IsActive() {
		return "", fmt.Errorf("create column %q: symbol not active", sym.Name())
	}
	ref := host.ElementRef(uuid.NewString())
	sc.model.columns = append(sc.model.columns, Column{
		Ref:    ref,
		Center: center,
		Symbol: sym.Name(),
		Level:  lvl,
	})
	sc.undo = append(sc.undo, func() {
		cols := sc.model.columns
		sc.model.columns = cols[:len(cols)-1]
	})
	return ref, nil
}
