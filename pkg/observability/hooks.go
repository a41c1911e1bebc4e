// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about batch execution and symbol resolution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBatchHooks(&myBatchHooks{})
//	    observability.SetSymbolHooks(&mySymbolHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Batch().OnDetectStart(ctx, segmentCount)
//	// ... detect rectangles ...
//	observability.Batch().OnDetectComplete(ctx, candidates, unused, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives events from the batch placement pipeline.
type BatchHooks interface {
	// Detection events
	OnDetectStart(ctx context.Context, segmentCount int)
	OnDetectComplete(ctx context.Context, candidates, unused int, duration time.Duration)

	// Mutation phase events. Phase names are "resolve", "activate", "create".
	OnPhaseStart(ctx context.Context, phase string, itemCount int)
	OnPhaseComplete(ctx context.Context, phase string, duration time.Duration, err error)

	// OnPlacement records one per-candidate outcome. reason is empty on success.
	OnPlacement(ctx context.Context, width, height float64, ok bool, reason string)
}

// =============================================================================
// Symbol Hooks
// =============================================================================

// SymbolHooks receives events from symbol resolution and the per-run cache.
type SymbolHooks interface {
	// OnCacheHit records a symbol cache hit for a dimension key.
	OnCacheHit(ctx context.Context, dimKey string)

	// OnCacheMiss records a symbol cache miss for a dimension key.
	OnCacheMiss(ctx context.Context, dimKey string)

	// OnResolve records a completed resolution attempt.
	// match is "exact", "derived", "fallback", or "none".
	OnResolve(ctx context.Context, dimKey, match string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnDetectStart(context.Context, int)                          {}
func (NoopBatchHooks) OnDetectComplete(context.Context, int, int, time.Duration)   {}
func (NoopBatchHooks) OnPhaseStart(context.Context, string, int)                   {}
func (NoopBatchHooks) OnPhaseComplete(context.Context, string, time.Duration, error) {
}
func (NoopBatchHooks) OnPlacement(context.Context, float64, float64, bool, string) {}

// NoopSymbolHooks is a no-op implementation of SymbolHooks.
type NoopSymbolHooks struct{}

func (NoopSymbolHooks) OnCacheHit(context.Context, string)        {}
func (NoopSymbolHooks) OnCacheMiss(context.Context, string)       {}
func (NoopSymbolHooks) OnResolve(context.Context, string, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	batchHooks  BatchHooks  = NoopBatchHooks{}
	symbolHooks SymbolHooks = NoopSymbolHooks{}
	hooksMu     sync.RWMutex
)

// SetBatchHooks registers custom batch hooks.
// This should be called once at application startup before any batch runs.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// SetSymbolHooks registers custom symbol hooks.
// This should be called once at application startup before any batch runs.
func SetSymbolHooks(h SymbolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		symbolHooks = h
	}
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Symbol returns the registered symbol hooks.
func Symbol() SymbolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return symbolHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	batchHooks = NoopBatchHooks{}
	symbolHooks = NoopSymbolHooks{}
}
