// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about transpiler runs and cache operations.
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
//	    observability.SetTranspilerHooks(&myTranspilerHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Transpiler().OnPassStart(ctx, runID, passName)
//	// ... run the pass ...
//	observability.Transpiler().OnPassComplete(ctx, runID, passName, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// TranspilerHooks receives events from transpiler runs.
type TranspilerHooks interface {
	// Run events: one run is one PassManager execution over a circuit.
	OnRunStart(ctx context.Context, runID, circuit string, opCount int)
	OnRunComplete(ctx context.Context, runID, circuit string, opCount int, duration time.Duration, err error)

	// Pass events.
	OnPassStart(ctx context.Context, runID, pass string)
	OnPassComplete(ctx context.Context, runID, pass string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopTranspilerHooks is a no-op implementation of TranspilerHooks.
type NoopTranspilerHooks struct{}

func (NoopTranspilerHooks) OnRunStart(context.Context, string, string, int) {}
func (NoopTranspilerHooks) OnRunComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopTranspilerHooks) OnPassStart(context.Context, string, string)                          {}
func (NoopTranspilerHooks) OnPassComplete(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	transpilerHooks TranspilerHooks = NoopTranspilerHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetTranspilerHooks registers custom transpiler hooks.
// This should be called once at application startup before any runs.
func SetTranspilerHooks(h TranspilerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transpilerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Transpiler returns the registered transpiler hooks.
func Transpiler() TranspilerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transpilerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	transpilerHooks = NoopTranspilerHooks{}
	cacheHooks = NoopCacheHooks{}
}
