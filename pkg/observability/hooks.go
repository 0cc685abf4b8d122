// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about ETL phase execution, cache operations, and API calls.
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
//	    observability.SetETLHooks(&myETLHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.ETL().OnDiscoverStart(ctx, planet)
//	// ... query ODE ...
//	observability.ETL().OnDiscoverComplete(ctx, planet, descriptorCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// ETL Hooks
// =============================================================================

// ETLHooks receives events from the extract/transform driver.
type ETLHooks interface {
	// Discover events (pkg/ode.Discover)
	OnDiscoverStart(ctx context.Context, planet string)
	OnDiscoverComplete(ctx context.Context, planet string, descriptorCount int, duration time.Duration, err error)

	// ExtractRecords events (the ETL driver, around pkg/ode.ExtractRecords)
	OnExtractStart(ctx context.Context, fingerprint string, pageLimit int)
	OnExtractComplete(ctx context.Context, fingerprint string, pagesWritten int, duration time.Duration, err error)

	// Transform events (pkg/stac)
	OnTransformStart(ctx context.Context, fingerprint string)
	OnTransformComplete(ctx context.Context, fingerprint string, failures int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the bounded HTTP fetcher.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (a transport failure, including a timeout, or an unexpected content-type).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopETLHooks is a no-op implementation of ETLHooks.
type NoopETLHooks struct{}

func (NoopETLHooks) OnDiscoverStart(context.Context, string)                                   {}
func (NoopETLHooks) OnDiscoverComplete(context.Context, string, int, time.Duration, error)      {}
func (NoopETLHooks) OnExtractStart(context.Context, string, int)                                {}
func (NoopETLHooks) OnExtractComplete(context.Context, string, int, time.Duration, error)        {}
func (NoopETLHooks) OnTransformStart(context.Context, string)                                   {}
func (NoopETLHooks) OnTransformComplete(context.Context, string, int, time.Duration, error)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	etlHooks   ETLHooks   = NoopETLHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetETLHooks registers custom ETL hooks.
// This should be called once at application startup before any phase runs.
func SetETLHooks(h ETLHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		etlHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// ETL returns the registered ETL hooks.
func ETL() ETLHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return etlHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	etlHooks = NoopETLHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
