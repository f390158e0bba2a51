// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about surface reconciliation, scenario playback, cache
// operations, and preview-server requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Surface hooks carry no context: the composition engines are synchronous
// and run on the caller's scheduling thread.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSurfaceHooks(&mySurfaceHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnPlayStart(ctx, scenario)
//	// ... play ...
//	observability.Pipeline().OnPlayComplete(ctx, scenario, frames, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Surface Hooks
// =============================================================================

// SurfaceHooks receives events from the composition engines.
type SurfaceHooks interface {
	// OnReconcile records one reconciliation pass of a surface ("buttons",
	// "toasts") with the size of each bucket.
	OnReconcile(surface string, created, updated, removed int, staggered bool)

	// OnToggle records a morph state change of one control.
	OnToggle(surface, key string, visualOn bool, phase string)

	// OnStaleCompletion records an animation completion that arrived for an
	// entry no longer tracked.
	OnStaleCompletion(surface, key string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from scenario playback.
type PipelineHooks interface {
	OnPlayStart(ctx context.Context, scenario string)
	OnPlayComplete(ctx context.Context, scenario string, frames int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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

// HTTPHooks receives events from the preview server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSurfaceHooks is a no-op implementation of SurfaceHooks.
type NoopSurfaceHooks struct{}

func (NoopSurfaceHooks) OnReconcile(string, int, int, int, bool) {}
func (NoopSurfaceHooks) OnToggle(string, string, bool, string)   {}
func (NoopSurfaceHooks) OnStaleCompletion(string, string)        {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPlayStart(context.Context, string) {}
func (NoopPipelineHooks) OnPlayComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	surfaceHooks  SurfaceHooks  = NoopSurfaceHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetSurfaceHooks registers custom surface hooks.
// This should be called once at application startup before any engine is built.
func SetSurfaceHooks(h SurfaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		surfaceHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
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
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Surface returns the registered surface hooks.
func Surface() SurfaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return surfaceHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
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
	surfaceHooks = NoopSurfaceHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
