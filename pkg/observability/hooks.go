// Package observability provides hooks for metrics, tracing, and logging.
//
// The frame-graph library stays free of hard dependencies on observability
// backends: consumers register hook implementations at startup and receive
// events about graph builds, pass execution, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and lets different backends (OpenTelemetry, Prometheus, plain
// logging) plug in without the core knowing about them.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFrameHooks(&myFrameHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Frame().OnBuildStart(passCount)
//	// ... build the graph ...
//	observability.Frame().OnBuildComplete(passCount, edgeCount, duration, err)
package observability

import (
	"sync"
	"time"
)

// FrameHooks receives events from frame-graph builds and execution.
type FrameHooks interface {
	// OnBuildStart records the start of a graph build.
	OnBuildStart(passCount int)

	// OnBuildComplete records the end of a graph build.
	// err is non-nil when the build was rejected (e.g. a cycle).
	OnBuildComplete(passCount, edgeCount int, duration time.Duration, err error)

	// OnPassExecute records the recording time of one pass.
	OnPassExecute(pass string, duration time.Duration)

	// OnStateTransition records a resource changing access state between
	// passes during execution. States are reported by name (e.g. "Read",
	// "ReadWrite").
	OnStateTransition(resource uint64, from, to string)

	// OnSubmit records the final batched submission of a frame.
	OnSubmit(batchCount int, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string, size int)
}

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnBuildStart(int)                               {}
func (NoopFrameHooks) OnBuildComplete(int, int, time.Duration, error) {}
func (NoopFrameHooks) OnPassExecute(string, time.Duration)            {}
func (NoopFrameHooks) OnStateTransition(uint64, string, string)       {}
func (NoopFrameHooks) OnSubmit(int, time.Duration)                    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)      {}
func (NoopCacheHooks) OnCacheMiss(string)     {}
func (NoopCacheHooks) OnCacheSet(string, int) {}

var (
	frameHooks FrameHooks = NoopFrameHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetFrameHooks registers custom frame hooks.
// This should be called once at application startup before any graph builds.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
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

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
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
	frameHooks = NoopFrameHooks{}
	cacheHooks = NoopCacheHooks{}
}
