// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about floorplan edits and placement store traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Libraries never import a logger or metrics client for these events; the
// CLI registers a logging implementation in its root command.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditHooks(&myEditHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Edit().OnEdit("place", 1, nil)
//	observability.Store().OnSave(ctx, "sqlite", key, blocks, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from the occupancy engine.
// Engine operations are synchronous and never block, so no context is passed.
type EditHooks interface {
	// OnEdit records a committed (err == nil) or rejected edit.
	// affected is the number of blocks created, removed or changed.
	OnEdit(op string, affected int, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from placement store backends.
type StoreHooks interface {
	// OnLoad records a placement load.
	OnLoad(ctx context.Context, backend, key string, blocks int, duration time.Duration, err error)

	// OnSave records a placement save.
	OnSave(ctx context.Context, backend, key string, blocks int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnEdit(string, int, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editHooks  EditHooks  = NoopEditHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetEditHooks registers custom edit hooks.
// This should be called once at application startup before any edits.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editHooks = NoopEditHooks{}
	storeHooks = NoopStoreHooks{}
}
