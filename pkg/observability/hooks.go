// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; the application picks
// what to do with them at startup. Nothing here depends on a metrics backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCalcHooks(&myCalcHooks{})
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := cog.Compute(rows)
//	observability.Calc().OnCompute(ctx, len(rows), res.Complete, string(res.Direction), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Calculator Hooks
// =============================================================================

// CalcHooks receives events from center-of-gravity computations.
type CalcHooks interface {
	// OnCompute records one computation over rows, of which complete were used.
	OnCompute(ctx context.Context, rows, complete int, direction string, duration time.Duration)

	// OnIncomplete records a request that had no complete row to compute from.
	OnIncomplete(ctx context.Context, rows int)

	// OnRejected records input refused at entry by validation.
	OnRejected(ctx context.Context, code string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from overlay and diagram rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, vizType, format string)
	OnRenderComplete(ctx context.Context, vizType, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from session lifecycle and row edits.
type SessionHooks interface {
	// OnSessionCreate records a new session.
	OnSessionCreate(ctx context.Context, id string)

	// OnSessionEdit records a mutation of a session's rows.
	OnSessionEdit(ctx context.Context, id, op string, rows int)

	// OnSessionMiss records a lookup of an unknown or expired session.
	OnSessionMiss(ctx context.Context, id string)

	// OnSessionDelete records an explicit delete.
	OnSessionDelete(ctx context.Context, id string)

	// OnSessionCleanup records a sweep of expired sessions.
	OnSessionCleanup(ctx context.Context, removed int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCalcHooks is a no-op implementation of CalcHooks.
type NoopCalcHooks struct{}

func (NoopCalcHooks) OnCompute(context.Context, int, int, string, time.Duration) {}
func (NoopCalcHooks) OnIncomplete(context.Context, int)                          {}
func (NoopCalcHooks) OnRejected(context.Context, string)                         {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreate(context.Context, string)            {}
func (NoopSessionHooks) OnSessionEdit(context.Context, string, string, int) {}
func (NoopSessionHooks) OnSessionMiss(context.Context, string)              {}
func (NoopSessionHooks) OnSessionDelete(context.Context, string)            {}
func (NoopSessionHooks) OnSessionCleanup(context.Context, int)              {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	calcHooks    CalcHooks    = NoopCalcHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetCalcHooks registers custom calculator hooks.
// This should be called once at application startup.
func SetCalcHooks(h CalcHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		calcHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Calc returns the registered calculator hooks.
func Calc() CalcHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return calcHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
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
	calcHooks = NoopCalcHooks{}
	renderHooks = NoopRenderHooks{}
	sessionHooks = NoopSessionHooks{}
	httpHooks = NoopHTTPHooks{}
}
