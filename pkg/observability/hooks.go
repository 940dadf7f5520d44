// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, solved beams and the filling memo.
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
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetMemoHooks(&myMemoHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, beam, stage, len(in))
//	// ... run stage ...
//	observability.Pipeline().OnStageComplete(ctx, beam, stage, len(in), len(out), duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the design pipeline and orchestrator.
type PipelineHooks interface {
	// Stage events
	OnStageStart(ctx context.Context, beam, stage string, candidates int)
	OnStageComplete(ctx context.Context, beam, stage string, in, out int, duration time.Duration)

	// Beam events
	OnBeamSolved(ctx context.Context, beam string, proposals int, duration time.Duration)
}

// =============================================================================
// Memo Hooks
// =============================================================================

// MemoHooks receives events from the filling-strategy memo. Filling runs
// outside any request context, so these hooks take none.
type MemoHooks interface {
	// OnMemoHit records a memoised filling result being reused.
	OnMemoHit(strategy string)

	// OnMemoMiss records a filling result being computed.
	OnMemoMiss(strategy string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, string, int) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, string, int, int, time.Duration) {
}
func (NoopPipelineHooks) OnBeamSolved(context.Context, string, int, time.Duration) {}

// NoopMemoHooks is a no-op implementation of MemoHooks.
type NoopMemoHooks struct{}

func (NoopMemoHooks) OnMemoHit(string)  {}
func (NoopMemoHooks) OnMemoMiss(string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	memoHooks     MemoHooks     = NoopMemoHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetMemoHooks registers custom memo hooks.
func SetMemoHooks(h MemoHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		memoHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Memo returns the registered memo hooks.
func Memo() MemoHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return memoHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	memoHooks = NoopMemoHooks{}
}
