// Package vendorsdk models the outbound surface of a third-party vendor SDK:
// a single callable taking a call-kind tag and a pruned data object. Adapters
// hold a Caller injected at construction, so tests can fake the vendor
// without touching process-wide state.
package vendorsdk

import "context"

// CallKind tags the vendor call being made.
type CallKind string

const (
	Create           CallKind = "create"
	Identify         CallKind = "identify"
	PerformOperation CallKind = "performOperation"
	Async            CallKind = "async"
	// Push is the queue-style surface used by pixel counters.
	Push CallKind = "push"
)

// Caller is the vendor call interface. Calls are fire-and-forget: the
// translation engine never waits for or interprets a vendor response, so
// Call reports nothing. Transport errors are the implementation's problem.
type Caller interface {
	Call(ctx context.Context, kind CallKind, payload map[string]any)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, kind CallKind, payload map[string]any)

func (f CallerFunc) Call(ctx context.Context, kind CallKind, payload map[string]any) {
	f(ctx, kind, payload)
}
