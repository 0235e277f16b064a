// Package adapter defines the contract every destination adapter implements
// towards the dispatcher.
package adapter

import (
	"context"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/validation"
)

// Adapter is a destination-specific translation unit. The dispatcher drives
// the full cycle: EnrichableFields before delivery, ValidationRules to gate
// it, Consume to act. Adapters own their configuration exclusively and share
// no mutable state with each other.
type Adapter interface {
	// ID is the adapter key used in per-event integration overrides.
	ID() string

	// AcceptedEvents lists the semantic event names this adapter reacts to,
	// extended at construction time with every operator-declared custom
	// event from the operation mapping.
	AcceptedEvents() []event.Name

	// EnrichableFields returns the event field paths the dispatcher must
	// populate before handing the event over. Side-effect free and safe to
	// call speculatively for events the adapter will not act on.
	EnrichableFields(ev *event.Event) []string

	// ValidationRules returns the declarative payload requirements for the
	// event, or nil when the event name carries none.
	ValidationRules(ev *event.Event) validation.Rules

	// Consume translates the event into zero or more vendor calls. Missing
	// required data is a silent no-op, never an error: one adapter's unmet
	// requirement must not block the others fed by the same dispatcher.
	Consume(ctx context.Context, ev *event.Event) error

	// Ready reports whether the vendor SDK has signaled initialization.
	// Before that, calls are transparently buffered by the loader.
	Ready() bool
}

// CustomEventAcceptor is implemented by adapters that react to any custom
// (non-semantic) event name, not only the names listed in AcceptedEvents.
type CustomEventAcceptor interface {
	AcceptsCustomEvents() bool
}
