package registry

import (
	"context"
	"sync"

	"github.com/driveback/destination-delivery-service/internal/adapter"
	"github.com/driveback/destination-delivery-service/internal/domain/event"
)

// Lane is the per-adapter delivery unit. Its mutex guarantees an adapter
// processes one event to completion before the next is delivered, which the
// adapter contract relies on.
type Lane struct {
	mu       sync.Mutex
	adapter  adapter.Adapter
	accepted map[event.Name]struct{}
	custom   bool
}

func newLane(a adapter.Adapter) *Lane {
	accepted := map[event.Name]struct{}{}
	for _, name := range a.AcceptedEvents() {
		accepted[name] = struct{}{}
	}
	custom := false
	if acceptor, ok := a.(adapter.CustomEventAcceptor); ok {
		custom = acceptor.AcceptsCustomEvents()
	}
	return &Lane{adapter: a, accepted: accepted, custom: custom}
}

func (l *Lane) Adapter() adapter.Adapter { return l.adapter }

func (l *Lane) accepts(name event.Name) bool {
	if _, ok := l.accepted[name]; ok {
		return true
	}
	return l.custom && !name.Semantic()
}

// Deliver runs Consume under the lane lock.
func (l *Lane) Deliver(ctx context.Context, ev *event.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adapter.Consume(ctx, ev)
}
