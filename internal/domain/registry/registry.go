/*
Package registry tracks the destination adapters known to this node and
routes semantic events to the ones that accept them.

Key concepts:
  - Lanes: every adapter is wrapped in a Lane that serializes Consume calls,
    so one adapter never processes two translations concurrently while the
    dispatcher fans out across adapters in parallel.
  - Acceptance index: each lane pre-computes its accepted event set, so
    routing is a lock-free map probe per adapter.
*/
package registry

import (
	"sync"

	"github.com/driveback/destination-delivery-service/internal/adapter"
	"github.com/driveback/destination-delivery-service/internal/domain/event"
)

// Registrar is the routing gateway the delivery service works against.
type Registrar interface {
	Register(a adapter.Adapter)
	LanesFor(name event.Name) []*Lane
	Lane(id string) (*Lane, bool)
}

type Registry struct {
	mu    sync.RWMutex
	lanes map[string]*Lane
	order []string // registration order, kept for deterministic fan-out
}

func NewRegistry() *Registry {
	return &Registry{lanes: map[string]*Lane{}}
}

// Register wraps the adapter in a lane. Re-registering an id replaces the
// previous adapter.
func (r *Registry) Register(a adapter.Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lanes[a.ID()]; !exists {
		r.order = append(r.order, a.ID())
	}
	r.lanes[a.ID()] = newLane(a)
}

// LanesFor returns the lanes whose adapters accept the event name, in
// registration order. Custom (non-semantic) names additionally match
// adapters that declare blanket custom-event acceptance.
func (r *Registry) LanesFor(name event.Name) []*Lane {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Lane
	for _, id := range r.order {
		lane := r.lanes[id]
		if lane.accepts(name) {
			out = append(out, lane)
		}
	}
	return out
}

func (r *Registry) Lane(id string) (*Lane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lane, ok := r.lanes[id]
	return lane, ok
}
