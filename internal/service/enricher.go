package service

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/model"
)

// Enricher fills requested event fields from per-session state and observes
// delivered events to keep that state current.
type Enricher interface {
	// Enrich populates missing event sections named by the requested field
	// paths. Fields the event already carries are never overwritten.
	Enrich(ctx context.Context, sessionID string, ev *event.Event, paths []string) error
	// Observe records the event's sections for later enrichment within the
	// same session.
	Observe(ctx context.Context, sessionID string, ev *event.Event)
}

// snapshot is the remembered state of one tracked session: the sections
// that stay meaningful across events.
type snapshot struct {
	user    *model.User
	cart    *model.Cart
	page    *model.Page
	listing *model.Listing
}

type SnapshotEnricher struct {
	cache *lru.Cache[string, *snapshot]
}

// NewSnapshotEnricher provides a thread-safe enricher with an internal LRU
// holding the hottest sessions.
func NewSnapshotEnricher() *SnapshotEnricher {
	cache, _ := lru.New[string, *snapshot](10000)
	return &SnapshotEnricher{cache: cache}
}

// Enrich fills nil sections from the session snapshot. Only section roots
// matter: a request for "user.email" pulls the whole remembered user, the
// adapter extracts what it needs. Unknown roots are producer-supplied extras
// and are left alone.
func (e *SnapshotEnricher) Enrich(_ context.Context, sessionID string, ev *event.Event, paths []string) error {
	if sessionID == "" || len(paths) == 0 {
		return nil
	}
	snap, ok := e.cache.Get(sessionID)
	if !ok {
		return nil
	}

	for _, path := range paths {
		switch sectionRoot(path) {
		case "user":
			if ev.User == nil {
				ev.User = snap.user
			}
		case "cart":
			if ev.Cart == nil {
				ev.Cart = snap.cart
			}
		case "page":
			if ev.Page == nil {
				ev.Page = snap.page
			}
		case "listing":
			if ev.Listing == nil {
				ev.Listing = snap.listing
			}
		}
	}
	return nil
}

// Observe replaces remembered sections with whatever the event carries.
// A completed transaction invalidates the remembered cart: it was bought.
func (e *SnapshotEnricher) Observe(_ context.Context, sessionID string, ev *event.Event) {
	if sessionID == "" {
		return
	}
	snap, ok := e.cache.Get(sessionID)
	if !ok {
		snap = &snapshot{}
	}

	if ev.User != nil {
		snap.user = ev.User
	}
	if ev.Cart != nil {
		snap.cart = ev.Cart
	}
	if ev.Page != nil {
		snap.page = ev.Page
	}
	if ev.Listing != nil {
		snap.listing = ev.Listing
	}
	if ev.Name == event.CompletedTransaction {
		snap.cart = nil
	}

	e.cache.Add(sessionID, snap)
}

func sectionRoot(path string) string {
	root, _, _ := strings.Cut(path, ".")
	return root
}
