// Package mytarget translates semantic events into MyTarget (top.mail.ru)
// counter pushes. The vendor surface is a queue: every call is a single
// push with a flat payload, so the adapter only uses the push call kind.
package mytarget

import (
	"context"
	"log/slog"
	"time"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
	"github.com/driveback/destination-delivery-service/internal/validation"
	"github.com/driveback/destination-delivery-service/internal/vendorsdk"
)

const AdapterID = "mytarget"

// Config is the static configuration of one counter.
type Config struct {
	// CounterID gates all tracking: without it no push is made.
	CounterID string
	// ListVar resolves the price-list selector sent with every itemView.
	// Defaults to the constant "1".
	ListVar fieldpath.Source
	// NoConflict suppresses semantic event handling when another system
	// already feeds this counter; custom events still go through.
	NoConflict bool
}

func (c Config) withDefaults() Config {
	if c.ListVar == (fieldpath.Source{}) {
		c.ListVar = fieldpath.Constant("1")
	}
	return c
}

var semanticEvents = []event.Name{
	event.ViewedPage,
	event.ViewedProductDetail,
	event.ViewedProductListing,
	event.ViewedCart,
	event.CompletedTransaction,
}

type Adapter struct {
	cfg    Config
	vendor vendorsdk.Caller
	logger *slog.Logger
	now    func() int64
}

func New(cfg Config, vendor vendorsdk.Caller, logger *slog.Logger) *Adapter {
	return &Adapter{
		cfg:    cfg.withDefaults(),
		vendor: vendor,
		logger: logger,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

func (a *Adapter) ID() string { return AdapterID }

func (a *Adapter) AcceptedEvents() []event.Name { return semanticEvents }

// AcceptsCustomEvents: any custom event name becomes a reachGoal push.
func (a *Adapter) AcceptsCustomEvents() bool { return true }

func (a *Adapter) Ready() bool {
	if r, ok := a.vendor.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return true
}

func (a *Adapter) EnrichableFields(ev *event.Event) []string {
	var paths []string
	switch ev.Name {
	case event.ViewedPage:
		paths = []string{"page.type"}
	case event.ViewedProductDetail:
		paths = []string{"product"}
	case event.ViewedCart:
		paths = []string{"cart"}
	case event.CompletedTransaction:
		paths = []string{"transaction"}
	}
	if a.cfg.ListVar.Kind == fieldpath.SourceEvent {
		paths = append(paths, a.cfg.ListVar.Path)
	}
	return paths
}

// ValidationRules: the counter accepts sparse payloads, nothing blocks.
func (a *Adapter) ValidationRules(*event.Event) validation.Rules { return nil }

func (a *Adapter) Consume(ctx context.Context, ev *event.Event) error {
	if a.cfg.CounterID == "" {
		return nil
	}

	switch ev.Name {
	case event.ViewedPage, event.ViewedProductDetail, event.ViewedProductListing,
		event.ViewedCart, event.CompletedTransaction:
		if a.cfg.NoConflict {
			return nil
		}
	}

	switch ev.Name {
	case event.ViewedPage:
		a.onViewedPage(ctx, ev)
	case event.ViewedProductDetail:
		a.onViewedProductDetail(ctx, ev)
	case event.ViewedProductListing:
		a.onViewedProductCategory(ctx, ev)
	case event.ViewedCart:
		a.onViewedCart(ctx, ev)
	case event.CompletedTransaction:
		a.onCompletedTransaction(ctx, ev)
	default:
		a.onCustomEvent(ctx, ev)
	}
	return nil
}

func (a *Adapter) push(ctx context.Context, payload map[string]any) {
	a.vendor.Call(ctx, vendorsdk.Push, payload)
}

// list resolves the configured price-list selector for an event.
func (a *Adapter) list(ev *event.Event) any {
	v, ok := a.cfg.ListVar.Resolve(ev.Doc())
	if !ok {
		return ""
	}
	return v
}
