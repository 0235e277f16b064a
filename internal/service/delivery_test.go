package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/model"
	"github.com/driveback/destination-delivery-service/internal/domain/registry"
	"github.com/driveback/destination-delivery-service/internal/validation"
)

type stubAdapter struct {
	id       string
	accepted []event.Name
	fields   []string
	rules    validation.Rules
	err      error

	mu       sync.Mutex
	consumed []*event.Event
}

func (s *stubAdapter) ID() string                              { return s.id }
func (s *stubAdapter) AcceptedEvents() []event.Name            { return s.accepted }
func (s *stubAdapter) EnrichableFields(*event.Event) []string  { return s.fields }
func (s *stubAdapter) Ready() bool                             { return true }
func (s *stubAdapter) ValidationRules(*event.Event) validation.Rules {
	return s.rules
}

func (s *stubAdapter) Consume(_ context.Context, ev *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumed = append(s.consumed, ev)
	return s.err
}

func (s *stubAdapter) consumedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consumed)
}

type stubEnricher struct {
	enriched []string
	observed []*event.Event
}

func (e *stubEnricher) Enrich(_ context.Context, _ string, _ *event.Event, paths []string) error {
	e.enriched = append(e.enriched, paths...)
	return nil
}

func (e *stubEnricher) Observe(_ context.Context, _ string, ev *event.Event) {
	e.observed = append(e.observed, ev)
}

func newDelivery(t *testing.T, enricher Enricher, adapters ...*stubAdapter) *DeliveryService {
	t.Helper()
	reg := registry.NewRegistry()
	for _, a := range adapters {
		reg.Register(a)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDeliveryService(reg, enricher, logger, noop.NewTracerProvider())
}

func TestDeliverFansOutToAcceptingAdapters(t *testing.T) {
	first := &stubAdapter{id: "first", accepted: []event.Name{event.ViewedPage}}
	second := &stubAdapter{id: "second", accepted: []event.Name{event.ViewedPage}}
	third := &stubAdapter{id: "third", accepted: []event.Name{event.LoggedIn}}

	s := newDelivery(t, &stubEnricher{}, first, second, third)

	if err := s.Deliver(context.Background(), "sess", &event.Event{Name: event.ViewedPage}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if first.consumedCount() != 1 || second.consumedCount() != 1 {
		t.Fatal("accepting adapters must each get the event")
	}
	if third.consumedCount() != 0 {
		t.Fatal("non-accepting adapter must not get the event")
	}
}

func TestDeliverEnrichesUnionOfRequestedFields(t *testing.T) {
	first := &stubAdapter{id: "first", accepted: []event.Name{event.ViewedPage}, fields: []string{"user.email"}}
	second := &stubAdapter{id: "second", accepted: []event.Name{event.ViewedPage}, fields: []string{"cart"}}
	enr := &stubEnricher{}

	s := newDelivery(t, enr, first, second)
	if err := s.Deliver(context.Background(), "sess", &event.Event{Name: event.ViewedPage}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	want := map[string]bool{"user.email": false, "cart": false}
	for _, p := range enr.enriched {
		want[p] = true
	}
	for p, seen := range want {
		if !seen {
			t.Fatalf("enrichment request missing %q, got %v", p, enr.enriched)
		}
	}
}

func TestDeliverValidationDropsPerAdapter(t *testing.T) {
	strict := &stubAdapter{
		id:       "strict",
		accepted: []event.Name{event.ViewedProductDetail},
		rules: validation.Rules{
			"product.id": {Errors: []validation.Check{validation.Required}},
		},
	}
	lax := &stubAdapter{id: "lax", accepted: []event.Name{event.ViewedProductDetail}}

	s := newDelivery(t, &stubEnricher{}, strict, lax)

	// No product: the strict adapter's rule blocks it there only.
	if err := s.Deliver(context.Background(), "sess", &event.Event{Name: event.ViewedProductDetail}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if strict.consumedCount() != 0 {
		t.Fatal("validation errors must drop the event for the failing adapter")
	}
	if lax.consumedCount() != 1 {
		t.Fatal("other adapters must still get the event")
	}
}

func TestDeliverValidationWarningsDoNotBlock(t *testing.T) {
	adapter := &stubAdapter{
		id:       "advisory",
		accepted: []event.Name{event.ViewedProductDetail},
		rules: validation.Rules{
			"product.id": {Warnings: []validation.Check{validation.Required}},
		},
	}

	s := newDelivery(t, &stubEnricher{}, adapter)
	if err := s.Deliver(context.Background(), "sess", &event.Event{Name: event.ViewedProductDetail}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if adapter.consumedCount() != 1 {
		t.Fatal("warnings are advisory and must not block delivery")
	}
}

func TestDeliverReportsAdapterFailuresButObservesAnyway(t *testing.T) {
	failing := &stubAdapter{id: "failing", accepted: []event.Name{event.ViewedPage}, err: errors.New("boom")}
	healthy := &stubAdapter{id: "healthy", accepted: []event.Name{event.ViewedPage}}
	enr := &stubEnricher{}

	s := newDelivery(t, enr, failing, healthy)
	err := s.Deliver(context.Background(), "sess", &event.Event{Name: event.ViewedPage})
	if err == nil {
		t.Fatal("expected the failing adapter's error")
	}
	if healthy.consumedCount() != 1 {
		t.Fatal("one failing adapter must not starve the others")
	}
	if len(enr.observed) != 1 {
		t.Fatal("session state must observe the event even on failure")
	}
}

func TestDeliverUnroutedEventIsNoop(t *testing.T) {
	enr := &stubEnricher{}
	s := newDelivery(t, enr)
	if err := s.Deliver(context.Background(), "sess", &event.Event{Name: event.ViewedPage}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(enr.observed) != 0 {
		t.Fatal("unrouted events are not observed")
	}
}

func TestDeliverClonesBeforeEnrichment(t *testing.T) {
	adapter := &stubAdapter{id: "a", accepted: []event.Name{event.ViewedPage}, fields: []string{"user.email"}}
	enr := &fillingEnricher{}

	s := newDelivery(t, enr, adapter)
	original := &event.Event{Name: event.ViewedPage}
	if err := s.Deliver(context.Background(), "sess", original); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if original.User != nil {
		t.Fatal("the caller's event must stay untouched by enrichment")
	}
	if adapter.consumed[0].User == nil {
		t.Fatal("the delivered clone must carry the enriched section")
	}
}

type fillingEnricher struct{}

func (fillingEnricher) Enrich(_ context.Context, _ string, ev *event.Event, _ []string) error {
	ev.User = &model.User{Email: "cached@driveback.ru"}
	return nil
}

func (fillingEnricher) Observe(context.Context, string, *event.Event) {}
