package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/registry"
)

// Deliverer is the primary interface for transport handlers (AMQP/HTTP).
type Deliverer interface {
	Deliver(ctx context.Context, sessionID string, ev *event.Event) error
}

type DeliveryService struct {
	registry registry.Registrar
	enricher Enricher
	logger   *slog.Logger
	tracer   trace.Tracer

	deliveryTimeout time.Duration
	fanOutLimit     int
}

// NewDeliveryService returns a production-ready instance of the service.
func NewDeliveryService(
	reg registry.Registrar,
	enricher Enricher,
	logger *slog.Logger,
	tp trace.TracerProvider,
	opts ...Option,
) *DeliveryService {
	s := &DeliveryService{
		registry: reg,
		enricher: enricher,
		logger:   logger,
		tracer:   tp.Tracer("destination-delivery-service"),

		deliveryTimeout: 5 * time.Second,
		fanOutLimit:     8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver routes one semantic event to every accepting adapter. Per-delivery
// work runs on a clone so the caller's event stays untouched:
//
//  1. resolve accepting lanes
//  2. enrich the union of the lanes' requested fields from session state
//  3. validate per adapter, dropping only for that adapter on errors
//  4. fan out deliveries concurrently, one in-flight event per adapter
//
// A failing adapter never blocks the others; errors are joined and reported
// to the caller for redelivery accounting.
func (s *DeliveryService) Deliver(ctx context.Context, sessionID string, ev *event.Event) error {
	ctx, span := s.tracer.Start(ctx, "delivery.deliver",
		trace.WithAttributes(
			attribute.String("event.name", string(ev.Name)),
			attribute.String("event.id", ev.ID),
			attribute.String("session.id", sessionID),
		),
	)
	defer span.End()

	lanes := s.registry.LanesFor(ev.Name)
	if len(lanes) == 0 {
		s.logger.Debug("EVENT_UNROUTED", "event", ev.Name, "session_id", sessionID)
		return nil
	}
	span.SetAttributes(attribute.Int("delivery.adapters", len(lanes)))

	ev = ev.Clone()

	var paths []string
	for _, lane := range lanes {
		paths = append(paths, lane.Adapter().EnrichableFields(ev)...)
	}
	if err := s.enricher.Enrich(ctx, sessionID, ev, paths); err != nil {
		// Enrichment is best effort: deliver what the event already carries.
		s.logger.Warn("EVENT_ENRICHMENT_SKIPPED", "event", ev.Name, "err", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOutLimit)

	for _, lane := range lanes {
		lane := lane
		adapterID := lane.Adapter().ID()

		if !s.validate(lane, ev, sessionID) {
			continue
		}

		g.Go(func() error {
			dCtx, cancel := context.WithTimeout(gCtx, s.deliveryTimeout)
			defer cancel()

			if err := lane.Deliver(dCtx, ev); err != nil {
				s.logger.Error("EVENT_DELIVERY_FAILED",
					"adapter", adapterID,
					"event", ev.Name,
					"session_id", sessionID,
					"err", err,
				)
				return fmt.Errorf("adapter %s: %w", adapterID, err)
			}
			return nil
		})
	}

	err := g.Wait()

	// Session state observes the event regardless of delivery outcome, so
	// redeliveries see the same enrichment inputs.
	s.enricher.Observe(ctx, sessionID, ev)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		return err
	}
	return nil
}

// validate runs the adapter's declared rules against the event document.
// Errors drop the event for this adapter only; warnings are advisory.
func (s *DeliveryService) validate(lane *registry.Lane, ev *event.Event, sessionID string) bool {
	rules := lane.Adapter().ValidationRules(ev)
	if len(rules) == 0 {
		return true
	}

	issues, warnings := rules.Evaluate(ev.Doc())
	for _, w := range warnings {
		s.logger.Warn("EVENT_VALIDATION_WARNING",
			"adapter", lane.Adapter().ID(),
			"event", ev.Name,
			"field", w.Path,
			"check", w.Check,
		)
	}
	if len(issues) > 0 {
		s.logger.Debug("EVENT_REJECTED",
			"adapter", lane.Adapter().ID(),
			"event", ev.Name,
			"session_id", sessionID,
			"issues", len(issues),
		)
		return false
	}
	return true
}
