package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
)

// EnricherMiddleware adds observability to the enrichment process without
// touching session-state logic.
type EnricherMiddleware struct {
	Next   Enricher
	Logger *slog.Logger
}

func NewEnricherMiddleware(next Enricher, logger *slog.Logger) Enricher {
	return &EnricherMiddleware{
		Next:   next,
		Logger: logger,
	}
}

// Enrich wraps enrichment with execution timing and outcome logging.
func (m *EnricherMiddleware) Enrich(ctx context.Context, sessionID string, ev *event.Event, paths []string) error {
	start := time.Now()

	err := m.Next.Enrich(ctx, sessionID, ev, paths)

	duration := time.Since(start)
	if err != nil {
		m.Logger.Error("EVENT_ENRICHMENT_FAILED",
			"err", err,
			"event", ev.Name,
			"session_id", sessionID,
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		m.Logger.Debug("EVENT_ENRICHED",
			"event", ev.Name,
			"fields", len(paths),
			"duration_ms", duration.Milliseconds(),
		)
	}

	return err
}

func (m *EnricherMiddleware) Observe(ctx context.Context, sessionID string, ev *event.Event) {
	m.Next.Observe(ctx, sessionID, ev)
}
