package amqp

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

// Metadata keys shared between producers and the consumer pipeline.
const (
	MetaSessionID = "session_id"
	MetaTraceID   = "trace_id"
)

type ctxKey string

const traceIDKey ctxKey = MetaTraceID

// TraceIDMiddleware stamps a trace id on messages that arrive without one,
// so every delivery attempt of a tracked event is correlatable in logs.
func TraceIDMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		traceID := msg.Metadata.Get(MetaTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
			msg.Metadata.Set(MetaTraceID, traceID)
		}

		msg.SetContext(context.WithValue(msg.Context(), traceIDKey, traceID))

		return h(msg)
	}
}

// LoggingMiddleware records one line per consumed tracked event, with the
// session it belongs to and the handling latency.
func LoggingMiddleware(logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			start := time.Now()
			msgs, err := h(msg)

			logger.Debug("MESSAGE_HANDLED",
				"msg_id", msg.UUID,
				"session_id", msg.Metadata.Get(MetaSessionID),
				"trace_id", msg.Metadata.Get(MetaTraceID),
				"duration_ms", time.Since(start).Milliseconds(),
				"success", err == nil,
			)
			return msgs, err
		}
	}
}

// NewRetryMiddleware backs off on transient vendor failures. Permanent
// failures (decode, routing) never reach it: Bind acknowledges those.
func NewRetryMiddleware() middleware.Retry {
	return middleware.Retry{
		MaxRetries:      3,
		InitialInterval: time.Second * 2,
		MaxInterval:     time.Second * 15,
		Multiplier:      2.0,
	}
}
