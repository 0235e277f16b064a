package amqp

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
)

// DomainHandler defines the functional signature for business logic.
type DomainHandler[T any] func(ctx context.Context, sessionID string, payload *T) error

// Bind connects Watermill to domain logic, handling panic recovery, session
// resolution and poison pill protection. Malformed input is acknowledged:
// redelivering it can never succeed. Business failures are returned so the
// retry policy applies.
func Bind[T any](h *TrackHandler, fn DomainHandler[T]) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("PANIC_RECOVERED",
					"err", r,
					"stack", string(debug.Stack()),
					"msg_id", msg.UUID)
			}
		}()

		sessionID, ok := resolveSessionID(msg)
		if !ok {
			h.logger.Warn("ROUTING_FAILED: session_missing", "msg_id", msg.UUID)
			return nil // ACK: invalid routing is a terminal state.
		}

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			h.logger.Error("DECODE_FAILED", "err", err, "msg_id", msg.UUID)
			return nil // ACK: poison pill protection.
		}

		return fn(msg.Context(), sessionID, payload)
	}
}

// resolveSessionID extracts the tracked session from message metadata, or
// from the routing key when the producer did not set it.
// Routing key format: dd_track.<session_id>.event.tracked.v1
func resolveSessionID(msg *message.Message) (string, bool) {
	if sid := msg.Metadata.Get(MetaSessionID); sid != "" {
		return sid, true
	}

	rk := msg.Metadata.Get("x-routing-key")
	if rk == "" {
		rk = msg.Metadata.Get("routing_key")
	}
	parts := strings.Split(rk, ".")
	if len(parts) >= 2 && parts[1] != "" && parts[1] != "#" {
		return parts[1], true
	}
	return "", false
}
