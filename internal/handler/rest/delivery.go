// Package rest exposes the HTTP ingest surface for producers that cannot
// publish to the bus directly.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driveback/destination-delivery-service/internal/service"
	"github.com/driveback/destination-delivery-service/internal/service/dto"
)

const sessionHeader = "X-Session-Id"

type TrackHandler struct {
	deliverer service.Deliverer
	logger    *slog.Logger
}

func NewTrackHandler(deliverer service.Deliverer, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{
		deliverer: deliverer,
		logger:    logger,
	}
}

func (h *TrackHandler) Register(r chi.Router) {
	r.Post("/v1/events", h.TrackEvent)
}

// TrackEvent ingests one tracked event. Delivery runs synchronously so the
// producer learns about total failure, but per-adapter outcomes are not
// reported back: 202 means accepted, not delivered everywhere.
func (h *TrackHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		http.Error(w, "missing "+sessionHeader+" header", http.StatusBadRequest)
		return
	}

	var raw dto.TrackEventV1
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "malformed event payload", http.StatusBadRequest)
		return
	}
	if raw.Name == "" {
		http.Error(w, "event name is required", http.StatusBadRequest)
		return
	}

	ev := raw.ToDomain()
	if err := h.deliverer.Deliver(r.Context(), sessionID, ev); err != nil {
		h.logger.Error("HTTP_DELIVERY_FAILED", "event", ev.Name, "session_id", sessionID, "err", err)
		http.Error(w, "delivery failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"event_id": ev.ID})
}
