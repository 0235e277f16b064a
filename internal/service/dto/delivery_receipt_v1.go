package dto

import "time"

// DeliveryReceiptV1 is published back to the bus after an event has been
// processed, for downstream delivery accounting.
type DeliveryReceiptV1 struct {
	EventID    string `json:"event_id"`
	SessionID  string `json:"session_id"`
	Name       string `json:"name"`
	Delivered  bool   `json:"delivered"`
	Error      string `json:"error,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

func NewDeliveryReceiptV1(eventID, sessionID, name string, deliveryErr error) *DeliveryReceiptV1 {
	r := &DeliveryReceiptV1{
		EventID:    eventID,
		SessionID:  sessionID,
		Name:       name,
		Delivered:  deliveryErr == nil,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if deliveryErr != nil {
		r.Error = deliveryErr.Error()
	}
	return r
}
