package amqp

import (
	"context"
	"fmt"

	"github.com/driveback/destination-delivery-service/internal/service/dto"
)

// OnEventTrackedV1 delivers one tracked event to the destination adapters
// and publishes a receipt either way.
func (h *TrackHandler) OnEventTrackedV1(ctx context.Context, sessionID string, raw *dto.TrackEventV1) error {
	ev := raw.ToDomain()

	deliveryErr := h.deliverer.Deliver(ctx, sessionID, ev)

	receipt := dto.NewDeliveryReceiptV1(ev.ID, sessionID, string(ev.Name), deliveryErr)
	if err := h.dispatcher.Publish(ctx, TopicReceiptRecorded, receipt); err != nil {
		return fmt.Errorf("RECEIPT_DISPATCH_FAILED: %w", err)
	}

	if deliveryErr != nil {
		// NACK: the retry policy decides between redelivery and poison.
		return deliveryErr
	}
	return nil
}
