package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ReceiptDispatcher is the high-level contract for outgoing delivery
// receipts. Handlers stay agnostic of the transport implementation.
type ReceiptDispatcher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Publisher() message.Publisher
}

type receiptDispatcher struct {
	publisher message.Publisher
}

func NewReceiptDispatcher(pub message.Publisher) ReceiptDispatcher {
	return &receiptDispatcher{publisher: pub}
}

func (d *receiptDispatcher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("receipt dispatcher: marshal failure: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)

	if err := d.publisher.Publish(routingKey, msg); err != nil {
		return fmt.Errorf("receipt dispatcher: publish to %s: %w", routingKey, err)
	}
	return nil
}

func (d *receiptDispatcher) Publisher() message.Publisher {
	return d.publisher
}
