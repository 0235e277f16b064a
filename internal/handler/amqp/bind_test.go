package amqp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/service/dto"
)

type delivererStub struct {
	sessions []string
	events   []*event.Event
	err      error
}

func (d *delivererStub) Deliver(_ context.Context, sessionID string, ev *event.Event) error {
	d.sessions = append(d.sessions, sessionID)
	d.events = append(d.events, ev)
	return d.err
}

type dispatcherStub struct {
	topics   []string
	receipts []any
	err      error
}

func (d *dispatcherStub) Publish(_ context.Context, routingKey string, payload any) error {
	d.topics = append(d.topics, routingKey)
	d.receipts = append(d.receipts, payload)
	return d.err
}

func (d *dispatcherStub) Publisher() message.Publisher { return nil }

func newTestHandler() (*TrackHandler, *delivererStub, *dispatcherStub) {
	deliverer := &delivererStub{}
	dispatcher := &dispatcherStub{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTrackHandler(deliverer, logger, dispatcher), deliverer, dispatcher
}

func trackedMessage(payload, routingKey string) *message.Message {
	msg := message.NewMessage("msg-1", []byte(payload))
	msg.Metadata.Set("x-routing-key", routingKey)
	return msg
}

func TestBindDeliversAndPublishesReceipt(t *testing.T) {
	h, deliverer, dispatcher := newTestHandler()
	fn := Bind(h, h.OnEventTrackedV1)

	msg := trackedMessage(
		`{"event_id":"ev-1","name":"Viewed Page"}`,
		"dd_track.sess-42.event.tracked.v1",
	)
	if err := fn(msg); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if len(deliverer.sessions) != 1 || deliverer.sessions[0] != "sess-42" {
		t.Fatalf("sessions = %v, want routing key session", deliverer.sessions)
	}
	if deliverer.events[0].Name != event.ViewedPage {
		t.Fatalf("event name = %v", deliverer.events[0].Name)
	}

	if len(dispatcher.receipts) != 1 || dispatcher.topics[0] != TopicReceiptRecorded {
		t.Fatalf("receipt not published: %v", dispatcher.topics)
	}
	receipt := dispatcher.receipts[0].(*dto.DeliveryReceiptV1)
	if !receipt.Delivered || receipt.EventID != "ev-1" {
		t.Fatalf("receipt = %+v", receipt)
	}
}

func TestBindSessionMetadataWinsOverRoutingKey(t *testing.T) {
	h, deliverer, _ := newTestHandler()
	fn := Bind(h, h.OnEventTrackedV1)

	msg := trackedMessage(`{"name":"Viewed Page"}`, "dd_track.rk-session.event.tracked.v1")
	msg.Metadata.Set("session_id", "meta-session")
	if err := fn(msg); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if deliverer.sessions[0] != "meta-session" {
		t.Fatalf("session = %v", deliverer.sessions)
	}
}

func TestBindAcksUnroutableMessage(t *testing.T) {
	h, deliverer, _ := newTestHandler()
	fn := Bind(h, h.OnEventTrackedV1)

	msg := message.NewMessage("msg-1", []byte(`{"name":"Viewed Page"}`))
	if err := fn(msg); err != nil {
		t.Fatalf("unroutable message must be acked, got %v", err)
	}
	if len(deliverer.sessions) != 0 {
		t.Fatal("unroutable message must not be delivered")
	}
}

func TestBindAcksMalformedPayload(t *testing.T) {
	h, deliverer, _ := newTestHandler()
	fn := Bind(h, h.OnEventTrackedV1)

	msg := trackedMessage(`{not json`, "dd_track.sess-42.event.tracked.v1")
	if err := fn(msg); err != nil {
		t.Fatalf("poison payload must be acked, got %v", err)
	}
	if len(deliverer.sessions) != 0 {
		t.Fatal("poison payload must not be delivered")
	}
}

func TestBindNacksDeliveryFailure(t *testing.T) {
	h, deliverer, dispatcher := newTestHandler()
	deliverer.err = errors.New("adapter down")
	fn := Bind(h, h.OnEventTrackedV1)

	msg := trackedMessage(`{"name":"Viewed Page"}`, "dd_track.sess-42.event.tracked.v1")
	if err := fn(msg); err == nil {
		t.Fatal("delivery failure must be returned for retry")
	}

	receipt := dispatcher.receipts[0].(*dto.DeliveryReceiptV1)
	if receipt.Delivered || receipt.Error == "" {
		t.Fatalf("failure receipt = %+v", receipt)
	}
}
