package amqp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"

	"github.com/driveback/destination-delivery-service/internal/adapter/pubsub"
	"github.com/driveback/destination-delivery-service/internal/service"
)

const (
	// ------------------- EXCHANGES (SOURCES) -------------------
	TrackEventsExchange     = "dd_track.events"
	DeliveryResultsExchange = "dd_delivery.results"

	// ------------------- TOPICS (ROUTING KEYS) -----------------
	TopicEventTracked    = "dd_track.#.event.tracked.v1"
	TopicReceiptRecorded = "dd_delivery.receipt.recorded.v1"

	// ------------------- QUEUES (CONSUMERS) --------------------
	DeliveryProcessorQueue = "dd-delivery.incoming-processor.v1"
	DeliveryPoisonTopic    = "dd-delivery.incoming-processor.v1.poison"
)

type TrackHandler struct {
	deliverer  service.Deliverer
	logger     *slog.Logger
	dispatcher pubsub.ReceiptDispatcher
}

func NewTrackHandler(deliverer service.Deliverer, logger *slog.Logger, dispatcher pubsub.ReceiptDispatcher) *TrackHandler {
	return &TrackHandler{deliverer, logger, dispatcher}
}

func NewWatermillRouter(wmLogger watermill.LoggerAdapter) (*message.Router, error) {
	return message.NewRouter(message.RouterConfig{}, wmLogger)
}

func (h *TrackHandler) RegisterHandlers(router *message.Router, subProvider *pubsub.SubscriberProvider) error {
	poison, err := middleware.PoisonQueue(h.dispatcher.Publisher(), DeliveryPoisonTopic)
	if err != nil {
		return fmt.Errorf("POISON_SETUP_FAILED: %w", err)
	}

	configs := []struct {
		name     string
		exchange string
		topic    string
		handler  message.NoPublishHandlerFunc
	}{
		{"ON_EVENT_TRACKED", TrackEventsExchange, TopicEventTracked, Bind(h, h.OnEventTrackedV1)},
	}

	for _, c := range configs {
		instanceID := uuid.NewString()[:8]
		// One queue per handler per node keeps redeliveries local.
		// Format: dd-delivery.incoming-processor.v1.b23a8f12.ON_EVENT_TRACKED
		handlerQueue := fmt.Sprintf("%s.%s.%s", DeliveryProcessorQueue, instanceID, c.name)

		sub, err := subProvider.Build(handlerQueue, c.exchange)
		if err != nil {
			return err
		}

		router.AddNoPublisherHandler(c.name, c.topic, sub, c.handler).AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(h.logger),
			NewRetryMiddleware().Middleware,
			poison,
			middleware.NewThrottle(100, time.Second).Middleware,
			middleware.Timeout(time.Second*30),
		)
	}

	h.logger.Info("AMQP_PIPELINE_READY", "queue", DeliveryProcessorQueue)
	return nil
}
