package amqp

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"

	pubsubadapter "github.com/driveback/destination-delivery-service/internal/adapter/pubsub"
)

var Module = fx.Module("amqp-handler",
	fx.Provide(

		pubsubadapter.NewPublisherProvider,
		pubsubadapter.NewSubscriberProvider,

		func(pp *pubsubadapter.PublisherProvider) (pubsubadapter.ReceiptDispatcher, error) {
			pub, err := pp.Build(DeliveryResultsExchange)
			if err != nil {
				return nil, err
			}
			return pubsubadapter.NewReceiptDispatcher(pub), nil
		},

		NewTrackHandler,
		NewWatermillRouter,
	),

	fx.Invoke(registerHandlers),
	fx.Invoke(runRouter),
)

func registerHandlers(h *TrackHandler, router *message.Router, subProvider *pubsubadapter.SubscriberProvider) error {
	return h.RegisterHandlers(router, subProvider)
}

// runRouter ties the Watermill router to the application lifecycle.
func runRouter(lc fx.Lifecycle, router *message.Router) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				// Run blocks until Close; startup errors surface in logs.
				_ = router.Run(context.Background())
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			return router.Close()
		},
	})
}
