// Package pubsub provides the AMQP connection layer shared by every
// messaging component.
package pubsub

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/fx"

	"github.com/driveback/destination-delivery-service/config"
	"github.com/driveback/destination-delivery-service/infra/pubsub/factory"
)

type Provider struct {
	factory *factory.Factory
}

func NewProvider(cfg *config.Config, wmLogger watermill.LoggerAdapter) *Provider {
	return &Provider{factory: factory.New(cfg.AMQP.URL, wmLogger)}
}

func (p *Provider) GetFactory() *factory.Factory { return p.factory }

var Module = fx.Module("infra-pubsub",
	fx.Provide(
		NewProvider,
		func(logger *slog.Logger) watermill.LoggerAdapter {
			return watermill.NewSlogLogger(logger)
		},
	),
)
