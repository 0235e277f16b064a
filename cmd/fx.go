package cmd

import (
	"go.uber.org/fx"

	"github.com/driveback/destination-delivery-service/config"
	infrapubsub "github.com/driveback/destination-delivery-service/infra/pubsub"
	"github.com/driveback/destination-delivery-service/internal/domain/registry"
	amqphandler "github.com/driveback/destination-delivery-service/internal/handler/amqp"
	resthandler "github.com/driveback/destination-delivery-service/internal/handler/rest"
	"github.com/driveback/destination-delivery-service/internal/service"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideTracerProvider,
		),
		infrapubsub.Module,
		registry.Module,
		service.Module,
		amqphandler.Module,
		resthandler.Module,
		fx.Invoke(RegisterAdapters),
	)
}
