package service

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/driveback/destination-delivery-service/config"
	"github.com/driveback/destination-delivery-service/internal/domain/registry"
)

var Module = fx.Module(
	"service",

	fx.Provide(
		// Domain services
		fx.Annotate(
			func(reg registry.Registrar, enricher Enricher, logger *slog.Logger, tp trace.TracerProvider, cfg *config.Config) *DeliveryService {
				return NewDeliveryService(reg, enricher, logger, tp,
					WithDeliveryTimeout(cfg.Delivery.Timeout),
					WithFanOutLimit(cfg.Delivery.FanOutLimit),
				)
			},
			fx.As(new(Deliverer)),
		),
		fx.Annotate(
			NewSnapshotEnricher,
			fx.As(new(Enricher)),
		),
	),

	// Intercept the enricher to add cross-cutting concerns.
	fx.Decorate(func(orig Enricher, logger *slog.Logger) Enricher {
		return &EnricherMiddleware{
			Next:   orig,
			Logger: logger,
		}
	}),
)
