package cmd

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/driveback/destination-delivery-service/config"
	"github.com/driveback/destination-delivery-service/infra/vendor"
	"github.com/driveback/destination-delivery-service/internal/adapter/mindbox"
	"github.com/driveback/destination-delivery-service/internal/adapter/mytarget"
	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/registry"
	"github.com/driveback/destination-delivery-service/internal/vendorsdk"
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func ProvideTracerProvider(lc fx.Lifecycle) trace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp
}

// RegisterAdapters builds the configured destination adapters and attaches
// them to the registry. Each adapter talks to its destination through a
// buffering loader over a breaker-guarded HTTP caller; the loader is marked
// ready on startup, flushing anything queued during wiring (the Mindbox
// create handshake in particular).
func RegisterAdapters(lc fx.Lifecycle, cfg *config.Config, reg registry.Registrar, logger *slog.Logger) {
	var loaders []*vendorsdk.Loader

	if mb := cfg.Adapters.Mindbox; mb.Enabled {
		loader := vendorsdk.NewLoader(
			vendor.New(mindbox.AdapterID, mb.Endpoint, logger),
			logger.With("vendor", mindbox.AdapterID),
		)
		a := mindbox.New(mindboxConfig(mb), loader, logger.With("adapter", mindbox.AdapterID))
		reg.Register(a)
		a.Initialize(context.Background())
		loaders = append(loaders, loader)
		logger.Info("ADAPTER_REGISTERED", "adapter", mindbox.AdapterID, "protocol", mb.Protocol)
	}

	if mt := cfg.Adapters.MyTarget; mt.Enabled {
		loader := vendorsdk.NewLoader(
			vendor.New(mytarget.AdapterID, mt.Endpoint, logger),
			logger.With("vendor", mytarget.AdapterID),
		)
		a := mytarget.New(mytargetConfig(mt), loader, logger.With("adapter", mytarget.AdapterID))
		reg.Register(a)
		loaders = append(loaders, loader)
		logger.Info("ADAPTER_REGISTERED", "adapter", mytarget.AdapterID, "counter", mt.CounterID)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, loader := range loaders {
				loader.SetReady()
			}
			return nil
		},
	})
}

func mindboxConfig(mb config.MindboxConfig) mindbox.Config {
	operations := make(map[event.Name]string, len(mb.Operations))
	for name, operation := range mb.Operations {
		operations[event.Name(name)] = operation
	}

	return mindbox.Config{
		Protocol:                 mindbox.Protocol(mb.Protocol),
		ProjectSystemName:        mb.ProjectSystemName,
		BrandSystemName:          mb.BrandSystemName,
		PointOfContactSystemName: mb.PointOfContactSystemName,
		ProjectDomain:            mb.ProjectDomain,
		OperationMapping:         operations,
		SetCartOperation:         mb.SetCartOperation,
		UserIDProvider:           mb.UserIDProvider,
		UserVars:                 config.ParseMapping(mb.UserVars),
		ProductVars:              mb.ProductVars,
		ProductIDs:               mb.ProductIDs,
		ProductSKUIDs:            mb.ProductSKUIDs,
		ProductCategoryIDs:       config.ParseMapping(mb.ProductCategoryIDs),
		CustomerIDs:              config.ParseMapping(mb.CustomerIDs),
	}
}

func mytargetConfig(mt config.MyTargetConfig) mytarget.Config {
	return mytarget.Config{
		CounterID:  mt.CounterID,
		ListVar:    config.ParseSource(mt.ListVar),
		NoConflict: mt.NoConflict,
	}
}
