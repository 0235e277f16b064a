// Package mindbox translates semantic events into Mindbox marketing platform
// calls. It supports both the legacy imperative protocol and the structured
// async protocol, selected by configuration.
package mindbox

import (
	"context"
	"log/slog"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
	"github.com/driveback/destination-delivery-service/internal/validation"
	"github.com/driveback/destination-delivery-service/internal/vendorsdk"
)

const AdapterID = "mindbox"

var semanticEvents = []event.Name{
	event.ViewedPage,
	event.LoggedIn,
	event.Registered,
	event.Subscribed,
	event.UpdatedProfileInfo,
	event.ViewedProductDetail,
	event.ViewedProductListing,
	event.AddedProduct,
	event.RemovedProduct,
	event.CompletedTransaction,
}

type Adapter struct {
	cfg    Config
	vendor vendorsdk.Caller
	logger *slog.Logger

	accepted            []event.Name
	productIDs          fieldpath.Mapping
	productSKUIDs       fieldpath.Mapping
	enrichableUserProps []string
	enrichableUserIDs   []string
}

// New builds an adapter bound to the given vendor caller. The accepted
// event set is the semantic base extended with every key of the operation
// mapping, so operator-declared custom events route automatically.
func New(cfg Config, vendor vendorsdk.Caller, logger *slog.Logger) *Adapter {
	cfg = cfg.withDefaults()

	accepted := make([]event.Name, len(semanticEvents), len(semanticEvents)+len(cfg.OperationMapping))
	copy(accepted, semanticEvents)
	for name := range cfg.OperationMapping {
		if !name.Semantic() {
			accepted = append(accepted, name)
		}
	}

	return &Adapter{
		cfg:                 cfg,
		vendor:              vendor,
		logger:              logger,
		accepted:            accepted,
		productIDs:          fieldpath.Paths(cfg.ProductIDs),
		productSKUIDs:       fieldpath.Paths(cfg.ProductSKUIDs),
		enrichableUserProps: cfg.UserVars.EnrichablePaths(),
		enrichableUserIDs:   cfg.CustomerIDs.EnrichablePaths(),
	}
}

func (a *Adapter) ID() string { return AdapterID }

func (a *Adapter) AcceptedEvents() []event.Name { return a.accepted }

// Initialize performs the vendor create handshake. Safe to call before the
// SDK is ready, the loader buffers it.
func (a *Adapter) Initialize(ctx context.Context) {
	a.call(ctx, vendorsdk.Create, map[string]any{
		"projectSystemName":        a.cfg.ProjectSystemName,
		"brandSystemName":          a.cfg.BrandSystemName,
		"pointOfContactSystemName": a.cfg.PointOfContactSystemName,
		"projectDomain":            a.cfg.ProjectDomain,
	})
}

func (a *Adapter) Ready() bool {
	if r, ok := a.vendor.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return true
}

// EnrichableFields lists the field paths the dispatcher must populate for
// the given event before delivery. No side effects: safe to call for events
// the adapter will not act on.
func (a *Adapter) EnrichableFields(ev *event.Event) []string {
	switch ev.Name {
	case event.ViewedPage:
		return append(append([]string{}, a.enrichableUserIDs...), "cart")
	case event.LoggedIn, event.Registered, event.Subscribed, event.UpdatedProfileInfo:
		paths := append([]string{}, a.enrichableUserIDs...)
		paths = append(paths, a.enrichableUserProps...)
		return append(paths, "user.userId", "user.isSubscribed")
	case event.CompletedTransaction:
		paths := append([]string{}, a.enrichableUserProps...)
		return append(paths, "user.userId", "transaction")
	case event.ViewedProductDetail:
		return []string{"product"}
	case event.ViewedProductListing:
		return []string{"listing.categoryId"}
	default:
		return nil
	}
}

// ValidationRules returns the payload requirements for the event name.
// Blocking failures make the dispatcher drop the event for this adapter
// before Consume; translators still re-check presence on their own.
func (a *Adapter) ValidationRules(ev *event.Event) validation.Rules {
	switch ev.Name {
	case event.ViewedPage:
		if a.cfg.SetCartOperation == "" {
			return nil
		}
		return validation.Rules{
			"cart.lineItems[].product.id": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsString},
			},
			"cart.lineItems[].product.unitSalePrice": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsNumeric},
			},
			"cart.lineItems[].quantity": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsNumeric},
			},
		}
	case event.ViewedProductDetail:
		return validation.Rules{
			"product.id": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsString},
			},
		}
	case event.ViewedProductListing:
		return validation.Rules{
			"listing.categoryId": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsString},
			},
		}
	case event.AddedProduct, event.RemovedProduct:
		return validation.Rules{
			"product.id": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsString},
			},
			"product.unitSalePrice": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsNumeric},
			},
		}
	case event.CompletedTransaction:
		return validation.Rules{
			"transaction.orderId": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsString},
			},
			"transaction.total": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsNumeric},
			},
			"transaction.shippingMethod": {
				Warnings: []validation.Check{validation.Required, validation.IsString},
			},
			"transaction.paymentMethod": {
				Warnings: []validation.Check{validation.Required, validation.IsString},
			},
			"transaction.lineItems[].product.id": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsString},
			},
			"transaction.lineItems[].product.unitSalePrice": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsNumeric},
			},
			"transaction.lineItems[].quantity": {
				Errors:   []validation.Check{validation.Required},
				Warnings: []validation.Check{validation.IsNumeric},
			},
		}
	default:
		return nil
	}
}

// Consume resolves the effective operation and routes the event to its
// translator. Events without a resolvable operation are dropped, except
// page views, which may still trigger a cart sync.
func (a *Adapter) Consume(ctx context.Context, ev *event.Event) error {
	operation := ev.Operation
	if operation == "" {
		operation = ev.IntegrationOperation(AdapterID)
	}
	if operation == "" {
		operation = a.cfg.OperationMapping[ev.Name]
	}

	if operation == "" && ev.Name != event.ViewedPage {
		return nil
	}

	switch ev.Name {
	case event.ViewedPage:
		a.onViewedPage(ctx, ev)
	case event.LoggedIn:
		a.onLoggedIn(ctx, ev, operation)
	case event.Registered, event.UpdatedProfileInfo:
		a.onProfileUpdated(ctx, ev, operation)
	case event.Subscribed:
		a.onSubscribed(ctx, ev, operation)
	case event.ViewedProductDetail:
		a.onViewedProductDetail(ctx, ev, operation)
	case event.ViewedProductListing:
		a.onViewedProductListing(ctx, ev, operation)
	case event.AddedProduct, event.RemovedProduct:
		a.onProductCartAction(ctx, ev, operation)
	case event.CompletedTransaction:
		a.onCompletedTransaction(ctx, ev, operation)
	default:
		a.onCustomEvent(ctx, ev, operation)
	}
	return nil
}

// call prunes the payload and forwards it to the vendor. Vendor SDKs on
// this surface reject payloads carrying explicit null or empty members, so
// pruning is a correctness requirement, not cosmetics. A payload that
// prunes to nothing is not sent.
func (a *Adapter) call(ctx context.Context, kind vendorsdk.CallKind, payload map[string]any) {
	cleaned := fieldpath.Clean(payload)
	if cleaned == nil {
		return
	}
	a.vendor.Call(ctx, kind, cleaned)
}
