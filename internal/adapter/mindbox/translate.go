package mindbox

import (
	"context"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/vendorsdk"
)

// onViewedPage only acts when a cart sync operation is configured and the
// event carries a cart.
func (a *Adapter) onViewedPage(ctx context.Context, ev *event.Event) {
	if a.cfg.SetCartOperation == "" || ev.Cart == nil {
		return
	}
	a.setCart(ctx, ev, a.cfg.SetCartOperation)
}

func (a *Adapter) setCart(ctx context.Context, ev *event.Event, operation string) {
	items := ev.Cart.LineItems
	if len(items) == 0 {
		return
	}

	if a.cfg.Protocol == ProtocolStructured {
		data := map[string]any{
			"productList": a.structuredProductList(items),
		}
		if ids := a.customerIDs(ev); ids != nil {
			data["customer"] = map[string]any{"ids": ids}
		}
		a.call(ctx, vendorsdk.Async, map[string]any{
			"operation": operation,
			"data":      data,
		})
		return
	}

	offers := make([]any, 0, len(items))
	for _, li := range items {
		offer := map[string]any{
			"productId": li.Product.ID,
			"count":     li.Count(),
			"price":     float64(li.Count()) * li.Product.UnitSalePrice,
		}
		for k, v := range a.productCustoms(li.Product) {
			offer[k] = v
		}
		offers = append(offers, offer)
	}
	a.call(ctx, vendorsdk.PerformOperation, map[string]any{
		"operation": operation,
		"data": map[string]any{
			"action": map[string]any{"personalOffers": offers},
		},
	})
}

func (a *Adapter) onLoggedIn(ctx context.Context, ev *event.Event, operation string) {
	if a.cfg.Protocol == ProtocolStructured {
		ids := a.customerIDs(ev)
		if ids == nil {
			return
		}
		customer := map[string]any{"ids": ids}
		if ev.User != nil {
			customer["email"] = ev.User.Email
			customer["mobilePhone"] = ev.User.Phone
		}
		a.call(ctx, vendorsdk.Async, map[string]any{
			"operation": operation,
			"data":      map[string]any{"customer": customer},
		})
		return
	}

	identificator := a.identify(ev, "")
	if identificator.Zero() {
		return
	}
	a.call(ctx, vendorsdk.Identify, map[string]any{
		"operation":     operation,
		"identificator": identificator.Doc(),
		"data":          a.customerData(ev),
	})
}

// onProfileUpdated covers registration and profile updates: same payload,
// different operation.
func (a *Adapter) onProfileUpdated(ctx context.Context, ev *event.Event, operation string) {
	data := a.customerData(ev)
	if subs := a.subscriptions(ev, ""); len(subs) > 0 {
		data["subscriptions"] = subs
	}

	if a.cfg.Protocol == ProtocolStructured {
		if ids := a.customerIDs(ev); ids == nil {
			return
		}
		a.call(ctx, vendorsdk.Async, map[string]any{
			"operation": operation,
			"data":      map[string]any{"customer": data},
		})
		return
	}

	identificator := a.identify(ev, "")
	if identificator.Zero() {
		return
	}
	a.call(ctx, vendorsdk.Identify, map[string]any{
		"operation":     operation,
		"identificator": identificator.Doc(),
		"data":          data,
	})
}

func (a *Adapter) onSubscribed(ctx context.Context, ev *event.Event, operation string) {
	if ev.User == nil || ev.User.Email == "" {
		return
	}

	subscription := map[string]any{
		"pointOfContact": "Email",
		"topic":          ev.SubscriptionList,
		"isSubscribed":   true,
		"valueByDefault": true,
	}

	if a.cfg.Protocol == ProtocolStructured {
		a.call(ctx, vendorsdk.Async, map[string]any{
			"operation": operation,
			"data": map[string]any{
				"customer": map[string]any{
					"email":         ev.User.Email,
					"subscriptions": []any{subscription},
				},
			},
		})
		return
	}

	identificator := a.identify(ev, ProviderEmail)
	if identificator.Zero() {
		return
	}
	data := a.customerData(ev)
	data["subscriptions"] = []any{subscription}
	a.call(ctx, vendorsdk.Identify, map[string]any{
		"operation":     operation,
		"identificator": identificator.Doc(),
		"data":          data,
	})
}

func (a *Adapter) onViewedProductDetail(ctx context.Context, ev *event.Event, operation string) {
	if ev.Product == nil || ev.Product.ID == "" {
		return
	}

	if a.cfg.Protocol == ProtocolStructured {
		data := map[string]any{
			"product": a.structuredProduct(*ev.Product),
		}
		if ids := a.customerIDs(ev); ids != nil {
			data["customer"] = map[string]any{"ids": ids}
		}
		a.call(ctx, vendorsdk.Async, map[string]any{
			"operation": operation,
			"data":      data,
		})
		return
	}

	action := map[string]any{"productId": ev.Product.ID}
	for k, v := range a.productCustoms(*ev.Product) {
		action[k] = v
	}
	a.call(ctx, vendorsdk.PerformOperation, map[string]any{
		"operation": operation,
		"data":      map[string]any{"action": action},
	})
}

func (a *Adapter) onViewedProductListing(ctx context.Context, ev *event.Event, operation string) {
	if a.cfg.Protocol == ProtocolStructured {
		ids := a.categoryIDs(ev)
		if ids == nil {
			return
		}
		a.call(ctx, vendorsdk.Async, map[string]any{
			"operation": operation,
			"data": map[string]any{
				"productCategory": map[string]any{"ids": ids},
			},
		})
		return
	}

	if ev.Listing == nil || ev.Listing.CategoryID == "" {
		return
	}
	a.call(ctx, vendorsdk.PerformOperation, map[string]any{
		"operation": operation,
		"data": map[string]any{
			"action": map[string]any{"productCategoryId": ev.Listing.CategoryID},
		},
	})
}

// onProductCartAction covers added and removed product. The structured
// protocol has no dedicated shape for these, so they route through the
// generic custom-event translator.
func (a *Adapter) onProductCartAction(ctx context.Context, ev *event.Event, operation string) {
	if a.cfg.Protocol == ProtocolStructured {
		a.onCustomEvent(ctx, ev, operation)
		return
	}

	if ev.Product == nil || ev.Product.ID == "" {
		return
	}
	action := map[string]any{
		"productId": ev.Product.ID,
		"price":     ev.Product.UnitSalePrice,
	}
	for k, v := range a.productCustoms(*ev.Product) {
		action[k] = v
	}
	a.call(ctx, vendorsdk.PerformOperation, map[string]any{
		"operation": operation,
		"data":      map[string]any{"action": action},
	})
}

// onCompletedTransaction is identical across protocol versions: the
// structured surface kept the identify order shape.
func (a *Adapter) onCompletedTransaction(ctx context.Context, ev *event.Event, operation string) {
	identificator := a.identify(ev, "")
	if identificator.Zero() {
		return
	}
	tx := ev.Transaction
	if tx == nil || tx.OrderID == "" {
		return
	}

	items := make([]any, 0, len(tx.LineItems))
	for _, li := range tx.LineItems {
		item := map[string]any{
			"productId": li.Product.ID,
			"quantity":  li.Count(),
			"price":     li.Product.UnitSalePrice,
		}
		for k, v := range a.productCustoms(li.Product) {
			item[k] = v
		}
		items = append(items, item)
	}

	data := a.customerData(ev)
	data["order"] = map[string]any{
		"webSiteId":    tx.OrderID,
		"price":        tx.Total,
		"deliveryType": tx.ShippingMethod,
		"paymentType":  tx.PaymentMethod,
		"items":        items,
	}
	a.call(ctx, vendorsdk.Identify, map[string]any{
		"operation":     operation,
		"identificator": identificator.Doc(),
		"data":          data,
	})
}

// onCustomEvent handles operator-declared events and anything without a
// dedicated translator. Identity is attached opportunistically when the
// event carries a user.
func (a *Adapter) onCustomEvent(ctx context.Context, ev *event.Event, operation string) {
	payload := map[string]any{"operation": operation}
	if ev.User != nil {
		if identificator := a.identify(ev, ""); !identificator.Zero() {
			payload["identificator"] = identificator.Doc()
		}
		payload["data"] = a.customerData(ev)
	}
	a.call(ctx, vendorsdk.PerformOperation, payload)
}

// subscriptions builds one record per subscribed channel, gated by the
// per-channel flags on the user payload.
func (a *Adapter) subscriptions(ev *event.Event, topic string) []any {
	if ev.User == nil {
		return nil
	}
	var subs []any
	if ev.User.IsSubscribed {
		subs = append(subs, map[string]any{
			"pointOfContact": "Email",
			"topic":          topic,
			"isSubscribed":   true,
			"valueByDefault": true,
		})
	}
	if ev.User.IsSubscribedBySms {
		subs = append(subs, map[string]any{
			"pointOfContact": "Sms",
			"topic":          topic,
			"isSubscribed":   true,
			"valueByDefault": true,
		})
	}
	return subs
}
