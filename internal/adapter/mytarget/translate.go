package mytarget

import (
	"context"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/model"
)

// pagetypes the counter has dedicated itemView shapes for; everything else
// is reported as "other".
var knownPageTypes = map[string]struct{}{
	"home":         {},
	"product":      {},
	"listing":      {},
	"category":     {},
	"checkout":     {},
	"confirmation": {},
	"cart":         {},
}

func (a *Adapter) onViewedPage(ctx context.Context, ev *event.Event) {
	a.push(ctx, map[string]any{
		"id":    a.cfg.CounterID,
		"type":  "pageView",
		"start": a.now(),
	})

	if ev.Page == nil {
		return
	}
	switch {
	case ev.Page.Type == "home":
		a.itemView(ctx, ev, "home", "", "")
	default:
		if _, known := knownPageTypes[ev.Page.Type]; !known {
			a.itemView(ctx, ev, "other", "", "")
		}
	}
}

func (a *Adapter) onViewedProductDetail(ctx context.Context, ev *event.Event) {
	var productID any = ""
	totalValue := 0.0
	if ev.Product != nil {
		productID = ev.Product.ID
		totalValue = ev.Product.UnitSalePrice
		if totalValue == 0 {
			totalValue = ev.Product.UnitPrice
		}
	}
	a.itemView(ctx, ev, "product", productID, totalOrEmpty(totalValue))
}

func (a *Adapter) onViewedProductCategory(ctx context.Context, ev *event.Event) {
	a.itemView(ctx, ev, "category", "", "")
}

func (a *Adapter) onViewedCart(ctx context.Context, ev *event.Event) {
	var ids any = ""
	total := 0.0
	if ev.Cart != nil {
		ids = lineItemProductIDs(ev.Cart.LineItems)
		total = ev.Cart.Total
		if total == 0 {
			total = ev.Cart.Subtotal
		}
	}
	a.itemView(ctx, ev, "cart", ids, totalOrEmpty(total))
}

func (a *Adapter) onCompletedTransaction(ctx context.Context, ev *event.Event) {
	var ids any = ""
	total := 0.0
	if ev.Transaction != nil {
		ids = lineItemProductIDs(ev.Transaction.LineItems)
		total = ev.Transaction.Total
		if total == 0 {
			total = ev.Transaction.Subtotal
		}
	}
	a.itemView(ctx, ev, "purchase", ids, totalOrEmpty(total))
}

func (a *Adapter) onCustomEvent(ctx context.Context, ev *event.Event) {
	a.push(ctx, map[string]any{
		"id":   a.cfg.CounterID,
		"type": "reachGoal",
		"goal": string(ev.Name),
	})
}

func (a *Adapter) itemView(ctx context.Context, ev *event.Event, pagetype string, productID, totalValue any) {
	a.push(ctx, map[string]any{
		"type":       "itemView",
		"productid":  productID,
		"pagetype":   pagetype,
		"totalvalue": totalValue,
		"list":       a.list(ev),
	})
}

// lineItemProductIDs collects the ids of line items that carry one. The
// counter wants an empty string, not an empty list, when nothing matches.
func lineItemProductIDs(items []model.LineItem) any {
	var ids []string
	for _, li := range items {
		if li.Product.ID != "" {
			ids = append(ids, li.Product.ID)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return ids
}

// totalOrEmpty keeps the counter's convention of sending an empty string
// in place of a missing total.
func totalOrEmpty(total float64) any {
	if total == 0 {
		return ""
	}
	return total
}
