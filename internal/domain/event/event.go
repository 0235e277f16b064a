// Package event defines the vendor-neutral semantic events flowing from the
// dispatcher to destination adapters.
package event

import (
	"sync"

	"github.com/driveback/destination-delivery-service/internal/domain/model"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
)

// Name identifies a semantic event. The set below is closed; anything else
// is an operator-defined custom event routed through the generic custom
// translator of each adapter.
type Name string

const (
	ViewedPage           Name = "Viewed Page"
	LoggedIn             Name = "Logged In"
	Registered           Name = "Registered"
	Subscribed           Name = "Subscribed"
	UpdatedProfileInfo   Name = "Updated Profile Info"
	ViewedProductDetail  Name = "Viewed Product Detail"
	ViewedProductListing Name = "Viewed Product Listing"
	ViewedCart           Name = "Viewed Cart"
	AddedProduct         Name = "Added Product"
	RemovedProduct       Name = "Removed Product"
	CompletedTransaction Name = "Completed Transaction"
)

var semanticNames = map[Name]struct{}{
	ViewedPage:           {},
	LoggedIn:             {},
	Registered:           {},
	Subscribed:           {},
	UpdatedProfileInfo:   {},
	ViewedProductDetail:  {},
	ViewedProductListing: {},
	ViewedCart:           {},
	AddedProduct:         {},
	RemovedProduct:       {},
	CompletedTransaction: {},
}

// Semantic reports whether the name belongs to the closed semantic set.
func (n Name) Semantic() bool {
	_, ok := semanticNames[n]
	return ok
}

// Override is the per-destination block an event may carry under
// integrations.<adapterId>. It takes precedence over static adapter
// configuration.
type Override struct {
	Operation string
}

// Event is one semantic event. It is immutable at dispatch time: adapters
// never mutate the payload, and enrichment produces derived copies (Clone)
// rather than writing through.
type Event struct {
	ID               string
	Name             Name
	Operation        string // event-level operation override
	SubscriptionList string
	Quantity         int // for Added/Removed Product
	OccurredAt       int64

	User         *model.User
	Product      *model.Product
	Cart         *model.Cart
	Transaction  *model.Transaction
	Listing      *model.Listing
	Page         *model.Page
	Integrations map[string]Override

	// Extra carries producer-supplied top-level document fields that have
	// no modeled section, so operator-configured source paths outside the
	// semantic sections still resolve.
	Extra map[string]any

	docOnce sync.Once
	doc     map[string]any
}

// IntegrationOperation returns the operation override addressed to the
// given adapter id, if any.
func (e *Event) IntegrationOperation(adapterID string) string {
	return e.Integrations[adapterID].Operation
}

// Clone returns a shallow copy with a fresh document cache. Enrichment works
// on clones so the original event stays untouched for other adapters.
func (e *Event) Clone() *Event {
	dup := &Event{
		ID:               e.ID,
		Name:             e.Name,
		Operation:        e.Operation,
		SubscriptionList: e.SubscriptionList,
		Quantity:         e.Quantity,
		OccurredAt:       e.OccurredAt,
		User:             e.User,
		Product:          e.Product,
		Cart:             e.Cart,
		Transaction:      e.Transaction,
		Listing:          e.Listing,
		Page:             e.Page,
		Integrations:     e.Integrations,
		Extra:            e.Extra,
	}
	return dup
}

// Doc returns the map view of the event used by fieldpath extraction and
// validation. The view is computed once per event instance and cached, the
// same way transport marshalling is cached per delivery elsewhere in the
// pipeline.
func (e *Event) Doc() map[string]any {
	e.docOnce.Do(func() {
		d := map[string]any{
			"name": string(e.Name),
		}
		for k, v := range e.Extra {
			putSection(d, k, v)
		}
		putSection(d, "operation", e.Operation)
		putSection(d, "subscriptionList", e.SubscriptionList)
		if e.Quantity != 0 {
			d["quantity"] = e.Quantity
		}
		putSection(d, "user", e.User.Doc())
		putSection(d, "product", e.Product.Doc())
		putSection(d, "cart", e.Cart.Doc())
		putSection(d, "transaction", e.Transaction.Doc())
		putSection(d, "listing", e.Listing.Doc())
		putSection(d, "page", e.Page.Doc())
		if len(e.Integrations) > 0 {
			ints := map[string]any{}
			for id, ov := range e.Integrations {
				if ov.Operation != "" {
					ints[id] = map[string]any{"operation": ov.Operation}
				}
			}
			putSection(d, "integrations", ints)
		}
		e.doc = d
	})
	return e.doc
}

func putSection(d map[string]any, key string, v any) {
	if fieldpath.Falsy(v) {
		return
	}
	d[key] = v
}
