package mindbox

import (
	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/model"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
)

// defaultCustomerFields are recognized top-level customer attributes in the
// structured protocol. Everything else moves under customFields.
var defaultCustomerFields = map[string]struct{}{
	"firstName":   {},
	"lastName":    {},
	"middleName":  {},
	"fullName":    {},
	"mobilePhone": {},
	"email":       {},
	"birthDate":   {},
	"sex":         {},
}

// customerData builds the flat customer object from the configured user
// variable mapping. In structured mode the multi-system ids map is attached
// and unrecognized attributes are nested under customFields.
func (a *Adapter) customerData(ev *event.Event) map[string]any {
	data := a.cfg.UserVars.Values(ev.Doc())
	if data == nil {
		data = map[string]any{}
	}
	if a.cfg.Protocol != ProtocolStructured {
		return data
	}

	if ids := a.customerIDs(ev); ids != nil {
		data["ids"] = ids
	}
	for key, v := range data {
		if key == "ids" {
			continue
		}
		if _, ok := defaultCustomerFields[key]; ok {
			continue
		}
		fieldpath.Set(data, "customFields."+key, v)
		delete(data, key)
	}
	return data
}

func (a *Adapter) customerIDs(ev *event.Event) map[string]any {
	return a.cfg.CustomerIDs.Values(ev.Doc())
}

func (a *Adapter) categoryIDs(ev *event.Event) map[string]any {
	return a.cfg.ProductCategoryIDs.Values(ev.Doc())
}

// productCustoms resolves the operator-declared custom product variables
// against one product, skipping absent values.
func (a *Adapter) productCustoms(p model.Product) map[string]any {
	if len(a.cfg.ProductVars) == 0 {
		return nil
	}
	doc := p.Doc()
	customs := map[string]any{}
	for key, path := range a.cfg.ProductVars {
		if v, ok := fieldpath.Get(doc, path); ok {
			customs[key] = v
		}
	}
	return customs
}

// structuredProduct shapes one product as a multi-system identifier record:
// {ids: {...}} with an optional nested sku block.
func (a *Adapter) structuredProduct(p model.Product) map[string]any {
	doc := p.Doc()
	out := map[string]any{}
	if ids := a.productIDs.Values(doc); ids != nil {
		out["ids"] = ids
	}
	if skuIDs := a.productSKUIDs.Values(doc); skuIDs != nil {
		out["sku"] = map[string]any{"ids": skuIDs}
	}
	return out
}

// structuredProductList shapes line items as {product, count, price}
// triples. Price falls back to count times unit sale price unless the line
// item carries an explicit subtotal.
func (a *Adapter) structuredProductList(items []model.LineItem) []any {
	out := make([]any, 0, len(items))
	for _, li := range items {
		out = append(out, map[string]any{
			"product": a.structuredProduct(li.Product),
			"count":   li.Count(),
			"price":   li.Price(),
		})
	}
	return out
}
