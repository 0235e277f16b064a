package model

// Product describes one catalog item as reported by the application.
type Product struct {
	ID            string
	Name          string
	SKUCode       string
	Category      string
	CategoryID    string
	Currency      string
	UnitPrice     float64
	UnitSalePrice float64
	Custom        map[string]any
}

func (p *Product) Doc() map[string]any {
	if p == nil {
		return nil
	}
	d := map[string]any{}
	put(d, "id", p.ID)
	put(d, "name", p.Name)
	put(d, "skuCode", p.SKUCode)
	put(d, "category", p.Category)
	put(d, "categoryId", p.CategoryID)
	put(d, "currency", p.Currency)
	put(d, "unitPrice", p.UnitPrice)
	put(d, "unitSalePrice", p.UnitSalePrice)
	for k, v := range p.Custom {
		put(d, k, v)
	}
	return d
}

// LineItem is one cart or transaction position. Line items are derived,
// per-destination-shaped records: translators rebuild them per dispatch and
// never share or cache them.
type LineItem struct {
	Product  Product
	Quantity int
	Subtotal float64
}

func (li LineItem) Doc() map[string]any {
	d := map[string]any{}
	put(d, "product", li.Product.Doc())
	put(d, "quantity", li.Quantity)
	put(d, "subtotal", li.Subtotal)
	return d
}

// Count returns the line item quantity, defaulting to one.
func (li LineItem) Count() int {
	if li.Quantity == 0 {
		return 1
	}
	return li.Quantity
}

// Price is the destination-facing line total: the explicit subtotal when
// set, otherwise quantity times unit sale price.
func (li LineItem) Price() float64 {
	if li.Subtotal != 0 {
		return li.Subtotal
	}
	return float64(li.Count()) * li.Product.UnitSalePrice
}
