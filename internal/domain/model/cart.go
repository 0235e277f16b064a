package model

// Cart is the visitor's current basket.
type Cart struct {
	LineItems []LineItem
	Subtotal  float64
	Total     float64
	Currency  string
}

func (c *Cart) Doc() map[string]any {
	if c == nil {
		return nil
	}
	d := map[string]any{}
	if len(c.LineItems) > 0 {
		items := make([]any, len(c.LineItems))
		for i, li := range c.LineItems {
			items[i] = li.Doc()
		}
		d["lineItems"] = items
	}
	put(d, "subtotal", c.Subtotal)
	put(d, "total", c.Total)
	put(d, "currency", c.Currency)
	return d
}

// Transaction is a completed purchase.
type Transaction struct {
	OrderID        string
	LineItems      []LineItem
	ShippingMethod string
	PaymentMethod  string
	Subtotal       float64
	Total          float64
	Currency       string
}

func (t *Transaction) Doc() map[string]any {
	if t == nil {
		return nil
	}
	d := map[string]any{}
	put(d, "orderId", t.OrderID)
	if len(t.LineItems) > 0 {
		items := make([]any, len(t.LineItems))
		for i, li := range t.LineItems {
			items[i] = li.Doc()
		}
		d["lineItems"] = items
	}
	put(d, "shippingMethod", t.ShippingMethod)
	put(d, "paymentMethod", t.PaymentMethod)
	put(d, "subtotal", t.Subtotal)
	put(d, "total", t.Total)
	put(d, "currency", t.Currency)
	return d
}
