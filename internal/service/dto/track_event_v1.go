// Package dto holds the wire payload structures accepted from event
// producers, decoupled from the domain model.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/domain/model"
)

// TrackEventV1 is the current payload structure published by tracking
// frontends.
type TrackEventV1 struct {
	EventID          string                    `json:"event_id"`
	Name             string                    `json:"name"`
	Operation        string                    `json:"operation"`
	SubscriptionList string                    `json:"subscription_list"`
	Quantity         int                       `json:"quantity"`
	OccurredAt       string                    `json:"occurred_at"`
	User             *UserDTO                  `json:"user"`
	Product          *ProductDTO               `json:"product"`
	Cart             *CartDTO                  `json:"cart"`
	Transaction      *TransactionDTO           `json:"transaction"`
	Listing          *ListingDTO               `json:"listing"`
	Page             *PageDTO                  `json:"page"`
	Integrations     map[string]IntegrationDTO `json:"integrations"`
	Extra            map[string]any            `json:"extra"`
}

type UserDTO struct {
	UserID            string         `json:"user_id"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	MiddleName        string         `json:"middle_name"`
	FullName          string         `json:"full_name"`
	BirthDate         string         `json:"birth_date"`
	Sex               string         `json:"sex"`
	IsSubscribed      bool           `json:"is_subscribed"`
	IsSubscribedBySms bool           `json:"is_subscribed_by_sms"`
	Custom            map[string]any `json:"custom"`
}

type ProductDTO struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	SKUCode       string         `json:"sku_code"`
	Category      string         `json:"category"`
	CategoryID    string         `json:"category_id"`
	Currency      string         `json:"currency"`
	UnitPrice     float64        `json:"unit_price"`
	UnitSalePrice float64        `json:"unit_sale_price"`
	Custom        map[string]any `json:"custom"`
}

type LineItemDTO struct {
	Product  ProductDTO `json:"product"`
	Quantity int        `json:"quantity"`
	Subtotal float64    `json:"subtotal"`
}

type CartDTO struct {
	LineItems []LineItemDTO `json:"line_items"`
	Subtotal  float64       `json:"subtotal"`
	Total     float64       `json:"total"`
	Currency  string        `json:"currency"`
}

type TransactionDTO struct {
	OrderID        string        `json:"order_id"`
	LineItems      []LineItemDTO `json:"line_items"`
	ShippingMethod string        `json:"shipping_method"`
	PaymentMethod  string        `json:"payment_method"`
	Subtotal       float64       `json:"subtotal"`
	Total          float64       `json:"total"`
	Currency       string        `json:"currency"`
}

type ListingDTO struct {
	CategoryID string `json:"category_id"`
	Category   string `json:"category"`
}

type PageDTO struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type IntegrationDTO struct {
	Operation string `json:"operation"`
}

// ToDomain maps the wire payload to a semantic event. Malformed or missing
// producer fields degrade to zero values rather than failing: a missing id
// gets generated, a bad timestamp falls back to receive time.
func (d *TrackEventV1) ToDomain() *event.Event {
	id := d.EventID
	if id == "" {
		id = uuid.NewString()
	}

	ev := &event.Event{
		ID:               id,
		Name:             event.Name(d.Name),
		Operation:        d.Operation,
		SubscriptionList: d.SubscriptionList,
		Quantity:         d.Quantity,
		OccurredAt:       parseOccurredAt(d.OccurredAt),
		User:             d.User.toDomain(),
		Product:          d.Product.toDomain(),
		Cart:             d.Cart.toDomain(),
		Transaction:      d.Transaction.toDomain(),
		Listing:          d.Listing.toDomain(),
		Page:             d.Page.toDomain(),
		Extra:            d.Extra,
	}
	if len(d.Integrations) > 0 {
		ev.Integrations = make(map[string]event.Override, len(d.Integrations))
		for adapterID, ov := range d.Integrations {
			ev.Integrations[adapterID] = event.Override{Operation: ov.Operation}
		}
	}
	return ev
}

func parseOccurredAt(raw string) int64 {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}

func (d *UserDTO) toDomain() *model.User {
	if d == nil {
		return nil
	}
	return &model.User{
		UserID:            d.UserID,
		Email:             d.Email,
		Phone:             d.Phone,
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		MiddleName:        d.MiddleName,
		FullName:          d.FullName,
		BirthDate:         d.BirthDate,
		Sex:               d.Sex,
		IsSubscribed:      d.IsSubscribed,
		IsSubscribedBySms: d.IsSubscribedBySms,
		Custom:            d.Custom,
	}
}

func (d *ProductDTO) toDomain() *model.Product {
	if d == nil {
		return nil
	}
	p := d.toModel()
	return &p
}

func (d *ProductDTO) toModel() model.Product {
	return model.Product{
		ID:            d.ID,
		Name:          d.Name,
		SKUCode:       d.SKUCode,
		Category:      d.Category,
		CategoryID:    d.CategoryID,
		Currency:      d.Currency,
		UnitPrice:     d.UnitPrice,
		UnitSalePrice: d.UnitSalePrice,
		Custom:        d.Custom,
	}
}

func (d *CartDTO) toDomain() *model.Cart {
	if d == nil {
		return nil
	}
	return &model.Cart{
		LineItems: mapLineItems(d.LineItems),
		Subtotal:  d.Subtotal,
		Total:     d.Total,
		Currency:  d.Currency,
	}
}

func (d *TransactionDTO) toDomain() *model.Transaction {
	if d == nil {
		return nil
	}
	return &model.Transaction{
		OrderID:        d.OrderID,
		LineItems:      mapLineItems(d.LineItems),
		ShippingMethod: d.ShippingMethod,
		PaymentMethod:  d.PaymentMethod,
		Subtotal:       d.Subtotal,
		Total:          d.Total,
		Currency:       d.Currency,
	}
}

func mapLineItems(items []LineItemDTO) []model.LineItem {
	if len(items) == 0 {
		return nil
	}
	res := make([]model.LineItem, 0, len(items))
	for _, li := range items {
		res = append(res, model.LineItem{
			Product:  li.Product.toModel(),
			Quantity: li.Quantity,
			Subtotal: li.Subtotal,
		})
	}
	return res
}

func (d *ListingDTO) toDomain() *model.Listing {
	if d == nil {
		return nil
	}
	return &model.Listing{CategoryID: d.CategoryID, Category: d.Category}
}

func (d *PageDTO) toDomain() *model.Page {
	if d == nil {
		return nil
	}
	return &model.Page{Type: d.Type, URL: d.URL, Title: d.Title}
}
