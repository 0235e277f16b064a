package model

import "github.com/driveback/destination-delivery-service/internal/fieldpath"

// Page describes the page the event happened on.
type Page struct {
	Type  string
	URL   string
	Title string
}

func (p *Page) Doc() map[string]any {
	if p == nil {
		return nil
	}
	d := map[string]any{}
	put(d, "type", p.Type)
	put(d, "url", p.URL)
	put(d, "title", p.Title)
	return d
}

// Listing describes a product listing (category) view.
type Listing struct {
	CategoryID string
	Category   string
}

func (l *Listing) Doc() map[string]any {
	if l == nil {
		return nil
	}
	d := map[string]any{}
	put(d, "categoryId", l.CategoryID)
	put(d, "category", l.Category)
	return d
}

// put writes a key only when the value is non-falsy, keeping document
// sections free of absent fields.
func put(d map[string]any, key string, v any) {
	if fieldpath.Falsy(v) {
		return
	}
	d[key] = v
}
