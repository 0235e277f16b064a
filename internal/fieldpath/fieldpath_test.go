package fieldpath

import (
	"reflect"
	"testing"
)

func sampleDoc() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"email":  "test@driveback.ru",
			"userId": "user123",
		},
		"cart": map[string]any{
			"lineItems": []any{
				map[string]any{
					"product":  map[string]any{"id": "123", "unitSalePrice": 1000.0},
					"quantity": 2,
				},
				map[string]any{
					"product": map[string]any{"unitSalePrice": 500.0},
				},
			},
		},
	}
}

func TestGet(t *testing.T) {
	doc := sampleDoc()

	v, ok := Get(doc, "user.email")
	if !ok || v != "test@driveback.ru" {
		t.Fatalf("Get(user.email) = %v, %v", v, ok)
	}

	if _, ok := Get(doc, "user.phone"); ok {
		t.Fatal("expected missing path to report absent")
	}
	if _, ok := Get(doc, "transaction.orderId"); ok {
		t.Fatal("expected missing section to report absent")
	}
}

func TestGetFalsyIsAbsent(t *testing.T) {
	doc := map[string]any{
		"product": map[string]any{"unitSalePrice": 0.0, "id": ""},
	}
	if _, ok := Get(doc, "product.unitSalePrice"); ok {
		t.Fatal("zero price must count as absent")
	}
	if _, ok := Get(doc, "product.id"); ok {
		t.Fatal("empty id must count as absent")
	}
}

func TestCollectWildcard(t *testing.T) {
	doc := sampleDoc()

	got := Collect(doc, "cart.lineItems[].product.id")
	want := []any{"123", nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect = %#v, want %#v", got, want)
	}

	if got := Collect(doc, "transaction.lineItems[].product.id"); len(got) != 0 {
		t.Fatalf("expected no matches for missing collection, got %#v", got)
	}
}

func TestSetAndDelete(t *testing.T) {
	doc := map[string]any{}
	Set(doc, "customFields.childrenCount", 2)

	v, ok := Get(doc, "customFields.childrenCount")
	if !ok || v != 2 {
		t.Fatalf("Get after Set = %v, %v", v, ok)
	}

	Delete(doc, "customFields.childrenCount")
	if _, ok := Get(doc, "customFields.childrenCount"); ok {
		t.Fatal("expected deleted path to report absent")
	}
}

func TestClean(t *testing.T) {
	got := Clean(map[string]any{
		"operation": "SetCart",
		"customer":  map[string]any{"ids": map[string]any{}},
		"data": map[string]any{
			"productList": []any{
				map[string]any{"count": 2, "price": 2000.0},
				map[string]any{},
			},
			"empty": "",
		},
	})
	want := map[string]any{
		"operation": "SetCart",
		"data": map[string]any{
			"productList": []any{
				map[string]any{"count": 2, "price": 2000.0},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clean = %#v, want %#v", got, want)
	}
}

func TestCleanDropsEverything(t *testing.T) {
	if got := Clean(map[string]any{"a": nil, "b": map[string]any{"c": ""}}); got != nil {
		t.Fatalf("expected nil for fully pruned object, got %#v", got)
	}
}
