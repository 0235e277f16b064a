package event

import (
	"testing"

	"github.com/driveback/destination-delivery-service/internal/domain/model"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
)

func TestDocSectionsOmitAbsent(t *testing.T) {
	ev := &Event{
		Name: ViewedProductDetail,
		Product: &model.Product{
			ID:            "123",
			UnitSalePrice: 2500,
			Custom:        map[string]any{"skuCode": "sku123"},
		},
	}

	doc := ev.Doc()
	if _, ok := doc["user"]; ok {
		t.Fatal("absent user section must not appear in the document")
	}
	if v, ok := fieldpath.Get(doc, "product.skuCode"); !ok || v != "sku123" {
		t.Fatalf("custom product field not addressable, got %v %v", v, ok)
	}
	if v, ok := fieldpath.Get(doc, "product.unitSalePrice"); !ok || v != 2500.0 {
		t.Fatalf("unitSalePrice = %v, %v", v, ok)
	}
}

func TestDocIsCachedPerInstance(t *testing.T) {
	ev := &Event{Name: ViewedPage, Cart: &model.Cart{
		LineItems: []model.LineItem{{Product: model.Product{ID: "123", UnitSalePrice: 1000}, Quantity: 2}},
	}}
	first := ev.Doc()
	first["sentinel"] = true
	if _, ok := ev.Doc()["sentinel"]; !ok {
		t.Fatal("expected the document view to be cached per instance")
	}
}

func TestCloneResetsDocCache(t *testing.T) {
	ev := &Event{Name: LoggedIn, User: &model.User{UserID: "user123"}}
	_ = ev.Doc()

	dup := ev.Clone()
	dup.User = &model.User{UserID: "user123", Email: "test@driveback.ru"}
	if _, ok := fieldpath.Get(dup.Doc(), "user.email"); !ok {
		t.Fatal("clone must rebuild its document view")
	}
	if _, ok := fieldpath.Get(ev.Doc(), "user.email"); ok {
		t.Fatal("original event document must stay untouched")
	}
}

func TestIntegrationOperation(t *testing.T) {
	ev := &Event{
		Name:         ViewedProductDetail,
		Integrations: map[string]Override{"mindbox": {Operation: "ViewedProductCustom"}},
	}
	if got := ev.IntegrationOperation("mindbox"); got != "ViewedProductCustom" {
		t.Fatalf("IntegrationOperation = %q", got)
	}
	if got := ev.IntegrationOperation("mytarget"); got != "" {
		t.Fatalf("expected empty override for other adapter, got %q", got)
	}
}

func TestNameSemantic(t *testing.T) {
	if !CompletedTransaction.Semantic() {
		t.Fatal("Completed Transaction is semantic")
	}
	if Name("Custom Goal").Semantic() {
		t.Fatal("custom names are not semantic")
	}
}
