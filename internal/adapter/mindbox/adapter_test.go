package mindbox

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
	"github.com/driveback/destination-delivery-service/internal/vendorsdk"
)

type vendorCall struct {
	Kind    vendorsdk.CallKind
	Payload map[string]any
}

type vendorRecorder struct {
	calls []vendorCall
}

func (r *vendorRecorder) Call(_ context.Context, kind vendorsdk.CallKind, payload map[string]any) {
	r.calls = append(r.calls, vendorCall{Kind: kind, Payload: payload})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAdapter(cfg Config) (*Adapter, *vendorRecorder) {
	rec := &vendorRecorder{}
	return New(cfg, rec, testLogger()), rec
}

func baseConfig() Config {
	return Config{
		ProjectSystemName:        "Test",
		BrandSystemName:          "drivebackru",
		PointOfContactSystemName: "test-services.mindbox.ru",
		ProjectDomain:            "test.com",
		UserIDProvider:           "TestWebsiteId",
	}
}

func TestInitializeSendsCreate(t *testing.T) {
	a, rec := newTestAdapter(baseConfig())
	a.Initialize(context.Background())

	if len(rec.calls) != 1 || rec.calls[0].Kind != vendorsdk.Create {
		t.Fatalf("expected a single create call, got %v", rec.calls)
	}
	want := map[string]any{
		"projectSystemName":        "Test",
		"brandSystemName":          "drivebackru",
		"pointOfContactSystemName": "test-services.mindbox.ru",
		"projectDomain":            "test.com",
	}
	assertPayload(t, rec.calls[0].Payload, want)
}

func TestAcceptedEventsExtendWithOperationMapping(t *testing.T) {
	cfg := baseConfig()
	cfg.OperationMapping = map[event.Name]string{
		event.ViewedProductDetail: "ViewProduct",
		"Applied Coupon":          "CouponApply",
	}
	a, _ := newTestAdapter(cfg)

	found := false
	for _, name := range a.AcceptedEvents() {
		if name == "Applied Coupon" {
			found = true
		}
	}
	if !found {
		t.Fatal("operation mapping keys must extend accepted events")
	}
}

func TestEnrichableFields(t *testing.T) {
	cfg := baseConfig()
	cfg.UserVars = fieldpath.Mapping{
		"email":     fieldpath.Path("user.email"),
		"firstName": fieldpath.Path("user.firstName"),
	}
	cfg.CustomerIDs = fieldpath.Mapping{"bitrixId": fieldpath.Path("user.userId")}
	a, _ := newTestAdapter(cfg)

	paths := a.EnrichableFields(&event.Event{Name: event.ViewedPage})
	assertContains(t, paths, "user.userId")
	assertContains(t, paths, "cart")

	paths = a.EnrichableFields(&event.Event{Name: event.Registered})
	assertContains(t, paths, "user.email")
	assertContains(t, paths, "user.isSubscribed")

	paths = a.EnrichableFields(&event.Event{Name: event.CompletedTransaction})
	assertContains(t, paths, "transaction")

	if paths := a.EnrichableFields(&event.Event{Name: "Custom Goal"}); paths != nil {
		t.Fatalf("custom events need no enrichment, got %v", paths)
	}
}

func TestConsumeDropsWithoutOperation(t *testing.T) {
	a, rec := newTestAdapter(baseConfig())

	ev := &event.Event{Name: event.ViewedProductDetail, Product: productStub()}
	if err := a.Consume(context.Background(), ev); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected silent drop without operation, got %v", rec.calls)
	}
}

func TestOperationPrecedence(t *testing.T) {
	cfg := baseConfig()
	cfg.OperationMapping = map[event.Name]string{event.ViewedProductDetail: "ViewProduct"}
	a, rec := newTestAdapter(cfg)

	// The per-adapter integration override beats the static mapping.
	ev := &event.Event{
		Name:         event.ViewedProductDetail,
		Product:      productStub(),
		Integrations: map[string]event.Override{"mindbox": {Operation: "ViewedProductCustom"}},
	}
	if err := a.Consume(context.Background(), ev); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got := rec.calls[0].Payload["operation"]; got != "ViewedProductCustom" {
		t.Fatalf("operation = %v, want integration override", got)
	}

	// The event-level override beats both.
	rec.calls = nil
	ev = &event.Event{
		Name:         event.ViewedProductDetail,
		Operation:    "ViewedProductExplicit",
		Product:      productStub(),
		Integrations: map[string]event.Override{"mindbox": {Operation: "ViewedProductCustom"}},
	}
	if err := a.Consume(context.Background(), ev); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got := rec.calls[0].Payload["operation"]; got != "ViewedProductExplicit" {
		t.Fatalf("operation = %v, want event-level override", got)
	}
}

func TestValidationRulesForTransaction(t *testing.T) {
	a, _ := newTestAdapter(baseConfig())
	rules := a.ValidationRules(&event.Event{Name: event.CompletedTransaction})

	rule, ok := rules["transaction.orderId"]
	if !ok {
		t.Fatal("expected a rule for transaction.orderId")
	}
	if len(rule.Errors) != 1 || rule.Errors[0] != "required" {
		t.Fatalf("orderId rule = %v", rule)
	}
	if rule := rules["transaction.shippingMethod"]; len(rule.Errors) != 0 || len(rule.Warnings) != 2 {
		t.Fatalf("shippingMethod must be advisory only, got %v", rule)
	}
}

func TestViewedPageValidationOnlyWithSetCart(t *testing.T) {
	a, _ := newTestAdapter(baseConfig())
	if rules := a.ValidationRules(&event.Event{Name: event.ViewedPage}); rules != nil {
		t.Fatal("page views without a cart sync operation need no validation")
	}

	cfg := baseConfig()
	cfg.SetCartOperation = "SetCart"
	a, _ = newTestAdapter(cfg)
	rules := a.ValidationRules(&event.Event{Name: event.ViewedPage})
	if _, ok := rules["cart.lineItems[].product.id"]; !ok {
		t.Fatalf("expected line item id rule, got %v", rules)
	}
}

func assertContains(t *testing.T, paths []string, want string) {
	t.Helper()
	for _, p := range paths {
		if p == want {
			return
		}
	}
	t.Fatalf("paths %v missing %q", paths, want)
}
