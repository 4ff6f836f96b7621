package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attire-shop/attire/internal/auth"
	"github.com/attire-shop/attire/internal/billing"
	"github.com/attire-shop/attire/internal/checkout"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/session"
)

type checkoutFixture struct {
	handler  *CheckoutHandler
	registry *session.Registry
	provider *billing.MockProvider
	orders   *mockOrderStore
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	registry := newTestRegistry()
	provider := &billing.MockProvider{}
	orders := &mockOrderStore{}
	orch := checkout.NewOrchestrator(provider, orders, 5*time.Second, testLogger)
	return &checkoutFixture{
		handler:  NewCheckoutHandler(orch, registry, false),
		registry: registry,
		provider: provider,
		orders:   orders,
	}
}

const validShippingJSON = `{
	"firstName": "Ada", "lastName": "Lovelace",
	"email": "ada@example.com", "phone": "555-0100",
	"address": "1 Analytical Way", "city": "London",
	"state": "LDN", "zipCode": "SW1", "country": "UK"
}`

const validPaymentJSON = `{"cardholderName": "Ada Lovelace", "sameAsShipping": true}`

func (f *checkoutFixture) do(method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := withCartCookie(httptest.NewRequest(method, target, strings.NewReader(body)), "sess-1")

	switch {
	case strings.HasSuffix(target, "/next"):
		f.handler.Next(rec, req)
	case strings.HasSuffix(target, "/prev"):
		f.handler.Prev(rec, req)
	case strings.HasSuffix(target, "/shipping"):
		f.handler.Shipping(rec, req)
	case strings.HasSuffix(target, "/payment"):
		f.handler.Payment(rec, req)
	case strings.HasSuffix(target, "/shipping-method"):
		f.handler.ShippingMethod(rec, req)
	default:
		f.handler.Get(rec, req)
	}
	return rec
}

type checkoutResponse struct {
	Checkout   checkout.State `json:"checkout"`
	ItemsCount int            `json:"itemsCount"`
	OrderTotal float64        `json:"orderTotal"`
}

func TestCheckoutHandler_Get_InitialState(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(http.MethodGet, "/api/checkout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body checkoutResponse
	decodeBody(t, rec, &body)
	if body.Checkout.CurrentStep != checkout.StepShipping {
		t.Errorf("CurrentStep = %d, want %d", body.Checkout.CurrentStep, checkout.StepShipping)
	}
	if body.Checkout.ShippingMethod != domain.ShippingStandard {
		t.Errorf("ShippingMethod = %q", body.Checkout.ShippingMethod)
	}
}

func TestCheckoutHandler_WizardFlow(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(http.MethodPost, "/api/checkout/shipping", validShippingJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("shipping: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/checkout/next", "{}")
	var body checkoutResponse
	decodeBody(t, rec, &body)
	if body.Checkout.CurrentStep != checkout.StepPayment {
		t.Fatalf("CurrentStep = %d after next", body.Checkout.CurrentStep)
	}

	rec = f.do(http.MethodPost, "/api/checkout/payment", validPaymentJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("payment: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/checkout/next", "{}")
	decodeBody(t, rec, &body)
	if body.Checkout.CurrentStep != checkout.StepReview {
		t.Fatalf("CurrentStep = %d after second next", body.Checkout.CurrentStep)
	}

	rec = f.do(http.MethodPost, "/api/checkout/prev", "{}")
	decodeBody(t, rec, &body)
	if body.Checkout.CurrentStep != checkout.StepPayment {
		t.Errorf("CurrentStep = %d after prev", body.Checkout.CurrentStep)
	}
}

func TestCheckoutHandler_Shipping_Invalid(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(http.MethodPost, "/api/checkout/shipping", `{"firstName":"Ada"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"fields"`) {
		t.Errorf("expected field errors in body: %s", rec.Body.String())
	}
}

func TestCheckoutHandler_Get_RegressesIncompleteReview(t *testing.T) {
	f := newCheckoutFixture(t)

	// session landed on the review step without captured payment info
	entry := f.registry.Get(context.Background(), "sess-1")
	entry.Checkout.SetStep(checkout.StepReview)

	rec := f.do(http.MethodGet, "/api/checkout", "")
	var body checkoutResponse
	decodeBody(t, rec, &body)
	if body.Checkout.CurrentStep != checkout.StepPayment {
		t.Errorf("CurrentStep = %d, want regression to %d", body.Checkout.CurrentStep, checkout.StepPayment)
	}
}

func TestCheckoutHandler_ShippingMethod(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(http.MethodPost, "/api/checkout/shipping-method", `{"method":"express"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body checkoutResponse
	decodeBody(t, rec, &body)
	if body.Checkout.ShippingMethod != domain.ShippingExpress {
		t.Errorf("ShippingMethod = %q", body.Checkout.ShippingMethod)
	}

	rec = f.do(http.MethodPost, "/api/checkout/shipping-method", `{"method":"carrier-pigeon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCheckoutHandler_PlaceOrder_RequiresAuth(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := httptest.NewRecorder()
	req := withCartCookie(httptest.NewRequest(http.MethodPost, "/api/checkout/place-order",
		strings.NewReader(`{"card":{"number":"4242424242424242","expMonth":12,"expYear":2030,"cvc":"123"}}`)), "sess-1")
	f.handler.PlaceOrder(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if f.provider.CreateCalls != 0 {
		t.Error("gateway must not be called for anonymous requests")
	}
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	entry := f.registry.Get(ctx, "sess-1")
	entry.Cart.AddItem(ctx, sampleProduct(), "9", "Black")
	if err := entry.Checkout.SetShippingInfo(domain.ShippingInfo{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "555-0100", Address: "1 Analytical Way", City: "London",
		State: "LDN", ZipCode: "SW1", Country: "UK",
	}); err != nil {
		t.Fatal(err)
	}
	if err := entry.Checkout.SetPaymentInfo(domain.PaymentInfo{
		CardholderName: "Ada Lovelace", SameAsShipping: true,
	}); err != nil {
		t.Fatal(err)
	}
	entry.Checkout.SetStep(checkout.StepReview)

	rec := httptest.NewRecorder()
	req := withCartCookie(httptest.NewRequest(http.MethodPost, "/api/checkout/place-order",
		strings.NewReader(`{"card":{"number":"4242424242424242","expMonth":12,"expYear":2030,"cvc":"123"}}`)), "sess-1")
	req = withSession(req, &auth.Session{UserID: 7, Username: "ada", Email: "ada@example.com"})
	f.handler.PlaceOrder(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var purchase domain.Purchase
	decodeBody(t, rec, &purchase)
	if purchase.UserID != 7 {
		t.Errorf("UserID = %d, want 7", purchase.UserID)
	}
	if purchase.PaymentIntentID != "pi_mock_1" {
		t.Errorf("PaymentIntentID = %q", purchase.PaymentIntentID)
	}
	if f.provider.ConfirmCalls != 1 {
		t.Errorf("ConfirmCalls = %d, want 1", f.provider.ConfirmCalls)
	}

	// wizard is reset for the next order
	if entry.Checkout.CurrentStep != checkout.StepShipping {
		t.Errorf("CurrentStep = %d after order", entry.Checkout.CurrentStep)
	}
}

func TestCheckoutHandler_PlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	entry := f.registry.Get(ctx, "sess-1")
	entry.Checkout.SetShippingInfo(domain.ShippingInfo{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "555-0100", Address: "1 Analytical Way", City: "London",
		State: "LDN", ZipCode: "SW1", Country: "UK",
	})
	entry.Checkout.SetPaymentInfo(domain.PaymentInfo{CardholderName: "Ada Lovelace", SameAsShipping: true})
	entry.Checkout.SetStep(checkout.StepReview)

	rec := httptest.NewRecorder()
	req := withCartCookie(httptest.NewRequest(http.MethodPost, "/api/checkout/place-order",
		strings.NewReader(`{"card":{"number":"4242424242424242","expMonth":12,"expYear":2030,"cvc":"123"}}`)), "sess-1")
	req = withSession(req, &auth.Session{UserID: 7, Username: "ada", Email: "ada@example.com"})
	f.handler.PlaceOrder(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if f.provider.CreateCalls != 0 {
		t.Error("gateway must not be called for an empty cart")
	}
}
