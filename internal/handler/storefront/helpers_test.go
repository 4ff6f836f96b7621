package storefront

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attire-shop/attire/internal/auth"
	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/middleware"
	"github.com/attire-shop/attire/internal/session"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// mockProductStore implements domain.ProductStore for testing
type mockProductStore struct {
	listFunc         func(ctx context.Context) ([]domain.Product, error)
	listFilteredFunc func(ctx context.Context, sel domain.FilterSelection) ([]domain.Product, error)
	getByIDFunc      func(ctx context.Context, id int64) (*domain.Product, error)
	facetsFunc       func(ctx context.Context) (*domain.ProductFacets, error)
}

func (m *mockProductStore) List(ctx context.Context) ([]domain.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) ListFiltered(ctx context.Context, sel domain.FilterSelection) ([]domain.Product, error) {
	if m.listFilteredFunc != nil {
		return m.listFilteredFunc(ctx, sel)
	}
	return nil, nil
}

func (m *mockProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.NotFound("product.get", "product", "unknown")
}

func (m *mockProductStore) Facets(ctx context.Context) (*domain.ProductFacets, error) {
	if m.facetsFunc != nil {
		return m.facetsFunc(ctx)
	}
	return &domain.ProductFacets{}, nil
}

// mockReviewStore implements domain.ReviewStore for testing
type mockReviewStore struct {
	createFunc         func(ctx context.Context, userID int64, input domain.ReviewInput) (*domain.Review, error)
	updateFunc         func(ctx context.Context, userID int64, input domain.ReviewInput) (*domain.Review, error)
	deleteFunc         func(ctx context.Context, userID, productID int64) error
	listForProductFunc func(ctx context.Context, productID int64) ([]domain.Review, error)
	listForUserFunc    func(ctx context.Context, userID int64) ([]domain.Review, error)
}

func (m *mockReviewStore) Create(ctx context.Context, userID int64, input domain.ReviewInput) (*domain.Review, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, input)
	}
	return nil, nil
}

func (m *mockReviewStore) Update(ctx context.Context, userID int64, input domain.ReviewInput) (*domain.Review, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, input)
	}
	return nil, nil
}

func (m *mockReviewStore) Delete(ctx context.Context, userID, productID int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, productID)
	}
	return nil
}

func (m *mockReviewStore) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	if m.listForProductFunc != nil {
		return m.listForProductFunc(ctx, productID)
	}
	return nil, nil
}

func (m *mockReviewStore) ListForUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, nil
}

// mockOrderStore implements domain.OrderStore for testing
type mockOrderStore struct {
	createFunc      func(ctx context.Context, params domain.CreatePurchaseParams) (*domain.Purchase, error)
	listForUserFunc func(ctx context.Context, userID int64) ([]domain.Purchase, error)
}

func (m *mockOrderStore) Create(ctx context.Context, params domain.CreatePurchaseParams) (*domain.Purchase, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &domain.Purchase{
		ID:              "purchase-1",
		UserID:          params.UserID,
		Items:           params.Items,
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  params.BillingAddress,
		ShippingMethod:  params.ShippingMethod,
		Total:           params.Total,
		PaymentIntentID: params.PaymentIntentID,
		Status:          params.Status,
		CreatedAt:       time.Now(),
	}, nil
}

func (m *mockOrderStore) ListForUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, purchaseID, status string) error {
	return nil
}

func newTestRegistry() *session.Registry {
	return session.NewRegistry(cart.NewMemoryRepository(), testLogger)
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:       5,
		Name:     "Sport Running Shoes",
		Price:    129.99,
		Category: "Shoes",
		Gender:   "unisex",
		Sizes:    []string{"8", "9", "10"},
		Colors:   []string{"Black"},
		InStock:  true,
	}
}

// withSession attaches an authenticated session to the request context the
// same way middleware.WithSession does.
func withSession(r *http.Request, s *auth.Session) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.SessionContextKey, s)
	return r.WithContext(ctx)
}

// withCartCookie pins the request to a known visitor session.
func withCartCookie(r *http.Request, sessionID string) *http.Request {
	r.AddCookie(&http.Cookie{Name: cartCookieName, Value: sessionID})
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
