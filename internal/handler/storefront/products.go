package storefront

import (
	"net/http"
	"strconv"

	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
	"github.com/attire-shop/attire/internal/session"
)

// ProductHandler handles catalog browsing routes
type ProductHandler struct {
	products domain.ProductStore
	reviews  domain.ReviewStore
	sessions *session.Registry
	secure   bool
}

// NewProductHandler creates a new product handler
func NewProductHandler(products domain.ProductStore, reviews domain.ReviewStore, sessions *session.Registry, secure bool) *ProductHandler {
	return &ProductHandler{
		products: products,
		reviews:  reviews,
		sessions: sessions,
		secure:   secure,
	}
}

// List handles GET /api/products.
// Query params override the session's stored filter selection; without any
// params the stored selection applies, so a shopper's filters follow them
// across requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := EnsureSessionID(w, r, h.secure)
	entry := h.sessions.Get(ctx, sessionID)

	sel := entry.Filters.Selection
	if len(r.URL.Query()) > 0 {
		parsed, err := parseFilterQuery(r)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		sel = parsed
	}

	products, err := h.products.ListFiltered(ctx, sel)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseProductID(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, product)
}

// Reviews handles GET /api/products/{id}/reviews
func (h *ProductHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseProductID(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	reviews, err := h.reviews.ListForProduct(ctx, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
	})
}

// Facets handles GET /api/products/facets
func (h *ProductHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.products.Facets(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, facets)
}

// parseFilterQuery builds a filter selection from list query parameters.
func parseFilterQuery(r *http.Request) (domain.FilterSelection, error) {
	q := r.URL.Query()

	sel := domain.FilterSelection{
		SearchQuery:        q.Get("q"),
		SelectedCategories: q["category"],
		SelectedGenders:    q["gender"],
		SelectedSizes:      q["size"],
		PriceRange:         q.Get("price"),
		SortBy:             q.Get("sort"),
	}

	if sel.PriceRange != "" && !domain.ValidPriceBracket(sel.PriceRange) {
		return sel, domain.Errorf(domain.EINVALID, "products.list", "unknown price bracket: %s", sel.PriceRange)
	}

	switch sel.SortBy {
	case "", domain.SortName, domain.SortPriceLow, domain.SortPriceHigh, domain.SortRating:
	default:
		return sel, domain.Errorf(domain.EINVALID, "products.list", "unknown sort order: %s", sel.SortBy)
	}

	return sel, nil
}

// parseProductID parses a numeric product ID path segment.
func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Errorf(domain.EINVALID, "", "Invalid product id")
	}
	return id, nil
}
