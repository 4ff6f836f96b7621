package storefront

import (
	"errors"
	"net/http"

	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
	"github.com/attire-shop/attire/internal/session"
)

// CartHandler handles all cart routes
type CartHandler struct {
	products domain.ProductStore
	sessions *session.Registry
	secure   bool
}

// NewCartHandler creates a new cart handler
func NewCartHandler(products domain.ProductStore, sessions *session.Registry, secure bool) *CartHandler {
	return &CartHandler{
		products: products,
		sessions: sessions,
		secure:   secure,
	}
}

func (h *CartHandler) cart(w http.ResponseWriter, r *http.Request) *cart.Store {
	sessionID := EnsureSessionID(w, r, h.secure)
	return h.sessions.Get(r.Context(), sessionID).Cart
}

func cartResponse(c *cart.Store) map[string]interface{} {
	return map[string]interface{}{
		"items":      c.Items(),
		"total":      c.Total(),
		"itemsCount": c.ItemsCount(),
	}
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, cartResponse(h.cart(w, r)))
}

// Add handles POST /api/cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		ProductID int64  `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.ProductID < 1 {
		handler.ErrorResponse(w, r, domain.Invalid("cart.add", "productId is required"))
		return
	}

	product, err := h.products.GetByID(ctx, req.ProductID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	c := h.cart(w, r)
	c.AddItem(ctx, *product, req.Size, req.Color)
	handler.JSON(w, http.StatusOK, cartResponse(c))
}

// Update handles PUT /api/cart
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		ProductID int64  `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
		Quantity  int    `json:"quantity"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	c := h.cart(w, r)
	if err := c.UpdateQuantity(ctx, req.ProductID, req.Size, req.Color, req.Quantity); err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			handler.ErrorResponse(w, r, domain.Invalid("cart.update", "Quantity cannot be negative"))
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, cartResponse(c))
}

// Remove handles DELETE /api/cart. Item identity comes from query
// parameters since DELETE bodies are unreliable across proxies.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := parseProductID(r.URL.Query().Get("productId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	size := r.URL.Query().Get("size")
	color := r.URL.Query().Get("color")

	c := h.cart(w, r)
	c.RemoveItem(ctx, productID, size, color)
	handler.JSON(w, http.StatusOK, cartResponse(c))
}

// Clear handles POST /api/cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	c.ClearCart(r.Context())
	handler.JSON(w, http.StatusOK, cartResponse(c))
}
