package storefront

import (
	"net/http"

	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
	"github.com/attire-shop/attire/internal/middleware"
)

// OrderHandler handles the account order history
type OrderHandler struct {
	orders domain.OrderStore
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders domain.OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListForUser handles GET /api/account/orders
func (h *OrderHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userSession := middleware.GetSessionFromContext(ctx)

	purchases, err := h.orders.ListForUser(ctx, userSession.UserID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"orders": purchases,
	})
}
