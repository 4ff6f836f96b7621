package storefront

import (
	"net/http"

	"github.com/attire-shop/attire/internal/checkout"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
	"github.com/attire-shop/attire/internal/middleware"
	"github.com/attire-shop/attire/internal/session"
)

// CheckoutHandler handles the checkout wizard routes
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	sessions     *session.Registry
	secure       bool
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(orchestrator *checkout.Orchestrator, sessions *session.Registry, secure bool) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		sessions:     sessions,
		secure:       secure,
	}
}

func (h *CheckoutHandler) entry(w http.ResponseWriter, r *http.Request) *session.Entry {
	sessionID := EnsureSessionID(w, r, h.secure)
	return h.sessions.Get(r.Context(), sessionID)
}

func (h *CheckoutHandler) stateResponse(entry *session.Entry) map[string]interface{} {
	resp := map[string]interface{}{
		"checkout":   entry.Checkout,
		"itemsCount": entry.Cart.ItemsCount(),
	}
	if total, err := checkout.OrderTotal(entry.Cart, entry.Checkout.ShippingMethod); err == nil {
		resp["orderTotal"] = total
	}
	return resp
}

// Get handles GET /api/checkout. Reaching the review step without complete
// shipping or payment info sends the wizard back a step.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	entry.Checkout.EnsureReviewable()
	handler.JSON(w, http.StatusOK, h.stateResponse(entry))
}

// Next handles POST /api/checkout/next
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	entry.Checkout.NextStep()
	handler.JSON(w, http.StatusOK, h.stateResponse(entry))
}

// Prev handles POST /api/checkout/prev
func (h *CheckoutHandler) Prev(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	entry.Checkout.PrevStep()
	handler.JSON(w, http.StatusOK, h.stateResponse(entry))
}

// Shipping handles POST /api/checkout/shipping
func (h *CheckoutHandler) Shipping(w http.ResponseWriter, r *http.Request) {
	var info domain.ShippingInfo
	if err := handler.Decode(r, &info); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	entry := h.entry(w, r)
	if err := entry.Checkout.SetShippingInfo(info); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, h.stateResponse(entry))
}

// Payment handles POST /api/checkout/payment
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var info domain.PaymentInfo
	if err := handler.Decode(r, &info); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	entry := h.entry(w, r)
	if err := entry.Checkout.SetPaymentInfo(info); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, h.stateResponse(entry))
}

// ShippingMethod handles POST /api/checkout/shipping-method
func (h *CheckoutHandler) ShippingMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	entry := h.entry(w, r)
	if err := entry.Checkout.SetShippingMethod(req.Method); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, h.stateResponse(entry))
}

// PlaceOrder handles POST /api/checkout/place-order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userSession := middleware.GetSessionFromContext(ctx)
	if userSession == nil {
		handler.ErrorResponse(w, r, domain.Unauthorized("checkout.place_order", "Authentication required"))
		return
	}

	var req struct {
		Card domain.CardDetails `json:"card"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	entry := h.entry(w, r)
	purchase, err := h.orchestrator.PlaceOrder(ctx, userSession.UserID, entry.Cart, entry.Checkout, req.Card)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, purchase)
}
