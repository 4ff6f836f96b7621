package storefront

import (
	"net/http"

	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
	"github.com/attire-shop/attire/internal/middleware"
)

// ReviewHandler handles review submission and listing
type ReviewHandler struct {
	reviews domain.ReviewStore
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews domain.ReviewStore) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create handles POST /api/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userSession := middleware.GetSessionFromContext(ctx)

	var input domain.ReviewInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	review, err := h.reviews.Create(ctx, userSession.UserID, input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, review)
}

// Update handles PUT /api/reviews/{productId}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userSession := middleware.GetSessionFromContext(ctx)

	productID, err := parseProductID(r.PathValue("productId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var input domain.ReviewInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	input.ProductID = productID

	review, err := h.reviews.Update(ctx, userSession.UserID, input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/{productId}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userSession := middleware.GetSessionFromContext(ctx)

	productID, err := parseProductID(r.PathValue("productId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.reviews.Delete(ctx, userSession.UserID, productID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForUser handles GET /api/account/reviews
func (h *ReviewHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userSession := middleware.GetSessionFromContext(ctx)

	reviews, err := h.reviews.ListForUser(ctx, userSession.UserID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
	})
}
