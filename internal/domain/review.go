package domain

import (
	"context"
	"time"
)

// Review domain errors.
var (
	ErrReviewExists   = &Error{Code: ECONFLICT, Message: "You have already reviewed this product"}
	ErrReviewNotFound = &Error{Code: ENOTFOUND, Message: "Review not found"}
)

// Review is one shopper's rating of a product. At most one review exists
// per (UserID, ProductID) pair, enforced by the store.
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewInput is the payload for creating or updating a review.
type ReviewInput struct {
	ProductID int64  `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// ReviewStore persists reviews and keeps the owning product's derived
// rating and review count in sync. Every mutation recomputes the aggregate
// atomically with the review write, so concurrent submissions for the same
// product serialize instead of losing updates.
type ReviewStore interface {
	Create(ctx context.Context, userID int64, input ReviewInput) (*Review, error)
	Update(ctx context.Context, userID int64, input ReviewInput) (*Review, error)
	Delete(ctx context.Context, userID, productID int64) error

	// ListForProduct returns a product's reviews, newest first.
	ListForProduct(ctx context.Context, productID int64) ([]Review, error)

	// ListForUser returns the user's reviews, newest first.
	ListForUser(ctx context.Context, userID int64) ([]Review, error)
}
