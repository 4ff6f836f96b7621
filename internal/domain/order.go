package domain

import (
	"context"
	"time"
)

// Purchase statuses. Orders placed through checkout are created directly
// as completed, after the gateway confirms payment.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Purchase is a completed order with its line-item snapshot. Items, the
// address snapshots and the purchase row are created in one transaction.
type Purchase struct {
	ID              string         `json:"id"`
	UserID          int64          `json:"userId"`
	Items           []PurchaseItem `json:"items"`
	ShippingAddress Address        `json:"shippingAddress"`
	BillingAddress  Address        `json:"billingAddress"`
	ShippingMethod  string         `json:"shippingMethod"`
	Total           float64        `json:"total"`
	PaymentIntentID string         `json:"paymentIntentId"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// PurchaseItem is a cart line frozen at purchase time.
type PurchaseItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// CreatePurchaseParams carries everything needed to persist an order.
type CreatePurchaseParams struct {
	UserID          int64
	Items           []PurchaseItem
	ShippingAddress Address
	BillingAddress  Address
	ShippingMethod  string
	Total           float64
	PaymentIntentID string
	Status          string
}

// OrderStore persists purchases.
type OrderStore interface {
	Create(ctx context.Context, params CreatePurchaseParams) (*Purchase, error)

	// ListForUser returns the user's purchases, newest first.
	ListForUser(ctx context.Context, userID int64) ([]Purchase, error)

	// UpdateStatus moves a purchase to a new status.
	UpdateStatus(ctx context.Context, purchaseID, status string) error
}
