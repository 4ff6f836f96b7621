// Package billing abstracts the payment gateway used at checkout.
package billing

import (
	"context"
	"time"
)

// Provider defines the interface for payment processing.
// Implementations can use Stripe, PayPal, Square, etc.
type Provider interface {
	// CreateIntent creates a payment intent for the given amount in
	// dollars. Returns the intent with a client secret used to confirm
	// the payment.
	CreateIntent(ctx context.Context, amount float64) (*PaymentIntent, error)

	// Confirm confirms the intent identified by clientSecret using the
	// captured card details. On success the result carries the gateway's
	// payment reference, stored with the order for reconciliation.
	Confirm(ctx context.Context, clientSecret string, card Card) (*Confirmation, error)
}

// PaymentIntent is a gateway intent awaiting confirmation.
type PaymentIntent struct {
	// ID is the gateway intent identifier (pi_... for Stripe).
	ID string

	// ClientSecret is required to confirm the payment.
	ClientSecret string

	// AmountCents is the amount in the smallest currency unit.
	AmountCents int64

	// Currency code (ISO 4217 lowercase), e.g. "usd".
	Currency string

	// CreatedAt is when the intent was created.
	CreatedAt time.Time
}

// Card holds the raw card fields captured at confirmation time. They are
// forwarded to the gateway and never persisted.
type Card struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// Confirmation is the outcome of a successful payment confirmation.
type Confirmation struct {
	// PaymentReference is the gateway's opaque identifier for the
	// confirmed payment.
	PaymentReference string

	// Status is the gateway's final intent status.
	Status string
}

// DollarsToCents converts a dollar amount to integer cents, rounding to
// the nearest cent.
func DollarsToCents(amount float64) int64 {
	if amount < 0 {
		return -DollarsToCents(-amount)
	}
	return int64(amount*100 + 0.5)
}
