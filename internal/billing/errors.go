package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAPIKey is returned when the gateway API key is invalid or missing.
	ErrInvalidAPIKey = errors.New("billing: invalid or missing API key")

	// ErrIntentNotFound is returned when the payment intent does not exist.
	ErrIntentNotFound = errors.New("billing: payment intent not found")

	// ErrPaymentFailed is returned when payment confirmation fails (card declined, etc.)
	ErrPaymentFailed = errors.New("billing: payment failed")

	// ErrInvalidClientSecret is returned when a client secret cannot be parsed.
	ErrInvalidClientSecret = errors.New("billing: invalid client secret")

	// ErrAmountTooSmall is returned when the amount is below the gateway minimum.
	ErrAmountTooSmall = errors.New("billing: amount too small (minimum $0.50 USD)")
)

// GatewayError wraps a gateway API error with additional context.
type GatewayError struct {
	Message       string // Human-readable error message
	Code          string // Gateway error code (e.g. "card_declined")
	DeclineCode   string // Card decline reason, if applicable
	OriginalError error  // Original error from the gateway SDK
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("billing: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("billing: %s", e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.OriginalError
}

// IsDeclined returns true if the error is due to a card decline.
func (e *GatewayError) IsDeclined() bool {
	return e.Code == "card_declined" || e.DeclineCode != ""
}
