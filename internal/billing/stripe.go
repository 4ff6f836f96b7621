package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/paymentmethod"
)

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	currency string
}

var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider configures the Stripe SDK with the given secret key.
func NewStripeProvider(apiKey string) (*StripeProvider, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	stripe.Key = apiKey

	return &StripeProvider{currency: string(stripe.CurrencyUSD)}, nil
}

// CreateIntent creates a Stripe Payment Intent for the amount, with
// automatic payment methods enabled as the storefront confirms with card
// details rather than a fixed payment method type.
func (p *StripeProvider) CreateIntent(ctx context.Context, amount float64) (*PaymentIntent, error) {
	amountCents := DollarsToCents(amount)
	if amountCents < 50 {
		return nil, ErrAmountTooSmall
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		CreatedAt:    time.Unix(pi.Created, 0),
	}, nil
}

// Confirm attaches the card to the intent and confirms it. Stripe client
// secrets embed the intent ID, so the secret alone identifies the intent.
func (p *StripeProvider) Confirm(ctx context.Context, clientSecret string, card Card) (*Confirmation, error) {
	intentID, err := intentIDFromClientSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	pmParams := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
	}
	pmParams.Context = ctx

	pm, err := paymentmethod.New(pmParams)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	confirmParams := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(pm.ID),
	}
	confirmParams.Context = ctx

	pi, err := paymentintent.Confirm(intentID, confirmParams)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, &GatewayError{
			Message:       fmt.Sprintf("payment not completed (status %s)", pi.Status),
			OriginalError: ErrPaymentFailed,
		}
	}

	return &Confirmation{
		PaymentReference: pi.ID,
		Status:           string(pi.Status),
	}, nil
}

// intentIDFromClientSecret extracts the pi_... identifier from a client
// secret of the form pi_XXX_secret_YYY.
func intentIDFromClientSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || !strings.HasPrefix(id, "pi_") {
		return "", ErrInvalidClientSecret
	}
	return id, nil
}

// wrapStripeError converts a Stripe SDK error into a GatewayError.
func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &GatewayError{
			Message:       stripeErr.Msg,
			Code:          string(stripeErr.Code),
			DeclineCode:   string(stripeErr.DeclineCode),
			OriginalError: err,
		}
	}
	return &GatewayError{
		Message:       err.Error(),
		OriginalError: err,
	}
}
