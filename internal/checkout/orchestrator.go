package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/attire-shop/attire/internal/billing"
	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/domain"
)

// Orchestrator-level errors.
var (
	ErrCartEmpty         = domain.Errorf(domain.EINVALID, "checkout.place_order", "Cart is empty")
	ErrNotOnReviewStep   = domain.Errorf(domain.EINVALID, "checkout.place_order", "Checkout is not on the review step")
	ErrMissingShipping   = domain.Errorf(domain.EINVALID, "checkout.place_order", "Shipping information is missing")
	ErrMissingPayment    = domain.Errorf(domain.EINVALID, "checkout.place_order", "Payment information is missing")
	ErrAlreadyProcessing = domain.Errorf(domain.ECONFLICT, "checkout.place_order", "An order submission is already in progress")
)

// DefaultPaymentTimeout bounds each gateway round trip when no timeout is
// configured.
const DefaultPaymentTimeout = 30 * time.Second

// Orchestrator coordinates the cart, the wizard state and the payment
// gateway to place an order.
type Orchestrator struct {
	provider       billing.Provider
	orders         domain.OrderStore
	paymentTimeout time.Duration
	logger         *slog.Logger
}

// NewOrchestrator creates a checkout orchestrator. A zero paymentTimeout
// falls back to DefaultPaymentTimeout.
func NewOrchestrator(provider billing.Provider, orders domain.OrderStore, paymentTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	if paymentTimeout <= 0 {
		paymentTimeout = DefaultPaymentTimeout
	}
	return &Orchestrator{
		provider:       provider,
		orders:         orders,
		paymentTimeout: paymentTimeout,
		logger:         logger,
	}
}

// OrderTotal returns the cart subtotal plus the flat shipping cost for the
// selected method.
func OrderTotal(cartStore *cart.Store, shippingMethod string) (float64, error) {
	cost, ok := domain.ShippingCost(shippingMethod)
	if !ok {
		return 0, domain.Errorf(domain.EINVALID, "checkout.total", "unknown shipping method: %s", shippingMethod)
	}
	return cartStore.Total() + cost, nil
}

// PlaceOrder runs the terminal checkout sequence: compute the total,
// create a payment intent, confirm it with the captured card, and persist
// the purchase with address snapshots. Only reachable from the review step
// with shipping and payment info captured and a non-empty cart.
//
// The processing guard is taken atomically before any other work, so of two
// overlapping submissions exactly one reaches the gateway. The guard is
// released on every exit, success or failure. Any failure aborts the
// sequence with a user-visible error and leaves the wizard state unchanged;
// no partial order is persisted. A created-but-unconfirmed intent is left to
// expire gateway-side.
func (o *Orchestrator) PlaceOrder(ctx context.Context, userID int64, cartStore *cart.Store, state *State, card domain.CardDetails) (*domain.Purchase, error) {
	sub, err := state.beginSubmission()
	if err != nil {
		return nil, err
	}
	completed := false
	defer func() { state.endSubmission(completed) }()

	if cartStore.IsEmpty() {
		return nil, ErrCartEmpty
	}
	if err := validateStruct("checkout.place_order", card); err != nil {
		return nil, err
	}

	total, err := OrderTotal(cartStore, sub.method)
	if err != nil {
		return nil, err
	}

	intent, err := o.createIntent(ctx, total)
	if err != nil {
		return nil, err
	}

	confirmation, err := o.confirm(ctx, intent.ClientSecret, card)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PurchaseItem, 0, len(cartStore.Items()))
	for _, line := range cartStore.Items() {
		items = append(items, domain.PurchaseItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		})
	}

	purchase, err := o.orders.Create(ctx, domain.CreatePurchaseParams{
		UserID:          userID,
		Items:           items,
		ShippingAddress: sub.shipping.ShippingAddress(),
		BillingAddress:  sub.payment.BillingSnapshot(sub.shipping),
		ShippingMethod:  sub.method,
		Total:           total,
		PaymentIntentID: confirmation.PaymentReference,
		Status:          domain.OrderCompleted,
	})
	if err != nil {
		// Payment went through but the order did not persist; surface the
		// payment reference in the log for manual reconciliation.
		o.logger.Error("order persistence failed after confirmed payment",
			slog.String("payment_reference", confirmation.PaymentReference),
			slog.Int64("user_id", userID),
			slog.Any("error", err))
		return nil, domain.Internal(err, "checkout.place_order", "failed to save order")
	}

	o.logger.Info("order placed",
		slog.String("purchase_id", purchase.ID),
		slog.Int64("user_id", userID),
		slog.Float64("total", total),
		slog.String("payment_reference", confirmation.PaymentReference))

	completed = true

	return purchase, nil
}

func (o *Orchestrator) createIntent(ctx context.Context, total float64) (*billing.PaymentIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, o.paymentTimeout)
	defer cancel()

	intent, err := o.provider.CreateIntent(ctx, total)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.Payment(err, "checkout.place_order", "Payment service timed out. Please try again.")
		}
		return nil, domain.Payment(err, "checkout.place_order", "We cannot process your payment right now.")
	}
	if intent.ClientSecret == "" {
		return nil, domain.Payment(nil, "checkout.place_order", "We cannot process your payment right now.")
	}
	return intent, nil
}

func (o *Orchestrator) confirm(ctx context.Context, clientSecret string, card domain.CardDetails) (*billing.Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, o.paymentTimeout)
	defer cancel()

	confirmation, err := o.provider.Confirm(ctx, clientSecret, billing.Card{
		Number:   card.Number,
		ExpMonth: card.ExpMonth,
		ExpYear:  card.ExpYear,
		CVC:      card.CVC,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.Payment(err, "checkout.place_order", "Payment service timed out. Please try again.")
		}
		var gwErr *billing.GatewayError
		if errors.As(err, &gwErr) && gwErr.IsDeclined() {
			return nil, domain.Payment(err, "checkout.place_order", "Your card was declined.")
		}
		return nil, domain.Payment(err, "checkout.place_order", "Payment could not be confirmed.")
	}
	return confirmation, nil
}
