package checkout_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attire-shop/attire/internal/billing"
	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/checkout"
	"github.com/attire-shop/attire/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// mockOrderStore implements domain.OrderStore for testing
type mockOrderStore struct {
	createFunc  func(ctx context.Context, params domain.CreatePurchaseParams) (*domain.Purchase, error)
	createCalls int
	lastParams  domain.CreatePurchaseParams
}

func (m *mockOrderStore) Create(ctx context.Context, params domain.CreatePurchaseParams) (*domain.Purchase, error) {
	m.createCalls++
	m.lastParams = params
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &domain.Purchase{
		ID:              "purchase-1",
		UserID:          params.UserID,
		Items:           params.Items,
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  params.BillingAddress,
		ShippingMethod:  params.ShippingMethod,
		Total:           params.Total,
		PaymentIntentID: params.PaymentIntentID,
		Status:          params.Status,
	}, nil
}

func (m *mockOrderStore) ListForUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	return nil, nil
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, purchaseID, status string) error {
	return nil
}

func validCard() domain.CardDetails {
	return domain.CardDetails{
		Number:   "4242424242424242",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "123",
	}
}

func readyState(t *testing.T) *checkout.State {
	t.Helper()
	s := checkout.NewState()
	require.NoError(t, s.SetShippingInfo(validShipping()))
	require.NoError(t, s.SetPaymentInfo(validPayment()))
	s.SetStep(checkout.StepReview)
	return s
}

func loadedCart(t *testing.T) *cart.Store {
	t.Helper()
	c := cart.NewStore(context.Background(), "session-1", cart.NewMemoryRepository(), testLogger)
	c.AddItem(context.Background(), domain.Product{ID: 5, Name: "Sport Running Shoes", Price: 129.99}, "9", "Black")
	c.AddItem(context.Background(), domain.Product{ID: 5, Name: "Sport Running Shoes", Price: 129.99}, "9", "Black")
	return c
}

func TestOrderTotal(t *testing.T) {
	c := loadedCart(t)

	total, err := checkout.OrderTotal(c, domain.ShippingStandard)
	require.NoError(t, err)
	assert.InDelta(t, 2*129.99+5.99, total, 0.001)

	total, err = checkout.OrderTotal(c, domain.ShippingOvernight)
	require.NoError(t, err)
	assert.InDelta(t, 2*129.99+29.99, total, 0.001)

	_, err = checkout.OrderTotal(c, "drone")
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{}
	orders := &mockOrderStore{}
	o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

	c := loadedCart(t)
	state := readyState(t)

	purchase, err := o.PlaceOrder(ctx, 42, c, state, validCard())
	require.NoError(t, err)
	require.NotNil(t, purchase)

	assert.Equal(t, int64(42), purchase.UserID)
	assert.Equal(t, domain.OrderCompleted, purchase.Status)
	assert.InDelta(t, 2*129.99+5.99, purchase.Total, 0.001)
	assert.Equal(t, "pi_mock_1", purchase.PaymentIntentID)

	require.Len(t, orders.lastParams.Items, 1)
	assert.Equal(t, 2, orders.lastParams.Items[0].Quantity)
	assert.Equal(t, "Ada", orders.lastParams.ShippingAddress.FirstName)
	assert.Equal(t, "Ada", orders.lastParams.BillingAddress.FirstName, "sameAsShipping copies the shipping address")

	assert.Equal(t, 1, provider.CreateCalls)
	assert.Equal(t, 1, provider.ConfirmCalls)
	assert.InDelta(t, 2*129.99+5.99, provider.LastAmount, 0.001)

	// Wizard resets after a successful order
	assert.Equal(t, checkout.StepShipping, state.CurrentStep)
	assert.Nil(t, state.ShippingInfo)
	assert.False(t, state.IsProcessing)

	// The cart is not cleared here; that is the caller's choice
	assert.False(t, c.IsEmpty())
}

func TestPlaceOrder_GuardsRejectWithoutGatewayCall(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(t *testing.T) (*cart.Store, *checkout.State)
		wantErr error
	}{
		{
			name: "already processing",
			setup: func(t *testing.T) (*cart.Store, *checkout.State) {
				s := readyState(t)
				s.SetProcessing(true)
				return loadedCart(t), s
			},
			wantErr: checkout.ErrAlreadyProcessing,
		},
		{
			name: "not on review step",
			setup: func(t *testing.T) (*cart.Store, *checkout.State) {
				s := readyState(t)
				s.SetStep(checkout.StepPayment)
				return loadedCart(t), s
			},
			wantErr: checkout.ErrNotOnReviewStep,
		},
		{
			name: "missing shipping info",
			setup: func(t *testing.T) (*cart.Store, *checkout.State) {
				s := checkout.NewState()
				require.NoError(t, s.SetPaymentInfo(validPayment()))
				s.SetStep(checkout.StepReview)
				return loadedCart(t), s
			},
			wantErr: checkout.ErrMissingShipping,
		},
		{
			name: "missing payment info",
			setup: func(t *testing.T) (*cart.Store, *checkout.State) {
				s := checkout.NewState()
				require.NoError(t, s.SetShippingInfo(validShipping()))
				s.SetStep(checkout.StepReview)
				return loadedCart(t), s
			},
			wantErr: checkout.ErrMissingPayment,
		},
		{
			name: "empty cart",
			setup: func(t *testing.T) (*cart.Store, *checkout.State) {
				c := cart.NewStore(ctx, "empty", cart.NewMemoryRepository(), testLogger)
				return c, readyState(t)
			},
			wantErr: checkout.ErrCartEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &billing.MockProvider{}
			orders := &mockOrderStore{}
			o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

			c, state := tt.setup(t)

			_, err := o.PlaceOrder(ctx, 42, c, state, validCard())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, provider.CreateCalls, "guard failures must not reach the gateway")
			assert.Zero(t, orders.createCalls)
		})
	}
}

func TestPlaceOrder_InvalidCard(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{}
	o := checkout.NewOrchestrator(provider, &mockOrderStore{}, 0, testLogger)

	card := validCard()
	card.Number = ""
	card.CVC = "9"

	_, err := o.PlaceOrder(ctx, 42, loadedCart(t), readyState(t), card)
	require.Error(t, err)

	fields := domain.GetValidationFields(err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "Number")
	assert.Contains(t, fields, "CVC")
	assert.Zero(t, provider.CreateCalls)
}

func TestPlaceOrder_CreateIntentFails(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{FailCreate: errors.New("gateway down")}
	orders := &mockOrderStore{}
	o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

	state := readyState(t)
	_, err := o.PlaceOrder(ctx, 42, loadedCart(t), state, validCard())

	assert.True(t, domain.IsCode(err, domain.EPAYMENT))
	assert.Zero(t, orders.createCalls, "no order is persisted on gateway failure")
	assert.Equal(t, checkout.StepReview, state.CurrentStep, "failure keeps the wizard on review")
	assert.False(t, state.IsProcessing, "processing flag cleared on failure")
}

func TestPlaceOrder_DeclinedCard(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{
		FailConfirm: &billing.GatewayError{Message: "card declined", Code: "card_declined", DeclineCode: "generic_decline"},
	}
	orders := &mockOrderStore{}
	o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

	state := readyState(t)
	_, err := o.PlaceOrder(ctx, 42, loadedCart(t), state, validCard())

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EPAYMENT))
	assert.Equal(t, "Your card was declined.", domain.ErrorMessage(err))
	assert.Zero(t, orders.createCalls)
	assert.Equal(t, checkout.StepReview, state.CurrentStep)
}

func TestPlaceOrder_TimeoutIsRecoverable(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{FailCreate: context.DeadlineExceeded}
	o := checkout.NewOrchestrator(provider, &mockOrderStore{}, 0, testLogger)

	state := readyState(t)
	_, err := o.PlaceOrder(ctx, 42, loadedCart(t), state, validCard())

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EPAYMENT))
	assert.Equal(t, "Payment service timed out. Please try again.", domain.ErrorMessage(err))
	assert.Equal(t, checkout.StepReview, state.CurrentStep)
	assert.False(t, state.IsProcessing)
}

func TestPlaceOrder_PersistFailureAfterPayment(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{}
	orders := &mockOrderStore{
		createFunc: func(ctx context.Context, params domain.CreatePurchaseParams) (*domain.Purchase, error) {
			return nil, errors.New("connection reset")
		},
	}
	o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

	state := readyState(t)
	_, err := o.PlaceOrder(ctx, 42, loadedCart(t), state, validCard())

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EINTERNAL))
	assert.Equal(t, 1, provider.ConfirmCalls, "payment already went through")
	assert.Equal(t, checkout.StepReview, state.CurrentStep, "state is not reset on persistence failure")
}

// blockingProvider parks the first gateway call until released, holding a
// submission in flight so a second one can be fired against the same state.
type blockingProvider struct {
	billing.MockProvider
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) CreateIntent(ctx context.Context, amount float64) (*billing.PaymentIntent, error) {
	close(p.entered)
	<-p.release
	return p.MockProvider.CreateIntent(ctx, amount)
}

func TestPlaceOrder_DoubleSubmitChargesOnce(t *testing.T) {
	ctx := context.Background()
	provider := &blockingProvider{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	orders := &mockOrderStore{}
	o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

	c := loadedCart(t)
	state := readyState(t)

	firstDone := make(chan error, 1)
	go func() {
		_, err := o.PlaceOrder(ctx, 42, c, state, validCard())
		firstDone <- err
	}()

	// Wait until the first submission holds the guard at the gateway, then
	// fire the duplicate click.
	<-provider.entered
	_, err := o.PlaceOrder(ctx, 42, c, state, validCard())
	assert.ErrorIs(t, err, checkout.ErrAlreadyProcessing)

	close(provider.release)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, provider.CreateCalls, "only one submission reaches the gateway")
	assert.Equal(t, 1, provider.ConfirmCalls)
	assert.Equal(t, 1, orders.createCalls)
	assert.Equal(t, checkout.StepShipping, state.CurrentStep)
	assert.False(t, state.IsProcessing)
}

func TestPlaceOrder_SeparateBillingAddressSnapshot(t *testing.T) {
	ctx := context.Background()
	provider := &billing.MockProvider{}
	orders := &mockOrderStore{}
	o := checkout.NewOrchestrator(provider, orders, 0, testLogger)

	state := checkout.NewState()
	require.NoError(t, state.SetShippingInfo(validShipping()))
	require.NoError(t, state.SetPaymentInfo(domain.PaymentInfo{
		CardholderName: "Grace Brewster Hopper",
		SameAsShipping: false,
		BillingAddress: "1 Billing Road",
		BillingCity:    "Arlington",
		BillingState:   "VA",
		BillingZipCode: "22207",
		BillingCountry: "USA",
	}))
	state.SetStep(checkout.StepReview)

	_, err := o.PlaceOrder(ctx, 42, loadedCart(t), state, validCard())
	require.NoError(t, err)

	billing := orders.lastParams.BillingAddress
	assert.Equal(t, "Grace Brewster", billing.FirstName)
	assert.Equal(t, "Hopper", billing.LastName)
	assert.Equal(t, "1 Billing Road", billing.Address)
	assert.Equal(t, "Arlington", billing.City)
}
