package billing

import (
	"context"
	"fmt"
	"time"
)

// MockProvider implements Provider for tests and local development without
// gateway credentials. Behavior is controlled through the Fail* fields.
type MockProvider struct {
	// FailCreate makes CreateIntent return an error.
	FailCreate error

	// FailConfirm makes Confirm return an error.
	FailConfirm error

	// CreateCalls counts CreateIntent invocations.
	CreateCalls int

	// ConfirmCalls counts Confirm invocations.
	ConfirmCalls int

	// LastAmount records the amount passed to the latest CreateIntent.
	LastAmount float64

	// LastCard records the card passed to the latest Confirm.
	LastCard Card
}

var _ Provider = (*MockProvider)(nil)

// CreateIntent returns a deterministic fake intent.
func (m *MockProvider) CreateIntent(ctx context.Context, amount float64) (*PaymentIntent, error) {
	m.CreateCalls++
	m.LastAmount = amount

	if m.FailCreate != nil {
		return nil, m.FailCreate
	}

	id := fmt.Sprintf("pi_mock_%d", m.CreateCalls)
	return &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_mock",
		AmountCents:  DollarsToCents(amount),
		Currency:     "usd",
		CreatedAt:    time.Now(),
	}, nil
}

// Confirm succeeds with a reference derived from the client secret.
func (m *MockProvider) Confirm(ctx context.Context, clientSecret string, card Card) (*Confirmation, error) {
	m.ConfirmCalls++
	m.LastCard = card

	if m.FailConfirm != nil {
		return nil, m.FailConfirm
	}

	id, err := intentIDFromClientSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	return &Confirmation{PaymentReference: id, Status: "succeeded"}, nil
}
