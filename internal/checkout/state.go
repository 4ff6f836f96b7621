// Package checkout implements the three-step checkout wizard and the
// order placement flow that drives it.
package checkout

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/attire-shop/attire/internal/domain"
)

// Wizard steps.
const (
	StepShipping = 1
	StepPayment  = 2
	StepReview   = 3
)

var validate = validator.New()

// State is the checkout wizard state for one session. The wizard advances
// linearly through shipping, payment and review. Mutations take an internal
// lock; a browser can fire overlapping requests against the same session,
// double-clicked submits included.
type State struct {
	CurrentStep    int                  `json:"currentStep"`
	ShippingInfo   *domain.ShippingInfo `json:"shippingInfo"`
	PaymentInfo    *domain.PaymentInfo  `json:"paymentInfo"`
	ShippingMethod string               `json:"shippingMethod"`
	IsProcessing   bool                 `json:"isProcessing"`

	mu sync.Mutex
}

// NewState returns the initial wizard state: step 1, no captured info,
// standard shipping.
func NewState() *State {
	return &State{
		CurrentStep:    StepShipping,
		ShippingMethod: domain.ShippingStandard,
	}
}

// NextStep advances the wizard, clamped at the review step.
func (s *State) NextStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CurrentStep < StepReview {
		s.CurrentStep++
	}
}

// PrevStep moves the wizard back, clamped at the shipping step.
func (s *State) PrevStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prevStep()
}

func (s *State) prevStep() {
	if s.CurrentStep > StepShipping {
		s.CurrentStep--
	}
}

// SetStep jumps to a step directly, clamped to the valid range.
func (s *State) SetStep(step int) {
	if step < StepShipping {
		step = StepShipping
	}
	if step > StepReview {
		step = StepReview
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CurrentStep = step
}

// SetShippingInfo validates and captures the shipping form. It does not
// advance the step; the caller does that after a successful capture.
func (s *State) SetShippingInfo(info domain.ShippingInfo) error {
	if err := validateStruct("checkout.set_shipping", info); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShippingInfo = &info
	return nil
}

// SetPaymentInfo validates and captures the payment form, including the
// rule that billing fields are required unless the billing address is the
// shipping address.
func (s *State) SetPaymentInfo(info domain.PaymentInfo) error {
	if err := ValidatePaymentInfo(info); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PaymentInfo = &info
	return nil
}

// SetShippingMethod selects one of the flat-rate shipping methods. It
// affects the order total only, never step transitions.
func (s *State) SetShippingMethod(method string) error {
	if _, ok := domain.ShippingCost(method); !ok {
		return domain.Errorf(domain.EINVALID, "checkout.set_shipping_method", "unknown shipping method: %s", method)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShippingMethod = method
	return nil
}

// SetProcessing flips the submission guard. While true, order submission
// is rejected.
func (s *State) SetProcessing(processing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IsProcessing = processing
}

// submission is a point-in-time copy of the captured wizard data. The order
// flow works from the copy, so a concurrent Reset cannot nil the pointers
// out from under it.
type submission struct {
	shipping domain.ShippingInfo
	payment  domain.PaymentInfo
	method   string
}

// beginSubmission checks the submission preconditions and takes the
// processing guard in one critical section. At most one caller per state can
// hold the guard; the losers of a double submit get ErrAlreadyProcessing.
func (s *State) beginSubmission() (*submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IsProcessing {
		return nil, ErrAlreadyProcessing
	}
	if s.CurrentStep != StepReview {
		return nil, ErrNotOnReviewStep
	}
	if s.ShippingInfo == nil {
		return nil, ErrMissingShipping
	}
	if s.PaymentInfo == nil {
		return nil, ErrMissingPayment
	}

	s.IsProcessing = true
	return &submission{
		shipping: *s.ShippingInfo,
		payment:  *s.PaymentInfo,
		method:   s.ShippingMethod,
	}, nil
}

// endSubmission releases the processing guard. A completed order resets the
// wizard for the next purchase before the guard drops; a failed one keeps
// the captured data so the shopper can retry from the review step.
func (s *State) endSubmission(completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if completed {
		s.reset()
		return
	}
	s.IsProcessing = false
}

// EnsureReviewable regresses the wizard from the review step when a
// required capture is missing. Returns true when the state changed.
// Reaching step 3 without both captures can happen after a reload or a
// cleared session; the review step must not render without them.
func (s *State) EnsureReviewable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CurrentStep != StepReview {
		return false
	}
	if s.ShippingInfo == nil || s.PaymentInfo == nil {
		s.prevStep()
		return true
	}
	return false
}

// Reset returns the wizard to its initial state. Called after a
// successfully placed order.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *State) reset() {
	s.CurrentStep = StepShipping
	s.ShippingInfo = nil
	s.PaymentInfo = nil
	s.ShippingMethod = domain.ShippingStandard
	s.IsProcessing = false
}

// ValidatePaymentInfo checks the payment form, including the cross-field
// billing address requirement.
func ValidatePaymentInfo(info domain.PaymentInfo) error {
	if err := validateStruct("checkout.set_payment", info); err != nil {
		return err
	}

	if !info.SameAsShipping {
		fields := map[string]string{}
		if info.BillingAddress == "" {
			fields["billingAddress"] = "Billing address is required"
		}
		if info.BillingCity == "" {
			fields["billingCity"] = "Billing city is required"
		}
		if info.BillingState == "" {
			fields["billingState"] = "Billing state is required"
		}
		if info.BillingZipCode == "" {
			fields["billingZipCode"] = "Billing ZIP code is required"
		}
		if info.BillingCountry == "" {
			fields["billingCountry"] = "Billing country is required"
		}
		if len(fields) > 0 {
			return &domain.ValidationError{Op: "checkout.set_payment", Fields: fields}
		}
	}
	return nil
}

// validateStruct converts validator tag failures into field-level domain
// validation errors.
func validateStruct(op string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Internal(err, op, "validation failed")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = fe.Field() + " is required"
		case "email":
			fields[fe.Field()] = "Email is invalid"
		case "min":
			fields[fe.Field()] = fe.Field() + " is too short"
		case "max":
			fields[fe.Field()] = fe.Field() + " is too long"
		default:
			fields[fe.Field()] = fe.Field() + " is invalid"
		}
	}
	return &domain.ValidationError{Op: op, Fields: fields}
}
