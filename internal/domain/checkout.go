package domain

import "strings"

// Shipping methods offered at checkout.
const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"
)

// Flat shipping cost per method, in dollars.
var shippingCosts = map[string]float64{
	ShippingStandard:  5.99,
	ShippingExpress:   15.99,
	ShippingOvernight: 29.99,
}

// ShippingCost returns the flat cost for a method and whether the method
// is known.
func ShippingCost(method string) (float64, bool) {
	cost, ok := shippingCosts[method]
	return cost, ok
}

// ShippingInfo is the validated output of the checkout shipping form.
type ShippingInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Apartment string `json:"apartment"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// PaymentInfo is the validated output of the checkout payment form.
// When SameAsShipping is false the billing fields are required; that
// cross-field rule is enforced by checkout.ValidatePaymentInfo.
type PaymentInfo struct {
	CardholderName string `json:"cardholderName" validate:"required"`
	SameAsShipping bool   `json:"sameAsShipping"`
	BillingAddress string `json:"billingAddress"`
	BillingCity    string `json:"billingCity"`
	BillingState   string `json:"billingState"`
	BillingZipCode string `json:"billingZipCode"`
	BillingCountry string `json:"billingCountry"`
}

// CardDetails are the raw card fields captured at confirmation time.
// They are passed straight to the payment gateway and never stored.
type CardDetails struct {
	Number   string `json:"number" validate:"required,min=12"`
	ExpMonth int64  `json:"expMonth" validate:"required,min=1,max=12"`
	ExpYear  int64  `json:"expYear" validate:"required"`
	CVC      string `json:"cvc" validate:"required,min=3"`
}

// Address is the snapshot stored on a purchase for both the shipping and
// billing sides.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// ShippingAddress builds the order's shipping snapshot.
func (s ShippingInfo) ShippingAddress() Address {
	return Address{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Apartment: s.Apartment,
		City:      s.City,
		State:     s.State,
		ZipCode:   s.ZipCode,
		Country:   s.Country,
	}
}

// BillingSnapshot builds the order's billing snapshot. When the payment info
// says the billing address equals the shipping one, the shipping fields are
// copied; otherwise the billing fields are used with the cardholder name
// split into first and last name.
func (p PaymentInfo) BillingSnapshot(shipping ShippingInfo) Address {
	if p.SameAsShipping {
		return Address{
			FirstName: shipping.FirstName,
			LastName:  shipping.LastName,
			Address:   shipping.Address,
			Apartment: shipping.Apartment,
			City:      shipping.City,
			State:     shipping.State,
			ZipCode:   shipping.ZipCode,
			Country:   shipping.Country,
		}
	}

	first, last := splitName(p.CardholderName)
	return Address{
		FirstName: first,
		LastName:  last,
		Address:   p.BillingAddress,
		City:      p.BillingCity,
		State:     p.BillingState,
		ZipCode:   p.BillingZipCode,
		Country:   p.BillingCountry,
	}
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}
