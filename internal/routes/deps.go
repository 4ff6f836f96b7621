package routes

import (
	"net/http"

	"github.com/attire-shop/attire/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for the storefront API routes
type StorefrontDeps struct {
	// Catalog browsing
	ProductHandler *storefront.ProductHandler

	// Session filter panel
	FilterHandler *storefront.FilterHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout wizard
	CheckoutHandler *storefront.CheckoutHandler

	// Reviews
	ReviewHandler *storefront.ReviewHandler

	// Auth (register, login, logout)
	AuthHandler *storefront.AuthHandler

	// Account order history
	OrderHandler *storefront.OrderHandler

	// Operational endpoints
	MetricsHandler http.Handler
}
