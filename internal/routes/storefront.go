package routes

import (
	"net/http"

	"github.com/attire-shop/attire/internal/middleware"
	"github.com/attire-shop/attire/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
// Catalog browsing and the session filter panel are public; everything that
// mutates a cart, checkout, review or account requires authentication.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Product browsing
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/facets", deps.ProductHandler.Facets)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)
	r.Get("/api/products/{id}/reviews", deps.ProductHandler.Reviews)

	// Filter panel state
	r.Get("/api/filters", deps.FilterHandler.Get)
	r.Post("/api/filters/search", deps.FilterHandler.Search)
	r.Post("/api/filters/category", deps.FilterHandler.Category)
	r.Post("/api/filters/gender", deps.FilterHandler.Gender)
	r.Post("/api/filters/size", deps.FilterHandler.Size)
	r.Post("/api/filters/price", deps.FilterHandler.Price)
	r.Post("/api/filters/sort", deps.FilterHandler.Sort)
	r.Post("/api/filters/panel", deps.FilterHandler.Panel)
	r.Post("/api/filters/clear", deps.FilterHandler.Clear)

	// Authentication
	r.Post("/api/register", deps.AuthHandler.Register)
	r.Post("/api/login", deps.AuthHandler.Login)
	r.Post("/api/logout", deps.AuthHandler.Logout)

	// Authenticated routes
	authed := r.Group(middleware.RequireAuth)

	// Shopping cart
	authed.Get("/api/cart", deps.CartHandler.View)
	authed.Post("/api/cart", deps.CartHandler.Add)
	authed.Put("/api/cart", deps.CartHandler.Update)
	authed.Delete("/api/cart", deps.CartHandler.Remove)
	authed.Post("/api/cart/clear", deps.CartHandler.Clear)

	// Checkout flow
	authed.Get("/api/checkout", deps.CheckoutHandler.Get)
	authed.Post("/api/checkout/next", deps.CheckoutHandler.Next)
	authed.Post("/api/checkout/prev", deps.CheckoutHandler.Prev)
	authed.Post("/api/checkout/shipping", deps.CheckoutHandler.Shipping)
	authed.Post("/api/checkout/payment", deps.CheckoutHandler.Payment)
	authed.Post("/api/checkout/shipping-method", deps.CheckoutHandler.ShippingMethod)
	authed.Post("/api/checkout/place-order", deps.CheckoutHandler.PlaceOrder)

	// Reviews
	authed.Post("/api/reviews", deps.ReviewHandler.Create)
	authed.Put("/api/reviews/{productId}", deps.ReviewHandler.Update)
	authed.Delete("/api/reviews/{productId}", deps.ReviewHandler.Delete)
	authed.Get("/api/account/reviews", deps.ReviewHandler.ListForUser)

	// Account
	authed.Get("/api/account/orders", deps.OrderHandler.ListForUser)

	// Operational endpoints
	r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}
