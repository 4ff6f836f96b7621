package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/attire-shop/attire/internal/middleware"
)

const (
	// cartCookieName identifies the visitor session that owns cart,
	// checkout, and filter state. Minted on first touch, independent of
	// authentication.
	cartCookieName = "attire_cart"

	cartCookieMaxAge = 30 * 24 * 60 * 60
	authCookieMaxAge = 30 * 24 * 60 * 60
)

// EnsureSessionID returns the visitor session ID from the cart cookie,
// minting and setting a new one when the cookie is missing.
func EnsureSessionID(w http.ResponseWriter, r *http.Request, secure bool) string {
	if cookie, err := r.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   cartCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}

// SetAuthCookie stores the signed session token.
func SetAuthCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the session token cookie.
func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
