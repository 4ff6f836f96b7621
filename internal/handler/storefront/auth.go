package storefront

import (
	"net/http"

	"github.com/attire-shop/attire/internal/auth"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	auth   *auth.Service
	secure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, secure bool) *AuthHandler {
	return &AuthHandler{auth: authService, secure: secure}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input domain.RegisterInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.auth.Register(ctx, input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	session, token, err := h.auth.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	SetAuthCookie(w, token, h.secure)
	handler.JSON(w, http.StatusOK, session)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w, h.secure)
	w.WriteHeader(http.StatusNoContent)
}
