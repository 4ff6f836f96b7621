package domain

import (
	"context"
	"time"
)

// User domain errors.
var (
	ErrDuplicateUser      = &Error{Code: ECONFLICT, Message: "User with this email or username already exists"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email/username or password"}
)

// User is a registered shopper. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)

	// FindByIdentifier looks a user up by email or username.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
}
