// Package auth implements registration, login and session tokens.
package auth

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/attire-shop/attire/internal/domain"
)

var validate = validator.New()

// Service handles account registration and credential checks.
type Service struct {
	users  domain.UserStore
	tokens *TokenManager
}

// NewService creates an auth service.
func NewService(users domain.UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register validates the input, hashes the password and creates the
// account. Registration with an existing email or username fails with a
// conflict and changes nothing.
func (s *Service) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				switch {
				case fe.Field() == "Username":
					fields["username"] = "Username must be at least 3 characters"
				case fe.Field() == "Email":
					fields["email"] = "Please enter a valid email address"
				case fe.Field() == "Password":
					fields["password"] = "Password must be at least 6 characters"
				}
			}
			return nil, &domain.ValidationError{Op: "user.register", Fields: fields}
		}
		return nil, domain.Internal(err, "user.register", "validation failed")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooShort) {
			return nil, domain.NewValidationError("user.register", "password", "Password must be at least 6 characters")
		}
		return nil, domain.Internal(err, "user.register", "failed to hash password")
	}

	user, err := s.users.Create(ctx, input.Username, input.Email, hash)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the identifier (email or username) and password and issues
// a session token. Unknown users and wrong passwords fail identically so
// the response does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, string, error) {
	if identifier == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.Internal(err, "auth.login", "failed to verify password")
	}

	session := Session{UserID: user.ID, Username: user.Username, Email: user.Email}
	token, err := s.tokens.Issue(session)
	if err != nil {
		return nil, "", domain.Internal(err, "auth.login", "failed to issue session token")
	}

	return &session, token, nil
}
