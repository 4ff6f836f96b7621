package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/attire-shop/attire/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	db DB
}

var _ domain.UserStore = (*UserStore)(nil)

// NewUserStore creates a PostgreSQL-backed user store.
func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Duplicate email or username is a conflict;
// the unique constraints on both columns enforce it.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at`,
		username, email, passwordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateUser
		}
		return nil, domain.Internal(err, "user.create", "failed to create user")
	}
	return &user, nil
}

// FindByIdentifier looks a user up by email or username.
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1 OR username = $1`,
		identifier,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.find", "user", identifier)
		}
		return nil, domain.Internal(err, "user.find", "failed to find user")
	}
	return &user, nil
}
