// Package session tracks per-visitor storefront state. Each browser session
// owns a cart, a checkout flow, and a set of catalog filters, keyed by the
// session cookie. Carts survive restarts through the cart repository; checkout
// and filter state are in-memory only.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/checkout"
	"github.com/attire-shop/attire/internal/domain"
)

// Entry holds the state owned by a single visitor session.
type Entry struct {
	Cart     *cart.Store
	Checkout *checkout.State
	Filters  *domain.FilterState
}

// Registry maps session IDs to their state, creating entries on first access.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	repo    domain.CartRepository
	logger  *slog.Logger
}

// NewRegistry creates a session registry backed by the given cart repository.
func NewRegistry(repo domain.CartRepository, logger *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		repo:    repo,
		logger:  logger,
	}
}

// Get returns the state for sessionID, creating and rehydrating it on first
// access. The cart is loaded from the repository so a returning visitor sees
// the items they left behind.
func (r *Registry) Get(ctx context.Context, sessionID string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[sessionID]; ok {
		return entry
	}

	entry := &Entry{
		Cart:     cart.NewStore(ctx, sessionID, r.repo, r.logger),
		Checkout: checkout.NewState(),
		Filters:  domain.NewFilterState(),
	}
	r.entries[sessionID] = entry
	return entry
}

// Drop removes the in-memory state for sessionID. Persisted cart data is
// left untouched.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}
