// Package cart implements the per-session shopping cart store.
//
// A Store is owned by exactly one client session; its mutations are
// synchronous and never overlap. Every mutation writes the full line list
// through the repository so the cart survives restarts, but a failed write
// is logged and swallowed rather than surfaced to the shopper.
package cart

import (
	"context"
	"log/slog"

	"github.com/attire-shop/attire/internal/domain"
)

// Store holds one session's cart lines.
type Store struct {
	sessionID string
	items     []domain.CartItem
	repo      domain.CartRepository
	logger    *slog.Logger
}

// NewStore rehydrates the session's cart from the repository. A missing or
// corrupt persisted value yields an empty cart, never an error.
func NewStore(ctx context.Context, sessionID string, repo domain.CartRepository, logger *slog.Logger) *Store {
	items, err := repo.Load(ctx, sessionID)
	if err != nil {
		logger.Warn("failed to load persisted cart, starting empty",
			slog.String("session_id", sessionID), slog.Any("error", err))
		items = nil
	}

	return &Store{
		sessionID: sessionID,
		items:     items,
		repo:      repo,
		logger:    logger,
	}
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem adds one unit of the product in the given size and color.
// If a line with the same (product, size, color) identity already exists its
// quantity is incremented; otherwise a new line with quantity 1 is appended,
// copying name, prices and images from the product.
func (s *Store) AddItem(ctx context.Context, product domain.Product, size, color string) {
	for i := range s.items {
		if s.items[i].Is(product.ID, size, color) {
			s.items[i].Quantity++
			s.persist(ctx)
			return
		}
	}

	s.items = append(s.items, domain.CartItem{
		ProductID:     product.ID,
		Name:          product.Name,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Images:        product.Images,
		Size:          size,
		Color:         color,
		Quantity:      1,
	})
	s.persist(ctx)
}

// RemoveItem deletes the line matching the identity tuple. Removing an
// absent line is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int64, size, color string) {
	for i := range s.items {
		if s.items[i].Is(productID, size, color) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the quantity on the matching line. Quantity 0 removes
// the line. Negative quantities are rejected; no upper bound is enforced
// here (stock limits are a concern of the browsing layer).
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, size, color string, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	if quantity == 0 {
		s.RemoveItem(ctx, productID, size, color)
		return nil
	}

	for i := range s.items {
		if s.items[i].Is(productID, size, color) {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return nil
		}
	}
	return nil
}

// ClearCart empties the cart and removes the persisted value.
func (s *Store) ClearCart(ctx context.Context) {
	s.items = nil
	if err := s.repo.Clear(ctx, s.sessionID); err != nil {
		s.logger.Warn("failed to clear persisted cart",
			slog.String("session_id", s.sessionID), slog.Any("error", err))
	}
}

// Total returns the sum of price times quantity over all lines.
func (s *Store) Total() float64 {
	var total float64
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemsCount returns the sum of quantities over all lines.
func (s *Store) ItemsCount() int {
	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.sessionID, s.items); err != nil {
		s.logger.Warn("failed to persist cart",
			slog.String("session_id", s.sessionID), slog.Any("error", err))
	}
}
