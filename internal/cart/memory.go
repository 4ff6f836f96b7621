package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/attire-shop/attire/internal/domain"
)

// MemoryRepository keeps serialized carts in process memory. Used in tests
// and when no Redis address is configured.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ domain.CartRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory cart repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

// Load returns the stored lines, or an empty cart when nothing is stored
// or the stored value does not parse.
func (r *MemoryRepository) Load(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	r.mu.Lock()
	raw, ok := r.data[sessionID]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// Save replaces the stored value.
func (r *MemoryRepository) Save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data[sessionID] = raw
	r.mu.Unlock()
	return nil
}

// Clear removes the stored value.
func (r *MemoryRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.data, sessionID)
	r.mu.Unlock()
	return nil
}

// Put stores a raw value directly, bypassing serialization. Tests use it to
// simulate corrupt persisted data.
func (r *MemoryRepository) Put(sessionID string, raw []byte) {
	r.mu.Lock()
	r.data[sessionID] = raw
	r.mu.Unlock()
}
