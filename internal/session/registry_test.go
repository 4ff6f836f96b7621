package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/session"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRegistry_Get_CreatesOnFirstAccess(t *testing.T) {
	registry := session.NewRegistry(cart.NewMemoryRepository(), testLogger)

	entry := registry.Get(context.Background(), "sess-1")
	require.NotNil(t, entry)
	assert.NotNil(t, entry.Cart)
	assert.NotNil(t, entry.Checkout)
	assert.NotNil(t, entry.Filters)
	assert.True(t, entry.Cart.IsEmpty())
}

func TestRegistry_Get_ReturnsSameEntry(t *testing.T) {
	registry := session.NewRegistry(cart.NewMemoryRepository(), testLogger)

	first := registry.Get(context.Background(), "sess-1")
	first.Filters.SetSearchQuery("denim")

	second := registry.Get(context.Background(), "sess-1")
	assert.Same(t, first, second)
	assert.Equal(t, "denim", second.Filters.Selection.SearchQuery)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	registry := session.NewRegistry(cart.NewMemoryRepository(), testLogger)

	a := registry.Get(context.Background(), "sess-a")
	b := registry.Get(context.Background(), "sess-b")
	a.Filters.ToggleCategory("Shoes")

	assert.Empty(t, b.Filters.Selection.SelectedCategories)
}

func TestRegistry_Drop_KeepsPersistedCart(t *testing.T) {
	ctx := context.Background()
	repo := cart.NewMemoryRepository()
	registry := session.NewRegistry(repo, testLogger)

	entry := registry.Get(ctx, "sess-1")
	entry.Cart.AddItem(ctx, domain.Product{ID: 5, Name: "Sport Running Shoes", Price: 129.99}, "9", "Black")
	entry.Checkout.NextStep()

	registry.Drop("sess-1")

	// a fresh entry rehydrates the cart but resets checkout and filters
	fresh := registry.Get(ctx, "sess-1")
	assert.NotSame(t, entry, fresh)
	assert.Equal(t, 1, fresh.Cart.ItemsCount())
	assert.Equal(t, 1, fresh.Checkout.CurrentStep)
}
