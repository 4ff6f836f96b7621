package storefront

import (
	"net/http"

	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler"
	"github.com/attire-shop/attire/internal/session"
)

// FilterHandler exposes the session's filter panel state, one route per
// mutation.
type FilterHandler struct {
	sessions *session.Registry
	secure   bool
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(sessions *session.Registry, secure bool) *FilterHandler {
	return &FilterHandler{sessions: sessions, secure: secure}
}

func (h *FilterHandler) state(w http.ResponseWriter, r *http.Request) *domain.FilterState {
	sessionID := EnsureSessionID(w, r, h.secure)
	return h.sessions.Get(r.Context(), sessionID).Filters
}

// Get handles GET /api/filters
func (h *FilterHandler) Get(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, h.state(w, r))
}

// Search handles POST /api/filters/search
func (h *FilterHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	state := h.state(w, r)
	state.SetSearchQuery(req.Query)
	handler.JSON(w, http.StatusOK, state)
}

// Category handles POST /api/filters/category, toggling membership
func (h *FilterHandler) Category(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, (*domain.FilterState).ToggleCategory)
}

// Gender handles POST /api/filters/gender, toggling membership
func (h *FilterHandler) Gender(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, (*domain.FilterState).ToggleGender)
}

// Size handles POST /api/filters/size, toggling membership
func (h *FilterHandler) Size(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, (*domain.FilterState).ToggleSize)
}

func (h *FilterHandler) toggle(w http.ResponseWriter, r *http.Request, op func(*domain.FilterState, string)) {
	var req struct {
		Value string `json:"value"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Value == "" {
		handler.ErrorResponse(w, r, domain.Invalid("filters.toggle", "value is required"))
		return
	}

	state := h.state(w, r)
	op(state, req.Value)
	handler.JSON(w, http.StatusOK, state)
}

// Price handles POST /api/filters/price
func (h *FilterHandler) Price(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bracket string `json:"bracket"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if req.Bracket != "" && !domain.ValidPriceBracket(req.Bracket) {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "filters.price", "unknown price bracket: %s", req.Bracket))
		return
	}

	state := h.state(w, r)
	state.SetPriceRange(req.Bracket)
	handler.JSON(w, http.StatusOK, state)
}

// Sort handles POST /api/filters/sort
func (h *FilterHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SortBy string `json:"sortBy"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	switch req.SortBy {
	case "", domain.SortName, domain.SortPriceLow, domain.SortPriceHigh, domain.SortRating:
	default:
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "filters.sort", "unknown sort order: %s", req.SortBy))
		return
	}

	state := h.state(w, r)
	state.SetSortBy(req.SortBy)
	handler.JSON(w, http.StatusOK, state)
}

// Panel handles POST /api/filters/panel
func (h *FilterHandler) Panel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"open"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	state := h.state(w, r)
	state.SetIsFilterOpen(req.Open)
	handler.JSON(w, http.StatusOK, state)
}

// Clear handles POST /api/filters/clear
func (h *FilterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	state := h.state(w, r)
	state.ClearFilters()
	handler.JSON(w, http.StatusOK, state)
}
