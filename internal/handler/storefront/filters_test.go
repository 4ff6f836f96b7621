package storefront

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/attire-shop/attire/internal/domain"
)

func postFilter(t *testing.T, fn http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := withCartCookie(httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)), "sess-1")
	fn(rec, req)
	return rec
}

func TestFilterHandler_Get_Empty(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var state domain.FilterState
	decodeBody(t, rec, &state)
	if state.IsFilterOpen || state.Selection.SearchQuery != "" {
		t.Errorf("expected zero state, got %+v", state)
	}
}

func TestFilterHandler_ToggleCategory(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	rec := postFilter(t, h.Category, "/api/filters/category", `{"value":"Shoes"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var state domain.FilterState
	decodeBody(t, rec, &state)
	if len(state.Selection.SelectedCategories) != 1 || state.Selection.SelectedCategories[0] != "Shoes" {
		t.Fatalf("SelectedCategories = %v", state.Selection.SelectedCategories)
	}

	// toggling again removes it
	rec = postFilter(t, h.Category, "/api/filters/category", `{"value":"Shoes"}`)
	decodeBody(t, rec, &state)
	if len(state.Selection.SelectedCategories) != 0 {
		t.Errorf("SelectedCategories = %v after second toggle", state.Selection.SelectedCategories)
	}
}

func TestFilterHandler_Toggle_EmptyValue(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	for name, fn := range map[string]http.HandlerFunc{
		"category": h.Category,
		"gender":   h.Gender,
		"size":     h.Size,
	} {
		t.Run(name, func(t *testing.T) {
			rec := postFilter(t, fn, "/api/filters/"+name, `{"value":""}`)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestFilterHandler_Search(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	rec := postFilter(t, h.Search, "/api/filters/search", `{"query":"denim"}`)
	var state domain.FilterState
	decodeBody(t, rec, &state)
	if state.Selection.SearchQuery != "denim" {
		t.Errorf("SearchQuery = %q", state.Selection.SearchQuery)
	}

	// an empty query clears the search
	rec = postFilter(t, h.Search, "/api/filters/search", `{"query":""}`)
	decodeBody(t, rec, &state)
	if state.Selection.SearchQuery != "" {
		t.Errorf("SearchQuery = %q after clear", state.Selection.SearchQuery)
	}
}

func TestFilterHandler_Price(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	rec := postFilter(t, h.Price, "/api/filters/price", `{"bracket":"100-200"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var state domain.FilterState
	decodeBody(t, rec, &state)
	if state.Selection.PriceRange != "100-200" {
		t.Errorf("PriceRange = %q", state.Selection.PriceRange)
	}

	rec = postFilter(t, h.Price, "/api/filters/price", `{"bracket":"cheap"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// parseable ranges outside the offered brackets are rejected too
	rec = postFilter(t, h.Price, "/api/filters/price", `{"bracket":"25-75"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for unoffered bracket, want 400", rec.Code)
	}

	// empty bracket clears the price filter
	rec = postFilter(t, h.Price, "/api/filters/price", `{"bracket":""}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d for clear", rec.Code)
	}
}

func TestFilterHandler_Sort(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	rec := postFilter(t, h.Sort, "/api/filters/sort", `{"sortBy":"price-high"}`)
	var state domain.FilterState
	decodeBody(t, rec, &state)
	if state.Selection.SortBy != domain.SortPriceHigh {
		t.Errorf("SortBy = %q", state.Selection.SortBy)
	}

	rec = postFilter(t, h.Sort, "/api/filters/sort", `{"sortBy":"newest"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFilterHandler_PanelAndClear(t *testing.T) {
	h := NewFilterHandler(newTestRegistry(), false)

	postFilter(t, h.Category, "/api/filters/category", `{"value":"Shoes"}`)
	postFilter(t, h.Search, "/api/filters/search", `{"query":"denim"}`)
	postFilter(t, h.Panel, "/api/filters/panel", `{"open":true}`)

	rec := postFilter(t, h.Clear, "/api/filters/clear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var state domain.FilterState
	decodeBody(t, rec, &state)
	if state.Selection.SearchQuery != "" || len(state.Selection.SelectedCategories) != 0 {
		t.Errorf("selection not cleared: %+v", state.Selection)
	}
	// the panel-open flag is not part of the selection
	if !state.IsFilterOpen {
		t.Error("IsFilterOpen should survive a clear")
	}
}
