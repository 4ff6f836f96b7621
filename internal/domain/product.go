package domain

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sort orders accepted by product listing.
const (
	SortName      = "name"       // ascending lexicographic by name
	SortPriceLow  = "price-low"  // ascending price
	SortPriceHigh = "price-high" // descending price
	SortRating    = "rating"     // descending rating
)

// Price range brackets offered as filter facets.
// "min-max" means min <= price <= max inclusive; a bare "min" means price >= min.
var PriceBrackets = []string{"0-50", "50-100", "100-200", "200"}

// ValidPriceBracket reports whether the bracket is one of the offered
// PriceBrackets. The filter surface accepts only the offered brackets,
// not arbitrary parseable ranges.
func ValidPriceBracket(bracket string) bool {
	return slices.Contains(PriceBrackets, bracket)
}

// Product represents a catalog item.
// Rating and Reviews are derived; they are recomputed whenever a review
// for this product is created, updated or deleted.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Images        []string  `json:"images"`
	Category      string    `json:"category"`
	Gender        string    `json:"gender"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	InStock       bool      `json:"inStock"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductFacets are the distinct filter options available across the catalog.
type ProductFacets struct {
	Categories []string `json:"categories"`
	Genders    []string `json:"genders"`
	Sizes      []string `json:"sizes"`
}

// ProductStore provides read access to the product catalog.
type ProductStore interface {
	// List returns all products ordered by creation time, newest first.
	List(ctx context.Context) ([]Product, error)

	// ListFiltered returns the products matching the selection, ordered
	// according to its sort field.
	ListFiltered(ctx context.Context, sel FilterSelection) ([]Product, error)

	// GetByID returns a single product.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// Facets returns the distinct categories, genders and sizes present
	// in the catalog.
	Facets(ctx context.Context) (*ProductFacets, error)
}

// FilterSelection holds the shopper's current search, filter and sort choices.
// The zero value matches every product. Set fields combine with logical AND.
type FilterSelection struct {
	SearchQuery        string   `json:"searchQuery"`
	SelectedCategories []string `json:"selectedCategories"`
	SelectedGenders    []string `json:"selectedGenders"`
	SelectedSizes      []string `json:"selectedSizes"`
	PriceRange         string   `json:"priceRange"`
	SortBy             string   `json:"sortBy"`
}

// PriceBounds parses the selection's price bracket.
// Returns ok=false when no bracket is set. hasMax is false for the open-ended
// bracket ("200" means price >= 200 with no upper bound).
func (s FilterSelection) PriceBounds() (min, max float64, hasMax, ok bool) {
	if s.PriceRange == "" {
		return 0, 0, false, false
	}

	parts := strings.SplitN(s.PriceRange, "-", 2)
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false, false
	}

	if len(parts) == 2 {
		max, err = strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, 0, false, false
		}
		return min, max, true, true
	}

	return min, 0, false, true
}

// Matches reports whether the product satisfies every active filter.
// Sort order never affects the outcome.
func (s FilterSelection) Matches(p Product) bool {
	if s.SearchQuery != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(s.SearchQuery)) {
		return false
	}

	if len(s.SelectedCategories) > 0 && !contains(s.SelectedCategories, p.Category) {
		return false
	}

	if len(s.SelectedGenders) > 0 && !contains(s.SelectedGenders, p.Gender) {
		return false
	}

	if len(s.SelectedSizes) > 0 && !intersects(s.SelectedSizes, p.Sizes) {
		return false
	}

	if min, max, hasMax, ok := s.PriceBounds(); ok {
		if p.Price < min {
			return false
		}
		if hasMax && p.Price > max {
			return false
		}
	}

	return true
}

// Apply filters and orders a product slice in memory. It mirrors the SQL
// built by the postgres store and exists so the predicate stays testable
// without a database. The input is not modified.
func (s FilterSelection) Apply(products []Product) []Product {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if s.Matches(p) {
			matched = append(matched, p)
		}
	}

	// Default order is newest first; it also serves as the tie-break for
	// every explicit sort, which is why the sort below must be stable.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	switch s.SortBy {
	case SortName:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Name < matched[j].Name
		})
	case SortPriceLow:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Price < matched[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Price > matched[j].Price
		})
	case SortRating:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Rating > matched[j].Rating
		})
	}

	return matched
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}
