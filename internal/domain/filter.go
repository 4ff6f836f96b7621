package domain

// FilterState is the shopper's filter panel state for one session.
// Mutations are synchronous and in-memory only; nothing is persisted.
type FilterState struct {
	Selection    FilterSelection `json:"selection"`
	IsFilterOpen bool            `json:"isFilterOpen"`
}

// NewFilterState returns the empty selection with the panel closed.
func NewFilterState() *FilterState {
	return &FilterState{}
}

// SetSearchQuery replaces the search text.
func (f *FilterState) SetSearchQuery(query string) {
	f.Selection.SearchQuery = query
}

// ToggleCategory adds the category to the selection, or removes it when
// already selected.
func (f *FilterState) ToggleCategory(category string) {
	f.Selection.SelectedCategories = toggle(f.Selection.SelectedCategories, category)
}

// ToggleGender adds or removes the gender from the selection.
func (f *FilterState) ToggleGender(gender string) {
	f.Selection.SelectedGenders = toggle(f.Selection.SelectedGenders, gender)
}

// ToggleSize adds or removes the size from the selection.
func (f *FilterState) ToggleSize(size string) {
	f.Selection.SelectedSizes = toggle(f.Selection.SelectedSizes, size)
}

// SetPriceRange sets the price bracket; an empty string clears it.
func (f *FilterState) SetPriceRange(bracket string) {
	f.Selection.PriceRange = bracket
}

// SetSortBy sets the sort order; an empty string restores the default
// (newest first).
func (f *FilterState) SetSortBy(sortBy string) {
	f.Selection.SortBy = sortBy
}

// SetIsFilterOpen tracks whether the filter panel is expanded.
func (f *FilterState) SetIsFilterOpen(open bool) {
	f.IsFilterOpen = open
}

// ClearFilters resets every selection field to its empty default.
// The panel-open flag is not part of the selection and survives a clear.
func (f *FilterState) ClearFilters() {
	f.Selection = FilterSelection{}
}

func toggle(values []string, v string) []string {
	for i, s := range values {
		if s == v {
			return append(values[:i:i], values[i+1:]...)
		}
	}
	return append(values, v)
}
