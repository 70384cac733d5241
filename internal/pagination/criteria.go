package pagination

import (
	"maps"
	"strings"
)

// Order is a sort direction.
type Order string

// Sort orders.
const (
	SortOrderAsc  Order = "asc"
	SortOrderDesc Order = "desc"
)

// Valid reports whether o is asc or desc.
func (o Order) Valid() bool {
	return o == SortOrderAsc || o == SortOrderDesc
}

// Reverse returns the opposite direction.
func (o Order) Reverse() Order {
	if o == SortOrderDesc {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// FilterCriteria is the active filter of a listing.
type FilterCriteria struct {
	// SearchTerm is stored lower-cased. Empty matches everything.
	SearchTerm string `json:"search_term,omitempty" yaml:"search_term,omitempty"`

	// Category is the primary categorical filter (status or role). AllValue disables it.
	Category string `json:"category" yaml:"category"`

	// Extra holds further categorical axes keyed by name.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// DefaultFilter returns an empty search with every categorical axis set to AllValue.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{Category: AllValue}
}

func (f FilterCriteria) clone() FilterCriteria {
	f.Extra = maps.Clone(f.Extra)
	return f
}

// extraValue returns the value of an extra axis, AllValue when unset.
func (f FilterCriteria) extraValue(key string) string {
	if v, ok := f.Extra[key]; ok && v != "" {
		return v
	}
	return AllValue
}

// SortCriteria is the active sort of a listing.
type SortCriteria struct {
	Field string `json:"field" yaml:"field"`
	Order Order  `json:"order" yaml:"order"`
}

// String renders the criteria in "field:order" form.
func (s SortCriteria) String() string {
	if s.Field == "" {
		return ""
	}
	return s.Field + ":" + string(s.Order)
}

// PageState is the pagination position of a listing.
// TotalPages is derived from TotalItems and PageSize and is never below 1.
type PageState struct {
	CurrentPage int `json:"current_page" yaml:"current_page"`
	PageSize    int `json:"page_size"    yaml:"page_size"`
	TotalItems  int `json:"total_items"  yaml:"total_items"`
	TotalPages  int `json:"total_pages"  yaml:"total_pages"`
}

// HasNext reports whether a page follows the current one.
func (p PageState) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether a page precedes the current one.
func (p PageState) HasPrevious() bool {
	return p.CurrentPage > 1
}

// normalizeCategory maps the empty string to AllValue.
func normalizeCategory(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return AllValue
	}
	return v
}

// isAll reports whether v is the "no filtering" sentinel.
func isAll(v string) bool {
	return v == "" || v == AllValue
}
