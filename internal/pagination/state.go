package pagination

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

// Mode selects where filtering, sorting and slicing happen.
type Mode int

const (
	// ClientSide holds the whole collection and paginates locally.
	ClientSide Mode = iota
	// ServerSide forwards every query change to the backend and shows the returned page.
	ServerSide
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ClientSide:
		return "client"
	case ServerSide:
		return "server"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrInvalidMode is returned by New for an unknown Mode.
var ErrInvalidMode = errors.New("pagination mode must be client or server")

// Config describes one listing. It is fixed for the lifetime of a State.
type Config[T any] struct {
	// Mode is ClientSide or ServerSide.
	Mode Mode

	// PageSize is the number of items per page. Zero selects DefaultPageSize.
	PageSize int

	// DefaultSort is the initial sort. Its field must be registered in Sorts when Sorts is set.
	DefaultSort SortCriteria

	// Sorts maps a sort field name to its ascending comparator.
	// In server mode the keys only restrict which fields may be requested.
	Sorts map[string]SortKey[T]

	// SearchFields returns the text fields the search term is matched against.
	SearchFields func(T) []string

	// Category returns the value compared with the primary categorical filter.
	Category func(T) string

	// Extra maps an additional categorical axis to its accessor.
	Extra map[string]func(T) string

	// Locale is the BCP 47 tag used for text collation. Empty selects DefaultLocale.
	Locale string

	// Sink, when set, receives the page after every operation that changed something.
	Sink Sink[T]
}

// Page is the render payload produced after every operation.
type Page[T any] struct {
	Items     []T       `json:"items"       yaml:"items"`
	State     PageState `json:"page"        yaml:"page"`
	CanGoPrev bool      `json:"can_go_prev" yaml:"can_go_prev"`
	CanGoNext bool      `json:"can_go_next" yaml:"can_go_next"`

	// Pending is true in server mode while the latest request has not been applied.
	Pending bool `json:"pending,omitempty" yaml:"pending,omitempty"`

	// Stale is true when the items came from an offline copy.
	Stale bool `json:"stale,omitempty" yaml:"stale,omitempty"`
}

// Sink consumes rendered pages.
type Sink[T any] interface {
	Render(page Page[T])
}

// SinkFunc adapts a function to Sink.
type SinkFunc[T any] func(page Page[T])

// Render calls f(page).
func (f SinkFunc[T]) Render(page Page[T]) {
	f(page)
}

// State is the filter/sort/page state of one listing.
type State[T any] struct {
	cfg      Config[T]
	collator *collate.Collator

	filter FilterCriteria
	sort   SortCriteria
	page   PageState

	// items is the backing collection in client mode and the current page in server mode.
	items []T
	// view is the filtered and sorted collection (client mode only).
	view []T

	seq     uint64
	applied uint64
	outbox  *Request
	stale   bool
}

// New creates a State with default filters, the configured default sort and page 1.
func New[T any](cfg Config[T]) (*State[T], error) {
	if cfg.Mode != ClientSide && cfg.Mode != ServerSide {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidMode, cfg.Mode)
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, cfg.PageSize)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}

	sortCriteria := cfg.DefaultSort
	if sortCriteria.Order == "" {
		sortCriteria.Order = SortOrderAsc
	}
	if !sortCriteria.Order.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, sortCriteria.Order)
	}
	if sortCriteria.Field != "" && len(cfg.Sorts) > 0 {
		if _, ok := cfg.Sorts[sortCriteria.Field]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, sortCriteria.Field)
		}
	}

	locale := cfg.Locale
	if locale == "" {
		locale = DefaultLocale
	}

	s := &State[T]{
		cfg:      cfg,
		collator: newCollator(locale),
		filter:   DefaultFilter(),
		sort:     sortCriteria,
		page: PageState{
			CurrentPage: DefaultPage,
			PageSize:    cfg.PageSize,
			TotalPages:  1,
		},
	}
	return s, nil
}

// Mode returns the pagination mode chosen at construction.
func (s *State[T]) Mode() Mode {
	return s.cfg.Mode
}

// Filter returns a copy of the active filter.
func (s *State[T]) Filter() FilterCriteria {
	return s.filter.clone()
}

// Sort returns the active sort.
func (s *State[T]) Sort() SortCriteria {
	return s.sort
}

// PageState returns the current pagination position.
func (s *State[T]) PageState() PageState {
	return s.page
}

// SortFields returns the registered sort field names in sorted order.
func (s *State[T]) SortFields() []string {
	return slices.Sorted(maps.Keys(s.cfg.Sorts))
}

// SetSearchTerm stores the lower-cased term and returns to page 1.
// Setting the current term again changes nothing and returns false.
func (s *State[T]) SetSearchTerm(term string) bool {
	term = strings.ToLower(term)
	if term == s.filter.SearchTerm {
		return false
	}
	s.filter.SearchTerm = term
	s.filterChanged()
	return true
}

// SetCategoricalFilter sets the primary categorical filter and returns to page 1.
// AllValue (or "") disables the filter.
func (s *State[T]) SetCategoricalFilter(value string) bool {
	value = normalizeCategory(value)
	if value == s.filter.Category {
		return false
	}
	s.filter.Category = value
	s.filterChanged()
	return true
}

// SetExtraFilter sets an additional categorical axis and returns to page 1.
func (s *State[T]) SetExtraFilter(key, value string) bool {
	value = normalizeCategory(value)
	if value == s.filter.extraValue(key) {
		return false
	}
	if isAll(value) {
		delete(s.filter.Extra, key)
	} else {
		if s.filter.Extra == nil {
			s.filter.Extra = make(map[string]string)
		}
		s.filter.Extra[key] = value
	}
	s.filterChanged()
	return true
}

// SetSort changes the sort and keeps the current page.
// Unknown fields and invalid orders are ignored.
func (s *State[T]) SetSort(field string, order Order) bool {
	if field == "" || !order.Valid() {
		return false
	}
	if len(s.cfg.Sorts) > 0 {
		if _, ok := s.cfg.Sorts[field]; !ok {
			return false
		}
	}
	next := SortCriteria{Field: field, Order: order}
	if next == s.sort {
		return false
	}
	s.sort = next

	if s.cfg.Mode == ServerSide {
		s.sortPage()
		s.issue()
	} else {
		s.recompute()
	}
	s.emit()
	return true
}

// GoToPage moves to page n. Pages outside [1, TotalPages] and the current page are ignored.
func (s *State[T]) GoToPage(n int) bool {
	if n < MinPage || n > s.page.TotalPages || n == s.page.CurrentPage {
		return false
	}
	s.page.CurrentPage = n
	if s.cfg.Mode == ServerSide {
		s.issue()
	}
	s.emit()
	return true
}

// NextPage moves forward one page when CanGoNext.
func (s *State[T]) NextPage() bool {
	return s.GoToPage(s.page.CurrentPage + 1)
}

// PrevPage moves back one page when CanGoPrev.
func (s *State[T]) PrevPage() bool {
	return s.GoToPage(s.page.CurrentPage - 1)
}

// CanGoNext is false exactly when the current page is the last page.
func (s *State[T]) CanGoNext() bool {
	return s.page.HasNext()
}

// CanGoPrev is false exactly when the current page is the first page.
func (s *State[T]) CanGoPrev() bool {
	return s.page.HasPrevious()
}

// Refresh replaces the backing collection. In client mode the view is recomputed and
// the current page snaps to the last valid page when the collection shrank. In server
// mode only the visible page items are replaced and ordered by the active sort;
// TotalItems and TotalPages keep describing the backend collection from the last
// Apply, so a changed count needs Reload instead.
func (s *State[T]) Refresh(items []T) {
	s.refresh(items, false)
}

func (s *State[T]) refresh(items []T, stale bool) {
	s.stale = stale
	s.items = slices.Clone(items)
	if s.cfg.Mode == ClientSide {
		s.recompute()
	} else {
		s.sortPage()
	}
	s.emit()
}

// Page returns the render payload for the current state.
func (s *State[T]) Page() Page[T] {
	var items []T
	if s.cfg.Mode == ServerSide {
		items = slices.Clone(s.items)
	} else {
		start, end := PageBounds(s.page.CurrentPage, s.page.PageSize, len(s.view))
		items = slices.Clone(s.view[start:end])
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:     items,
		State:     s.page,
		CanGoPrev: s.CanGoPrev(),
		CanGoNext: s.CanGoNext(),
		Pending:   s.Pending(),
		Stale:     s.stale,
	}
}

// filterChanged resets to page 1 and recomputes or re-queries.
func (s *State[T]) filterChanged() {
	s.page.CurrentPage = DefaultPage
	if s.cfg.Mode == ServerSide {
		s.issue()
	} else {
		s.recompute()
	}
	s.emit()
}

// recompute rebuilds the filtered, sorted view and clamps the current page.
func (s *State[T]) recompute() {
	matched := make([]indexed[T], 0, len(s.items))
	for i, item := range s.items {
		if s.matches(item) {
			matched = append(matched, indexed[T]{item: item, index: i})
		}
	}

	if key, ok := s.cfg.Sorts[s.sort.Field]; ok {
		sortIndexed(matched, key, s.collator, s.sort.Order)
	}

	s.view = make([]T, len(matched))
	for i, m := range matched {
		s.view[i] = m.item
	}

	s.page.TotalItems = len(s.view)
	s.page.TotalPages = CalculateTotalPages(s.page.TotalItems, s.page.PageSize)
	s.clamp()
}

// clamp keeps CurrentPage within [1, TotalPages].
func (s *State[T]) clamp() {
	if s.page.TotalPages < 1 {
		s.page.TotalPages = 1
	}
	if s.page.CurrentPage > s.page.TotalPages {
		s.page.CurrentPage = s.page.TotalPages
	}
	if s.page.CurrentPage < MinPage {
		s.page.CurrentPage = MinPage
	}
}

// matches applies the search predicate and every categorical predicate.
func (s *State[T]) matches(item T) bool {
	if term := s.filter.SearchTerm; term != "" && s.cfg.SearchFields != nil {
		found := false
		for _, field := range s.cfg.SearchFields(item) {
			if strings.Contains(strings.ToLower(field), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !isAll(s.filter.Category) && s.cfg.Category != nil && s.cfg.Category(item) != s.filter.Category {
		return false
	}

	for key, value := range s.filter.Extra {
		if isAll(value) {
			continue
		}
		if accessor, ok := s.cfg.Extra[key]; ok && accessor(item) != value {
			return false
		}
	}

	return true
}

func (s *State[T]) emit() {
	if s.cfg.Sink != nil {
		s.cfg.Sink.Render(s.Page())
	}
}
