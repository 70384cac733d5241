package pagination

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
)

// Query is the full set of parameters a server-side listing sends to its backend.
type Query struct {
	Search   string            `json:"search,omitempty"`
	Category string            `json:"category,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
	Sort     SortCriteria      `json:"sort"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CategoryParam returns the category, or "" when it is the AllValue sentinel.
func (q Query) CategoryParam() string {
	if isAll(q.Category) {
		return ""
	}
	return q.Category
}

// ExtraParam returns an extra axis value, or "" when unset or AllValue.
func (q Query) ExtraParam(key string) string {
	v := q.Extra[key]
	if isAll(v) {
		return ""
	}
	return v
}

// SortParam returns the sort in the backend's "field-order" form, or "" when
// no sort field is set.
func (q Query) SortParam() string {
	if q.Sort.Field == "" {
		return ""
	}
	return q.Sort.Field + "-" + string(q.Sort.Order)
}

// Key returns a stable identity for the query, suitable as a cache key.
// Values are URL-encoded so user input cannot forge another query's key. Extra
// axes are listed in key order and AllValue axes are omitted.
func (q Query) Key() string {
	v := url.Values{}
	v.Set("q", q.Search)
	v.Set("c", q.CategoryParam())
	v.Set("s", q.Sort.String())
	v.Set("p", strconv.Itoa(q.Page))
	v.Set("n", strconv.Itoa(q.PageSize))
	for k := range q.Extra {
		if p := q.ExtraParam(k); p != "" {
			v.Set("x."+k, p)
		}
	}
	return v.Encode()
}

// Request is a sequenced fetch the caller must execute for a server-side listing.
type Request struct {
	Seq   uint64
	Query Query
}

// Result is one page returned by the backend. Stale is set when the page was
// served from an offline copy instead of the backend.
type Result[T any] struct {
	Items       []T
	TotalItems  int
	CurrentPage int
	TotalPages  int
	Stale       bool
}

// Query returns the parameters matching the current state.
func (s *State[T]) Query() Query {
	return Query{
		Search:   s.filter.SearchTerm,
		Category: s.filter.Category,
		Extra:    maps.Clone(s.filter.Extra),
		Sort:     s.sort,
		Page:     s.page.CurrentPage,
		PageSize: s.page.PageSize,
	}
}

// Reload issues a request for the current query in server mode.
// In client mode it does nothing; the caller refetches the collection and calls Refresh.
func (s *State[T]) Reload() bool {
	if s.cfg.Mode != ServerSide {
		return false
	}
	s.issue()
	s.emit()
	return true
}

// TakeRequest returns the request issued by the last operation, if any, and clears it.
func (s *State[T]) TakeRequest() (Request, bool) {
	if s.outbox == nil {
		return Request{}, false
	}
	req := *s.outbox
	s.outbox = nil
	return req, true
}

// IsLatest reports whether seq is the most recently issued request.
func (s *State[T]) IsLatest(seq uint64) bool {
	return seq != 0 && seq == s.seq
}

// Pending reports whether a server-side request is still outstanding.
func (s *State[T]) Pending() bool {
	return s.cfg.Mode == ServerSide && s.seq > s.applied
}

// Apply installs the result of request seq. Results for superseded requests are
// discarded and Apply returns false. When the backend reports fewer pages than the
// current page, the state snaps to the last page and issues a new request for it.
func (s *State[T]) Apply(seq uint64, res Result[T]) bool {
	if s.cfg.Mode != ServerSide || !s.IsLatest(seq) || seq <= s.applied {
		return false
	}
	s.applied = seq
	s.items = slices.Clone(res.Items)
	s.stale = res.Stale
	s.sortPage()

	if res.CurrentPage > 0 {
		s.page.CurrentPage = res.CurrentPage
	}

	total := res.TotalItems
	if total <= 0 && len(res.Items) > 0 {
		// Lower bound when the backend omits a count.
		total = (s.page.CurrentPage-1)*s.page.PageSize + len(res.Items)
	}
	s.page.TotalItems = max(total, 0)

	pages := res.TotalPages
	if pages <= 0 {
		pages = CalculateTotalPages(s.page.TotalItems, s.page.PageSize)
	}
	s.page.TotalPages = max(pages, 1)

	if s.page.CurrentPage > s.page.TotalPages {
		s.page.CurrentPage = s.page.TotalPages
		s.issue()
	}
	s.clamp()
	s.emit()
	return true
}

// sortPage orders the visible server page by the active sort. Backends that
// sort on their own return the page already in this order; the rest are sorted
// within the page so the items always agree with the reported sort.
func (s *State[T]) sortPage() {
	key, ok := s.cfg.Sorts[s.sort.Field]
	if !ok || len(s.items) < 2 {
		return
	}
	view := make([]indexed[T], len(s.items))
	for i, item := range s.items {
		view[i] = indexed[T]{item: item, index: i}
	}
	sortIndexed(view, key, s.collator, s.sort.Order)
	for i, v := range view {
		s.items[i] = v.item
	}
}

// issue records a new request for the current query.
func (s *State[T]) issue() {
	s.seq++
	s.outbox = &Request{Seq: s.seq, Query: s.Query()}
}
