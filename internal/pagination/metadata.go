package pagination

// Meta contains metadata about a rendered page for machine-readable output.
type Meta struct {
	CurrentPage int    `json:"current_page"     yaml:"current_page"`
	PageSize    int    `json:"page_size"        yaml:"page_size"`
	TotalPages  int    `json:"total_pages"      yaml:"total_pages"`
	TotalItems  int    `json:"total_items"      yaml:"total_items"`
	HasPrevious bool   `json:"has_previous"     yaml:"has_previous"`
	HasNext     bool   `json:"has_next"         yaml:"has_next"`
	Sort        string `json:"sort,omitempty"   yaml:"sort,omitempty"`
	Search      string `json:"search,omitempty" yaml:"search,omitempty"`
	Filter      string `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// NewMeta builds metadata from a page and the criteria that produced it.
func NewMeta[T any](page Page[T], filter FilterCriteria, sort SortCriteria) Meta {
	meta := Meta{
		CurrentPage: page.State.CurrentPage,
		PageSize:    page.State.PageSize,
		TotalPages:  page.State.TotalPages,
		TotalItems:  page.State.TotalItems,
		HasPrevious: page.CanGoPrev,
		HasNext:     page.CanGoNext,
		Sort:        sort.String(),
		Search:      filter.SearchTerm,
	}
	if !isAll(filter.Category) {
		meta.Filter = filter.Category
	}
	return meta
}

// MetaOf builds metadata for the current page of s.
func MetaOf[T any](s *State[T]) Meta {
	return NewMeta(s.Page(), s.Filter(), s.Sort())
}
