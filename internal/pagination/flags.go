package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Page defaults and validation limits.
const (
	DefaultPage     = 1
	MinPage         = 1
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100

	// AllValue is the categorical filter sentinel that disables filtering on an axis.
	AllValue = "all"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'date:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the pagination flags of a list command.
// Zero values mean "use the listing default".
type Params struct {
	// Page is the 1-based page number requested on the command line.
	Page int

	// PageSize overrides the listing's page size.
	PageSize int

	// Sort is the raw sort expression, e.g. "date:desc" or "title-asc".
	Sort string
}

// Validate checks the flag values without knowing the listing (value receiver).
func (p Params) Validate() error {
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}
	if p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.Sort != "" {
		if _, _, err := ParseSortExpression(p.Sort); err != nil {
			return err
		}
	}
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// An empty string yields an empty field and ascending order.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field string, order Order, err error) {
	if sortStr == "" {
		return "", SortOrderAsc, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = Order(strings.ToLower(strings.TrimSpace(parts[1])))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if !order.Valid() {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}

// ParseSortExpression parses a sort expression in "field:order" or "field-order" format.
// The dash form is what the portal's sort selectors emit ("date-desc", "title-asc").
// A bare field defaults to ascending order.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSortExpression(expr string) (field string, order Order, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", "", ErrEmptySortField
	}

	if strings.Contains(expr, ":") {
		return ParseSort(expr)
	}

	if idx := strings.LastIndex(expr, "-"); idx >= 0 {
		candidate := Order(strings.ToLower(expr[idx+1:]))
		if candidate.Valid() {
			field = strings.TrimSpace(expr[:idx])
			if field == "" {
				return "", "", ErrEmptySortField
			}
			return field, candidate, nil
		}
	}

	return ParseSort(expr)
}

// CalculateTotalPages returns ceil(totalItems/pageSize), never less than 1.
func CalculateTotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	return pages
}

// PageBounds returns the [start, end) slice bounds of page within a collection of
// length n. Pages past the end yield an empty range.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func PageBounds(page, pageSize, n int) (start, end int) {
	if page < MinPage || pageSize <= 0 {
		return 0, 0
	}
	start = (page - 1) * pageSize
	if start >= n {
		return n, n
	}
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
