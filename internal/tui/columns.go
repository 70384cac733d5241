package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rshade/lectern/internal/pagination"
)

const ellipsis = "..."

// Column is one table column of a listing.
type Column[T any] struct {
	Title string
	Width int
	// Right aligns the cell, for numbers.
	Right bool
	Value func(T) string
}

// Truncate shortens s to at most width cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return string([]rune(s)[:width])
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func pad(s string, width int, right bool) string {
	s = Truncate(s, width)
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderHeader lays out the column titles.
func RenderHeader[T any](cols []Column[T]) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = pad(c.Title, c.Width, c.Right)
	}
	return strings.Join(cells, "  ")
}

// RenderRow lays out one item.
func RenderRow[T any](cols []Column[T], item T) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = pad(c.Value(item), c.Width, c.Right)
	}
	return strings.Join(cells, "  ")
}

// Footer renders "Page X/Y · N items".
func Footer(ps pagination.PageState) string {
	noun := "items"
	if ps.TotalItems == 1 {
		noun = "item"
	}
	return fmt.Sprintf("Page %d/%d · %s %s", ps.CurrentPage, ps.TotalPages, humanize.Comma(int64(ps.TotalItems)), noun)
}

// Criteria renders the active search, filters and sort on one line.
func Criteria(f pagination.FilterCriteria, s pagination.SortCriteria) string {
	parts := make([]string, 0, 3+len(f.Extra))
	if f.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.SearchTerm))
	}
	parts = append(parts, "filter="+f.Category)
	for _, k := range slices.Sorted(maps.Keys(f.Extra)) {
		parts = append(parts, k+"="+f.Extra[k])
	}
	if sortStr := s.String(); sortStr != "" {
		parts = append(parts, "sort="+sortStr)
	}
	return strings.Join(parts, "  ")
}
