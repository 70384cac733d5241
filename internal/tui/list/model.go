package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one row. selected is true for the highlighted row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scrolling row selector over the items of one page. It renders
// only the rows that fit in the viewport and keeps the selection visible.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	selected int
	offset   int
	height   int
}

// New returns a list over items showing height rows.
func New[T any](items []T, height int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{render: render, height: max(height, 1)}
	m.SetItems(items)
	return m
}

// SetItems replaces the rows, keeping the selection index when it is still valid.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetHeight changes the viewport height.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.scroll()
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the selection on up/down, home/end and j/k.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.SetSelected(m.selected - 1)
	case "down", "j":
		m.SetSelected(m.selected + 1)
	case "home", "g":
		m.SetSelected(0)
	case "end", "G":
		m.SetSelected(len(m.items) - 1)
	}
	return m, nil
}

// SetSelected selects index, clamped to the rows.
func (m *Model[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.scroll()
}

// scroll adjusts the offset so the selection is inside the viewport.
func (m *Model[T]) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
	m.offset = max(0, min(m.offset, len(m.items)-m.height))
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	end := min(m.offset+m.height, len(m.items))
	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.render(m.items[i], i == m.selected))
	}
	return b.String()
}

// Len returns the number of rows.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the selected index.
func (m *Model[T]) Selected() int {
	return m.selected
}

// Offset returns the first visible row.
func (m *Model[T]) Offset() int {
	return m.offset
}

// SelectedItem returns the selected row, or nil when the list is empty.
func (m *Model[T]) SelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.selected]
}
