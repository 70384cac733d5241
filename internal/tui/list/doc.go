// Package listview provides the row selector the interactive listings render
// their current page with.
//
// Only the rows that fit in the viewport are rendered. The selection moves with
// up/down (or j/k) and home/end; paging between portal pages is handled by the
// enclosing model, not here.
package listview
