package pagination

import (
	"cmp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is the collation locale used when a listing does not set one.
const DefaultLocale = "en"

// SortKey is the ascending comparator for one sort field.
// Descending order is obtained by swapping the operands, never by a second comparator.
type SortKey[T any] struct {
	compare func(c *collate.Collator, a, b T) int
}

// ByTime compares items by a timestamp. Zero times sort first.
func ByTime[T any](key func(T) time.Time) SortKey[T] {
	return SortKey[T]{compare: func(_ *collate.Collator, a, b T) int {
		return key(a).Compare(key(b))
	}}
}

// ByText compares items by a string using locale-aware collation.
func ByText[T any](key func(T) string) SortKey[T] {
	return SortKey[T]{compare: func(c *collate.Collator, a, b T) int {
		if c == nil {
			return strings.Compare(key(a), key(b))
		}
		return c.CompareString(key(a), key(b))
	}}
}

// ByNumber compares items by an integer.
func ByNumber[T any](key func(T) int) SortKey[T] {
	return SortKey[T]{compare: func(_ *collate.Collator, a, b T) int {
		return cmp.Compare(key(a), key(b))
	}}
}

// newCollator builds a collator for locale, falling back to DefaultLocale when the
// tag cannot be parsed.
func newCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Make(DefaultLocale)
	}
	return collate.New(tag)
}

// indexed pairs an item with its position in the backing collection.
type indexed[T any] struct {
	item  T
	index int
}

// sortIndexed sorts view in place. Ties fall back to the original index so the
// ordering is total and desc is the exact mirror of asc.
func sortIndexed[T any](view []indexed[T], key SortKey[T], c *collate.Collator, order Order) {
	if key.compare == nil {
		return
	}
	sort.SliceStable(view, func(i, j int) bool {
		// For descending order, swap i and j in comparisons to keep a strict mirror
		if order == SortOrderDesc {
			i, j = j, i
		}
		if r := key.compare(c, view[i].item, view[j].item); r != 0 {
			return r < 0
		}
		return view[i].index < view[j].index
	})
}
