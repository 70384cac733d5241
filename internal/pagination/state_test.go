package pagination

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID      string
	Title   string
	Desc    string
	Status  string
	Kind    string
	Created time.Time
}

var baseTime = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func testConfig(pageSize int) Config[testItem] {
	return Config[testItem]{
		Mode:        ClientSide,
		PageSize:    pageSize,
		DefaultSort: SortCriteria{Field: "date", Order: SortOrderDesc},
		Sorts: map[string]SortKey[testItem]{
			"date":  ByTime(func(it testItem) time.Time { return it.Created }),
			"title": ByText(func(it testItem) string { return it.Title }),
		},
		SearchFields: func(it testItem) []string { return []string{it.Title, it.Desc} },
		Category:     func(it testItem) string { return it.Status },
		Extra: map[string]func(testItem) string{
			"kind": func(it testItem) string { return it.Kind },
		},
	}
}

func makeItems(n int) []testItem {
	items := make([]testItem, n)
	for i := range items {
		status := "active"
		if i%2 == 1 {
			status = "completed"
		}
		items[i] = testItem{
			ID:      fmt.Sprintf("a%02d", i),
			Title:   fmt.Sprintf("Assignment %02d", i),
			Desc:    "weekly work",
			Status:  status,
			Created: baseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	return items
}

func newTestState(t *testing.T, pageSize int, items []testItem) *State[testItem] {
	t.Helper()
	s, err := New(testConfig(pageSize))
	require.NoError(t, err)
	s.Refresh(items)
	return s
}

func ids(items []testItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config[testItem])
		wantErr error
	}{
		{name: "valid", mutate: func(*Config[testItem]) {}},
		{name: "zero page size uses default", mutate: func(c *Config[testItem]) { c.PageSize = 0 }},
		{
			name:    "negative page size",
			mutate:  func(c *Config[testItem]) { c.PageSize = -1 },
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "unknown default sort field",
			mutate:  func(c *Config[testItem]) { c.DefaultSort.Field = "grade" },
			wantErr: ErrInvalidSortField,
		},
		{
			name:    "invalid default order",
			mutate:  func(c *Config[testItem]) { c.DefaultSort.Order = "sideways" },
			wantErr: ErrInvalidSortOrder,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config[testItem]) { c.Mode = Mode(7) },
			wantErr: ErrInvalidMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(6)
			tt.mutate(&cfg)
			s, err := New(cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, s.PageState().CurrentPage)
			assert.Equal(t, 1, s.PageState().TotalPages)
			assert.Positive(t, s.PageState().PageSize)
		})
	}
}

func TestState_EmptyCollection(t *testing.T) {
	s := newTestState(t, 6, nil)

	page := s.Page()
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, PageState{CurrentPage: 1, PageSize: 6, TotalItems: 0, TotalPages: 1}, page.State)
	assert.False(t, page.CanGoPrev)
	assert.False(t, page.CanGoNext)
	assert.False(t, s.NextPage())
	assert.False(t, s.PrevPage())
}

func TestState_ThirteenItemsPageSizeSix(t *testing.T) {
	s := newTestState(t, 6, makeItems(13))

	assert.Equal(t, 3, s.PageState().TotalPages)
	assert.Equal(t, 13, s.PageState().TotalItems)

	want := map[int]int{1: 6, 2: 6, 3: 1}
	for p, size := range want {
		s.GoToPage(p)
		require.Equal(t, p, s.PageState().CurrentPage)
		assert.Len(t, s.Page().Items, size, "page %d", p)
	}
}

func TestState_GoToPageSliceLengths(t *testing.T) {
	for _, n := range []int{1, 5, 6, 7, 12, 13, 25} {
		for _, size := range []int{1, 3, 6, 10} {
			s := newTestState(t, size, makeItems(n))
			total := s.PageState().TotalPages
			var seen []string
			for p := 1; p <= total; p++ {
				s.GoToPage(p)
				got := s.Page().Items
				assert.Len(t, got, min(size, n-(p-1)*size), "n=%d size=%d page=%d", n, size, p)
				seen = append(seen, ids(got)...)
			}
			// Pages concatenate to the whole sorted view with no gaps or repeats.
			assert.Len(t, seen, n)
			assert.Len(t, slices.Compact(slices.Sorted(slices.Values(seen))), n)
		}
	}
}

func TestState_GoToPageOutOfRangeIgnored(t *testing.T) {
	s := newTestState(t, 6, makeItems(13))
	s.GoToPage(2)

	assert.False(t, s.GoToPage(0))
	assert.False(t, s.GoToPage(-3))
	assert.False(t, s.GoToPage(4))
	assert.Equal(t, 2, s.PageState().CurrentPage)
}

func TestState_NavigationBoundaries(t *testing.T) {
	s := newTestState(t, 6, makeItems(13))

	assert.False(t, s.CanGoPrev())
	assert.True(t, s.CanGoNext())

	require.True(t, s.NextPage())
	assert.True(t, s.CanGoPrev())
	assert.True(t, s.CanGoNext())

	require.True(t, s.NextPage())
	assert.True(t, s.CanGoPrev())
	assert.False(t, s.CanGoNext())
	assert.False(t, s.NextPage())
	assert.Equal(t, 3, s.PageState().CurrentPage)

	require.True(t, s.PrevPage())
	require.True(t, s.PrevPage())
	assert.False(t, s.PrevPage())
	assert.Equal(t, 1, s.PageState().CurrentPage)
}

func TestState_SinglePageHasNoNavigation(t *testing.T) {
	s := newTestState(t, 6, makeItems(4))
	assert.False(t, s.CanGoPrev())
	assert.False(t, s.CanGoNext())
}

func TestState_SetSearchTerm(t *testing.T) {
	t.Run("resets to page 1", func(t *testing.T) {
		s := newTestState(t, 2, makeItems(13))
		s.GoToPage(3)
		require.True(t, s.SetSearchTerm("Assignment"))
		assert.Equal(t, 1, s.PageState().CurrentPage)
	})

	t.Run("idempotent", func(t *testing.T) {
		renders := 0
		cfg := testConfig(2)
		cfg.Sink = SinkFunc[testItem](func(Page[testItem]) { renders++ })
		s, err := New(cfg)
		require.NoError(t, err)
		s.Refresh(makeItems(13))

		require.True(t, s.SetSearchTerm("assign"))
		s.GoToPage(2)
		before := renders

		assert.False(t, s.SetSearchTerm("assign"))
		assert.False(t, s.SetSearchTerm("ASSIGN"))
		assert.Equal(t, 2, s.PageState().CurrentPage)
		assert.Equal(t, before, renders)
	})

	t.Run("stored lower-cased", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(3))
		s.SetSearchTerm("WeeKLY")
		assert.Equal(t, "weekly", s.Filter().SearchTerm)
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		items := []testItem{
			{ID: "1", Title: "ABC123", Created: baseTime},
			{ID: "2", Title: "xyz", Created: baseTime.Add(time.Hour)},
			{ID: "3", Title: "abcdef", Created: baseTime.Add(2 * time.Hour)},
		}
		s := newTestState(t, 6, items)
		s.SetSort("title", SortOrderAsc)
		s.SetSearchTerm("abc")
		assert.Equal(t, []string{"1", "3"}, ids(s.Page().Items))
		assert.Equal(t, 2, s.PageState().TotalItems)
	})

	t.Run("matches description", func(t *testing.T) {
		items := []testItem{
			{ID: "1", Title: "Lab", Desc: "Binary trees"},
			{ID: "2", Title: "Essay", Desc: "History"},
		}
		s := newTestState(t, 6, items)
		s.SetSearchTerm("tree")
		assert.Equal(t, []string{"1"}, ids(s.Page().Items))
	})

	t.Run("empty term matches all", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(5))
		s.SetSearchTerm("zzz")
		assert.Equal(t, 0, s.PageState().TotalItems)
		s.SetSearchTerm("")
		assert.Equal(t, 5, s.PageState().TotalItems)
	})
}

func TestState_SetCategoricalFilter(t *testing.T) {
	t.Run("filters and resets page", func(t *testing.T) {
		s := newTestState(t, 2, makeItems(13))
		s.GoToPage(4)
		require.True(t, s.SetCategoricalFilter("completed"))
		assert.Equal(t, 1, s.PageState().CurrentPage)
		assert.Equal(t, 6, s.PageState().TotalItems)
		for _, it := range s.Page().Items {
			assert.Equal(t, "completed", it.Status)
		}
	})

	t.Run("all is a no-op", func(t *testing.T) {
		items := makeItems(13)
		items[3].Title = "Quiz 3"
		items[8].Title = "Quiz 8"

		searchOnly := newTestState(t, 20, items)
		searchOnly.SetSearchTerm("quiz")

		combined := newTestState(t, 20, items)
		combined.SetCategoricalFilter("completed")
		combined.SetCategoricalFilter(AllValue)
		combined.SetSearchTerm("quiz")

		assert.Equal(t, ids(searchOnly.Page().Items), ids(combined.Page().Items))
		assert.Equal(t, searchOnly.PageState(), combined.PageState())
	})

	t.Run("empty means all", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(4))
		assert.False(t, s.SetCategoricalFilter(""))
		assert.Equal(t, AllValue, s.Filter().Category)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := newTestState(t, 2, makeItems(13))
		s.SetCategoricalFilter("active")
		s.GoToPage(2)
		assert.False(t, s.SetCategoricalFilter("active"))
		assert.Equal(t, 2, s.PageState().CurrentPage)
	})
}

func TestState_SetExtraFilter(t *testing.T) {
	items := makeItems(6)
	items[0].Kind = "pdf"
	items[2].Kind = "pdf"
	items[4].Kind = "doc"

	s := newTestState(t, 6, items)
	require.True(t, s.SetExtraFilter("kind", "pdf"))
	assert.ElementsMatch(t, []string{"a00", "a02"}, ids(s.Page().Items))

	// AND with the primary axis
	s.SetCategoricalFilter("completed")
	assert.Empty(t, s.Page().Items)

	s.SetCategoricalFilter(AllValue)
	require.True(t, s.SetExtraFilter("kind", AllValue))
	assert.Len(t, s.Page().Items, 6)
	assert.NotContains(t, s.Filter().Extra, "kind")
	assert.False(t, s.SetExtraFilter("kind", ""))
}

func TestState_SetSort(t *testing.T) {
	t.Run("keeps page", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(13))
		s.GoToPage(2)
		require.True(t, s.SetSort("title", SortOrderAsc))
		assert.Equal(t, 2, s.PageState().CurrentPage)
	})

	t.Run("default date desc", func(t *testing.T) {
		s := newTestState(t, 3, makeItems(5))
		assert.Equal(t, []string{"a04", "a03", "a02"}, ids(s.Page().Items))
	})

	t.Run("unknown field ignored", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(3))
		assert.False(t, s.SetSort("grade", SortOrderAsc))
		assert.False(t, s.SetSort("title", "up"))
		assert.Equal(t, SortCriteria{Field: "date", Order: SortOrderDesc}, s.Sort())
	})

	t.Run("same sort is a no-op", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(3))
		assert.False(t, s.SetSort("date", SortOrderDesc))
	})
}

func TestState_DescIsExactReverseOfAsc(t *testing.T) {
	items := []testItem{
		{ID: "1", Title: "beta", Created: baseTime},
		{ID: "2", Title: "alpha", Created: baseTime},
		{ID: "3", Title: "beta", Created: baseTime.Add(time.Hour)},
		{ID: "4", Title: "gamma", Created: baseTime.Add(-time.Hour)},
		{ID: "5", Title: "alpha", Created: baseTime.Add(time.Hour)},
	}

	for _, field := range []string{"date", "title"} {
		t.Run(field, func(t *testing.T) {
			s := newTestState(t, 10, items)
			s.SetSort(field, SortOrderAsc)
			asc := ids(s.Page().Items)

			s.SetSort(field, SortOrderDesc)
			desc := ids(s.Page().Items)

			slices.Reverse(desc)
			assert.Equal(t, asc, desc)
		})
	}
}

func TestState_TitleSortUsesCollation(t *testing.T) {
	items := []testItem{
		{ID: "z", Title: "Zebra"},
		{ID: "e", Title: "Éclair"},
		{ID: "a", Title: "apple"},
	}
	s := newTestState(t, 10, items)
	s.SetSort("title", SortOrderAsc)
	assert.Equal(t, []string{"a", "e", "z"}, ids(s.Page().Items))
}

func TestState_Refresh(t *testing.T) {
	t.Run("clamps to last valid page", func(t *testing.T) {
		items := makeItems(13)
		s := newTestState(t, 6, items)
		s.GoToPage(3)
		require.Equal(t, 3, s.PageState().CurrentPage)

		s.Refresh(items[:2])
		assert.Equal(t, 1, s.PageState().CurrentPage)
		assert.Equal(t, 1, s.PageState().TotalPages)
		assert.ElementsMatch(t, []string{"a00", "a01"}, ids(s.Page().Items))
	})

	t.Run("snaps to last page not first", func(t *testing.T) {
		items := makeItems(13)
		s := newTestState(t, 3, items)
		s.GoToPage(5)

		s.Refresh(items[:8])
		assert.Equal(t, 3, s.PageState().CurrentPage)
		assert.Len(t, s.Page().Items, 2)
	})

	t.Run("keeps page when still valid", func(t *testing.T) {
		items := makeItems(13)
		s := newTestState(t, 6, items)
		s.GoToPage(2)
		s.Refresh(items[:12])
		assert.Equal(t, 2, s.PageState().CurrentPage)
	})

	t.Run("keeps filters", func(t *testing.T) {
		s := newTestState(t, 6, makeItems(4))
		s.SetCategoricalFilter("active")
		s.Refresh(makeItems(10))
		assert.Equal(t, 5, s.PageState().TotalItems)
	})

	t.Run("does not alias caller slice", func(t *testing.T) {
		items := makeItems(3)
		s := newTestState(t, 6, items)
		items[0].Title = "changed"
		for _, it := range s.Page().Items {
			assert.NotEqual(t, "changed", it.Title)
		}
	})
}

func TestState_SinkReceivesEveryChange(t *testing.T) {
	var pages []Page[testItem]
	cfg := testConfig(6)
	cfg.Sink = SinkFunc[testItem](func(p Page[testItem]) { pages = append(pages, p) })
	s, err := New(cfg)
	require.NoError(t, err)

	s.Refresh(makeItems(13))
	s.NextPage()
	s.SetSort("title", SortOrderAsc)
	s.GoToPage(99)

	require.Len(t, pages, 3)
	last := pages[len(pages)-1]
	assert.Equal(t, 2, last.State.CurrentPage)
	assert.True(t, last.CanGoPrev)
	assert.True(t, last.CanGoNext)
	assert.Len(t, last.Items, 6)
}

func TestState_SortFields(t *testing.T) {
	s := newTestState(t, 6, nil)
	assert.Equal(t, []string{"date", "title"}, s.SortFields())
}
