package pagination

// Command is a user interaction applied to a State through Dispatch.
type Command interface {
	command()
}

// SearchChanged sets the search term.
type SearchChanged struct{ Term string }

// FilterChanged sets a categorical filter. An empty Key targets the primary axis.
type FilterChanged struct{ Key, Value string }

// SortChanged sets the sort field and order.
type SortChanged struct {
	Field string
	Order Order
}

// PageRequested jumps to a page.
type PageRequested struct{ Page int }

// NextPage moves forward one page.
type NextPage struct{}

// PrevPage moves back one page.
type PrevPage struct{}

// Refreshed replaces the backing collection, or only the visible page in server
// mode (see State.Refresh). Stale marks items served from an offline copy.
type Refreshed[T any] struct {
	Items []T
	Stale bool
}

// Reload re-issues the current query of a server-side listing.
type Reload struct{}

// Applied delivers the backend result of a sequenced request.
type Applied[T any] struct {
	Seq    uint64
	Result Result[T]
}

func (SearchChanged) command() {}
func (FilterChanged) command() {}
func (SortChanged) command()   {}
func (PageRequested) command() {}
func (NextPage) command()      {}
func (PrevPage) command()      {}
func (Refreshed[T]) command()  {}
func (Reload) command()        {}
func (Applied[T]) command()    {}

// Dispatch applies cmd and returns the settled page together with the request the
// caller must execute, if the command issued one. Unknown commands are ignored.
func (s *State[T]) Dispatch(cmd Command) (Page[T], *Request) {
	switch c := cmd.(type) {
	case SearchChanged:
		s.SetSearchTerm(c.Term)
	case FilterChanged:
		if c.Key == "" {
			s.SetCategoricalFilter(c.Value)
		} else {
			s.SetExtraFilter(c.Key, c.Value)
		}
	case SortChanged:
		s.SetSort(c.Field, c.Order)
	case PageRequested:
		s.GoToPage(c.Page)
	case NextPage:
		s.NextPage()
	case PrevPage:
		s.PrevPage()
	case Refreshed[T]:
		s.refresh(c.Items, c.Stale)
	case Reload:
		s.Reload()
	case Applied[T]:
		s.Apply(c.Seq, c.Result)
	}

	if req, ok := s.TakeRequest(); ok {
		return s.Page(), &req
	}
	return s.Page(), nil
}
