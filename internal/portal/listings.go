package portal

import (
	"strconv"
	"time"

	"github.com/rshade/lectern/internal/pagination"
)

// Page sizes used by the portal's own views.
const (
	AssignmentsPageSize = 6
	ListPageSize        = 10
)

// ListingOptions tunes the listing configurations.
type ListingOptions struct {
	// Locale is the collation locale for text sorts.
	Locale string
	// Clock supplies "now" for derived fields such as assignment status.
	Clock Clock
}

func (o ListingOptions) now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock()
}

func desc(field string) pagination.SortCriteria {
	return pagination.SortCriteria{Field: field, Order: pagination.SortOrderDesc}
}

func asc(field string) pagination.SortCriteria {
	return pagination.SortCriteria{Field: field, Order: pagination.SortOrderAsc}
}

// AssignmentsListing is held client side: six per page, newest first, searched
// by title and description and filtered by derived status.
func AssignmentsListing(opts ListingOptions) pagination.Config[Assignment] {
	return pagination.Config[Assignment]{
		Mode:        pagination.ClientSide,
		PageSize:    AssignmentsPageSize,
		DefaultSort: desc("date"),
		Sorts: map[string]pagination.SortKey[Assignment]{
			"date":  pagination.ByTime(func(a Assignment) time.Time { return a.CreatedAt }),
			"due":   pagination.ByTime(func(a Assignment) time.Time { return a.DueDate }),
			"title": pagination.ByText(func(a Assignment) string { return a.Title }),
		},
		SearchFields: func(a Assignment) []string { return []string{a.Title, a.Description} },
		Category:     func(a Assignment) string { return string(a.Status(opts.now())) },
		Extra: map[string]func(Assignment) string{
			"course": func(a Assignment) string { return a.Course.ID },
		},
		Locale: opts.Locale,
	}
}

// CoursesListing is held client side and ordered by course code.
func CoursesListing(opts ListingOptions) pagination.Config[Course] {
	return pagination.Config[Course]{
		Mode:        pagination.ClientSide,
		PageSize:    ListPageSize,
		DefaultSort: asc("code"),
		Sorts: map[string]pagination.SortKey[Course]{
			"code":  pagination.ByText(func(c Course) string { return c.Code }),
			"title": pagination.ByText(func(c Course) string { return c.Title }),
		},
		SearchFields: func(c Course) []string { return []string{c.Code, c.Title} },
		Locale:       opts.Locale,
	}
}

// SubmissionsListing is paged by the portal.
func SubmissionsListing(opts ListingOptions) pagination.Config[Submission] {
	return pagination.Config[Submission]{
		Mode:        pagination.ServerSide,
		PageSize:    ListPageSize,
		DefaultSort: desc("date"),
		Sorts: map[string]pagination.SortKey[Submission]{
			"date": pagination.ByTime(func(s Submission) time.Time { return s.SubmittedAt }),
		},
		Locale: opts.Locale,
	}
}

// SharedFilesListing is paged by the portal; the category is the file status
// and the date axis filters by share date.
func SharedFilesListing(opts ListingOptions) pagination.Config[SharedFile] {
	return pagination.Config[SharedFile]{
		Mode:        pagination.ServerSide,
		PageSize:    ListPageSize,
		DefaultSort: desc("date"),
		Sorts: map[string]pagination.SortKey[SharedFile]{
			"date": pagination.ByTime(func(f SharedFile) time.Time { return f.SharedAt }),
		},
		Category: func(f SharedFile) string { return f.Status },
		Extra: map[string]func(SharedFile) string{
			SharedFilesDateAxis: func(f SharedFile) string { return f.SharedAt.Format(time.DateOnly) },
		},
		Locale: opts.Locale,
	}
}

// ShareableUsersListing is paged by the portal; the category is the role.
func ShareableUsersListing(opts ListingOptions) pagination.Config[ShareableUser] {
	return pagination.Config[ShareableUser]{
		Mode:        pagination.ServerSide,
		PageSize:    ListPageSize,
		DefaultSort: asc("name"),
		Sorts: map[string]pagination.SortKey[ShareableUser]{
			"name": pagination.ByText(func(u ShareableUser) string { return u.Name }),
		},
		Category: func(u ShareableUser) string { return u.Role },
		Locale:   opts.Locale,
	}
}

// NotificationsListing is paged by the portal; the category is read or unread.
func NotificationsListing(opts ListingOptions) pagination.Config[Notification] {
	return pagination.Config[Notification]{
		Mode:        pagination.ServerSide,
		PageSize:    ListPageSize,
		DefaultSort: desc("date"),
		Sorts: map[string]pagination.SortKey[Notification]{
			"date": pagination.ByTime(func(n Notification) time.Time { return n.SentAt }),
		},
		Category: Notification.ReadState,
		Locale:   opts.Locale,
	}
}

// FoldersListing is held client side and ordered by name.
func FoldersListing(opts ListingOptions) pagination.Config[Folder] {
	return pagination.Config[Folder]{
		Mode:        pagination.ClientSide,
		PageSize:    ListPageSize,
		DefaultSort: asc("name"),
		Sorts: map[string]pagination.SortKey[Folder]{
			"name":      pagination.ByText(func(f Folder) string { return f.Name }),
			"documents": pagination.ByNumber(func(f Folder) int { return f.DocumentCount }),
		},
		SearchFields: func(f Folder) []string { return []string{f.Name} },
		Category:     func(f Folder) string { return f.Status },
		Locale:       opts.Locale,
	}
}

// FolderDocumentsListing is paged by the portal.
func FolderDocumentsListing(opts ListingOptions) pagination.Config[Document] {
	return pagination.Config[Document]{
		Mode:        pagination.ServerSide,
		PageSize:    ListPageSize,
		DefaultSort: asc("title"),
		Sorts: map[string]pagination.SortKey[Document]{
			"title": pagination.ByText(func(d Document) string { return d.Title }),
		},
		Locale: opts.Locale,
	}
}

// ProjectYearsListing is held client side, most recent year first.
func ProjectYearsListing(opts ListingOptions) pagination.Config[ProjectYear] {
	return pagination.Config[ProjectYear]{
		Mode:        pagination.ClientSide,
		PageSize:    ListPageSize,
		DefaultSort: desc("year"),
		Sorts: map[string]pagination.SortKey[ProjectYear]{
			"year":   pagination.ByText(func(y ProjectYear) string { return y.AcademicYear }),
			"groups": pagination.ByNumber(func(y ProjectYear) int { return y.TotalGroups }),
		},
		SearchFields: func(y ProjectYear) []string { return []string{y.AcademicYear} },
		Category:     func(y ProjectYear) string { return y.Status },
		Locale:       opts.Locale,
	}
}

// ProjectGroupsListing is held client side and ordered by group number.
func ProjectGroupsListing(opts ListingOptions) pagination.Config[ProjectGroup] {
	return pagination.Config[ProjectGroup]{
		Mode:        pagination.ClientSide,
		PageSize:    ListPageSize,
		DefaultSort: asc("number"),
		Sorts: map[string]pagination.SortKey[ProjectGroup]{
			"number": pagination.ByNumber(func(g ProjectGroup) int { return g.GroupNumber }),
			"topic":  pagination.ByText(func(g ProjectGroup) string { return g.Topic }),
		},
		SearchFields: func(g ProjectGroup) []string {
			return []string{strconv.Itoa(g.GroupNumber), g.Topic, g.CurrentStage}
		},
		Category: func(g ProjectGroup) string { return g.CurrentStage },
		Locale:   opts.Locale,
	}
}
