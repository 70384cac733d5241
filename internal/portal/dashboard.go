package portal

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/lectern/internal/pagination"
)

// Dashboard summarizes the lecturer's workload.
type Dashboard struct {
	Assignments          int  `json:"assignments"           yaml:"assignments"`
	ActiveAssignments    int  `json:"active_assignments"    yaml:"active_assignments"`
	CompletedAssignments int  `json:"completed_assignments" yaml:"completed_assignments"`
	Courses              int  `json:"courses"               yaml:"courses"`
	UnreadNotifications  int  `json:"unread_notifications"  yaml:"unread_notifications"`
	Stale                bool `json:"stale,omitempty"       yaml:"stale,omitempty"`
}

// Dashboard fetches assignment, course and unread notification counts
// concurrently. The first failure cancels the remaining requests.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		assignments   pagination.Result[Assignment]
		courses       pagination.Result[Course]
		notifications NotificationsPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assignments, err = c.ListAssignments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = c.ListCourses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = c.ListNotifications(gctx, pagination.Query{
			Category: NotificationUnread,
			Page:     1,
			PageSize: 1,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}

	now := c.now()
	d := &Dashboard{
		Assignments:         len(assignments.Items),
		Courses:             len(courses.Items),
		UnreadNotifications: notifications.UnreadCount,
		Stale:               assignments.Stale || courses.Stale || notifications.Stale,
	}
	for _, a := range assignments.Items {
		if a.Status(now) == StatusCompleted {
			d.CompletedAssignments++
		} else {
			d.ActiveAssignments++
		}
	}
	return d, nil
}
