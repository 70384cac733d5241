package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rshade/lectern/internal/pagination"
)

const pathNotifications = "/api/lecturer/notifications"

// NotificationsPage is one page of notifications with the unread total.
type NotificationsPage struct {
	pagination.Result[Notification]
	UnreadCount int
}

// ListNotifications returns one page of received notifications. The category
// filter selects read or unread notifications.
func (c *Client) ListNotifications(ctx context.Context, q pagination.Query) (NotificationsPage, error) {
	params := pageParams(q)
	switch q.CategoryParam() {
	case NotificationRead:
		params.Set("read", "true")
	case NotificationUnread:
		params.Set("read", "false")
	}

	var body struct {
		Notifications []Notification `json:"notifications"`
		CurrentPage   int            `json:"currentPage"`
		TotalPages    int            `json:"totalPages"`
		Total         int            `json:"total"`
		UnreadCount   int            `json:"unreadCount"`
	}
	stale, err := c.getJSON(ctx, pathNotifications, params, &body)
	if err != nil {
		return NotificationsPage{}, fmt.Errorf("listing notifications: %w", err)
	}

	// The endpoint omits the item count; Apply derives a lower bound from the page.
	return NotificationsPage{
		Result: pagination.Result[Notification]{
			Items:       body.Notifications,
			TotalItems:  body.Total,
			CurrentPage: max(body.CurrentPage, 1),
			TotalPages:  max(body.TotalPages, 1),
			Stale:       stale,
		},
		UnreadCount: body.UnreadCount,
	}, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: notification ID", ErrMissingArgument)
	}
	path := pathNotifications + "/" + url.PathEscape(id) + "/read"
	if err := c.sendJSON(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.sendJSON(ctx, http.MethodPut, pathNotifications+"/read-all", nil, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}
