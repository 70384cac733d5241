package portal

import "time"

// AssignmentStatus is derived from an assignment's due date.
type AssignmentStatus string

// Assignment statuses.
const (
	StatusActive    AssignmentStatus = "active"
	StatusCompleted AssignmentStatus = "completed"
)

// Notification read-state filter values.
const (
	NotificationRead   = "read"
	NotificationUnread = "unread"
)

// Clock returns the current time.
type Clock func() time.Time

// DeriveStatus reports StatusCompleted once now is strictly after due, and
// StatusActive otherwise.
func DeriveStatus(due, now time.Time) AssignmentStatus {
	if now.After(due) {
		return StatusCompleted
	}
	return StatusActive
}
