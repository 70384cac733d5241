package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rshade/lectern/internal/portal"
	"github.com/rshade/lectern/internal/tui"
)

const dateLayout = time.DateOnly

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func formatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}

// field is one label/value line of a detail view.
type field struct {
	label string
	value string
}

// renderDetail lays out fields as aligned "label  value" lines.
func renderDetail(title string, fields ...field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.label))
	}

	var b strings.Builder
	b.WriteString(tui.HeaderStyle.Render(title))
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "-"
		}
		b.WriteString("\n")
		b.WriteString(tui.LabelStyle.Render(fmt.Sprintf("%-*s", width, f.label)))
		b.WriteString("  ")
		b.WriteString(tui.ValueStyle.Render(value))
	}
	return b.String()
}

func assignmentColumns(now portal.Clock) []tui.Column[portal.Assignment] {
	return []tui.Column[portal.Assignment]{
		{Title: "Title", Width: 32, Value: func(a portal.Assignment) string { return a.Title }},
		{Title: "Course", Width: 16, Value: func(a portal.Assignment) string { return a.Course.Label() }},
		{Title: "Due", Width: 10, Value: func(a portal.Assignment) string { return formatDate(a.DueDate) }},
		{Title: "Status", Width: 9, Value: func(a portal.Assignment) string { return string(a.Status(now())) }},
		{Title: "ID", Width: 24, Value: func(a portal.Assignment) string { return a.ID }},
	}
}

func assignmentDetail(now portal.Clock) func(portal.Assignment) string {
	return func(a portal.Assignment) string {
		return renderDetail(a.Title,
			field{"Course", a.Course.Label()},
			field{"Due", formatDate(a.DueDate) + " (" + humanize.RelTime(a.DueDate, now(), "ago", "from now") + ")"},
			field{"Status", string(a.Status(now()))},
			field{"Created", formatDate(a.CreatedAt)},
			field{"ID", a.ID},
			field{"Description", a.Description},
		)
	}
}

func courseColumns() []tui.Column[portal.Course] {
	return []tui.Column[portal.Course]{
		{Title: "Code", Width: 10, Value: func(c portal.Course) string { return c.Code }},
		{Title: "Title", Width: 40, Value: func(c portal.Course) string { return c.Title }},
		{Title: "ID", Width: 24, Value: func(c portal.Course) string { return c.ID }},
	}
}

func submissionColumns() []tui.Column[portal.Submission] {
	return []tui.Column[portal.Submission]{
		{Title: "Student", Width: 24, Value: func(s portal.Submission) string { return s.Student.Label() }},
		{Title: "File", Width: 32, Value: func(s portal.Submission) string {
			if s.Document == nil {
				return "-"
			}
			return s.Document.OriginalName
		}},
		{Title: "Size", Width: 9, Right: true, Value: func(s portal.Submission) string {
			if s.Document == nil {
				return "-"
			}
			return formatSize(s.Document.Size)
		}},
		{Title: "Submitted", Width: 10, Value: func(s portal.Submission) string { return formatDate(s.SubmittedAt) }},
	}
}

func sharedFileColumns() []tui.Column[portal.SharedFile] {
	return []tui.Column[portal.SharedFile]{
		{Title: "Title", Width: 28, Value: func(f portal.SharedFile) string { return f.Title }},
		{Title: "File", Width: 24, Value: func(f portal.SharedFile) string { return f.Filename }},
		{Title: "Size", Width: 9, Right: true, Value: func(f portal.SharedFile) string { return formatSize(f.Size) }},
		{Title: "Status", Width: 9, Value: func(f portal.SharedFile) string { return f.Status }},
		{Title: "Shared by", Width: 18, Value: func(f portal.SharedFile) string { return f.SharedBy.Label() }},
		{Title: "Shared", Width: 10, Value: func(f portal.SharedFile) string { return formatDate(f.SharedAt) }},
	}
}

func sharedFileDetail(f portal.SharedFile) string {
	return renderDetail(f.Title,
		field{"File", f.Filename},
		field{"Size", formatSize(f.Size)},
		field{"Type", f.MimeType},
		field{"Status", f.Status},
		field{"Shared by", f.SharedBy.Label()},
		field{"Shared", formatDate(f.SharedAt)},
		field{"URL", f.FileURL},
	)
}

func userColumns() []tui.Column[portal.ShareableUser] {
	return []tui.Column[portal.ShareableUser]{
		{Title: "Name", Width: 24, Value: func(u portal.ShareableUser) string { return u.Name }},
		{Title: "Email", Width: 28, Value: func(u portal.ShareableUser) string { return u.Email }},
		{Title: "Role", Width: 9, Value: func(u portal.ShareableUser) string { return u.Role }},
		{Title: "Student ID", Width: 12, Value: func(u portal.ShareableUser) string { return u.StudentID }},
		{Title: "Level", Width: 5, Right: true, Value: func(u portal.ShareableUser) string { return u.Level }},
	}
}

func notificationColumns() []tui.Column[portal.Notification] {
	return []tui.Column[portal.Notification]{
		{Title: "", Width: 1, Value: func(n portal.Notification) string {
			if n.Read {
				return " "
			}
			return "*"
		}},
		{Title: "Title", Width: 32, Value: func(n portal.Notification) string { return n.Title }},
		{Title: "From", Width: 18, Value: func(n portal.Notification) string {
			if n.Sender == nil {
				return "system"
			}
			return n.Sender.Label()
		}},
		{Title: "Sent", Width: 14, Value: func(n portal.Notification) string {
			if n.SentAt.IsZero() {
				return "-"
			}
			return humanize.Time(n.SentAt)
		}},
		{Title: "ID", Width: 24, Value: func(n portal.Notification) string { return n.ID }},
	}
}

func notificationDetail(n portal.Notification) string {
	sender := "system"
	if n.Sender != nil {
		sender = n.Sender.Label()
	}
	return renderDetail(n.Title,
		field{"From", sender},
		field{"Sent", formatDate(n.SentAt)},
		field{"State", n.ReadState()},
		field{"Message", n.Message},
	)
}

func folderColumns() []tui.Column[portal.Folder] {
	return []tui.Column[portal.Folder]{
		{Title: "Name", Width: 32, Value: func(f portal.Folder) string { return f.Name }},
		{Title: "Documents", Width: 9, Right: true, Value: func(f portal.Folder) string {
			return humanize.Comma(int64(f.DocumentCount))
		}},
		{Title: "Status", Width: 9, Value: func(f portal.Folder) string { return f.Status }},
		{Title: "ID", Width: 24, Value: func(f portal.Folder) string { return f.ID }},
	}
}

func documentColumns() []tui.Column[portal.Document] {
	return []tui.Column[portal.Document]{
		{Title: "Title", Width: 28, Value: func(d portal.Document) string { return d.Title }},
		{Title: "File", Width: 28, Value: func(d portal.Document) string { return d.Name() }},
		{Title: "Size", Width: 9, Right: true, Value: func(d portal.Document) string { return formatSize(d.FileInfo.Size) }},
		{Title: "Uploaded", Width: 10, Value: func(d portal.Document) string { return formatDate(d.FileInfo.UploadDate) }},
	}
}

func documentDetail(d portal.Document) string {
	return renderDetail(d.Title,
		field{"File", d.Name()},
		field{"Size", formatSize(d.FileInfo.Size)},
		field{"Type", d.FileInfo.MimeType},
		field{"Status", d.Status},
		field{"URL", d.FileURL},
	)
}

func projectYearColumns() []tui.Column[portal.ProjectYear] {
	return []tui.Column[portal.ProjectYear]{
		{Title: "Year", Width: 10, Value: func(y portal.ProjectYear) string { return y.AcademicYear }},
		{Title: "Status", Width: 9, Value: func(y portal.ProjectYear) string { return y.Status }},
		{Title: "Groups", Width: 6, Right: true, Value: func(y portal.ProjectYear) string { return strconv.Itoa(y.TotalGroups) }},
		{Title: "Students", Width: 8, Right: true, Value: func(y portal.ProjectYear) string {
			return humanize.Comma(int64(y.TotalStudents))
		}},
		{Title: "ID", Width: 24, Value: func(y portal.ProjectYear) string { return y.ID }},
	}
}

func projectGroupColumns() []tui.Column[portal.ProjectGroup] {
	return []tui.Column[portal.ProjectGroup]{
		{Title: "Group", Width: 5, Right: true, Value: func(g portal.ProjectGroup) string { return strconv.Itoa(g.GroupNumber) }},
		{Title: "Topic", Width: 40, Value: func(g portal.ProjectGroup) string { return g.Topic }},
		{Title: "Stage", Width: 16, Value: func(g portal.ProjectGroup) string { return g.CurrentStage }},
	}
}
