package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lectern/internal/pagination"
	"github.com/rshade/lectern/internal/portal"
)

type assignmentsJSON struct {
	Items []struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
	} `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
	Stale      bool            `json:"stale"`
}

func decodeAssignments(t *testing.T, out string) assignmentsJSON {
	t.Helper()
	var got assignmentsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	return got
}

func TestLogin(t *testing.T) {
	fp := newFakePortal(t)

	t.Run("password from stdin", func(t *testing.T) {
		home := setupHome(t)
		out, err := execute(t, fp, "secret\n", "login", "--email", "ada@uni.edu", "--password-stdin")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged in as Ada Lovelace (ada@uni.edu)")

		sess, err := portal.NewSessionStore(filepath.Join(home, "session.yaml")).Load()
		require.NoError(t, err)
		assert.Equal(t, testToken, sess.Token)
		assert.Equal(t, testUserID, sess.User.ID)
	})

	t.Run("not a lecturer", func(t *testing.T) {
		home := setupHome(t)
		_, err := execute(t, fp, "secret\n", "login", "--email", "ben@uni.edu", "--password-stdin")
		require.ErrorIs(t, err, portal.ErrNotLecturer)
		assert.NoFileExists(t, filepath.Join(home, "session.yaml"))
	})

	t.Run("bad password", func(t *testing.T) {
		setupHome(t)
		_, err := execute(t, fp, "wrong\n", "login", "--email", "ada@uni.edu", "--password-stdin")
		require.ErrorIs(t, err, portal.ErrUnauthorized)
	})

	t.Run("missing credentials without a terminal", func(t *testing.T) {
		setupHome(t)
		_, err := execute(t, fp, "", "login", "--email", "ada@uni.edu")
		require.ErrorIs(t, err, portal.ErrMissingArgument)
	})
}

func TestLogoutAndProfile(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	out, err := execute(t, fp, "", "profile", "--output", "json")
	require.NoError(t, err)
	var profile portal.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, "Computing (CS)", profile.Department)

	out, err = execute(t, fp, "", "--plain", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Department")
	assert.Contains(t, out, "Computing (CS)")

	out, err = execute(t, fp, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.NoFileExists(t, filepath.Join(home, "session.yaml"))

	_, err = execute(t, fp, "", "profile")
	require.ErrorIs(t, err, portal.ErrNotLoggedIn)
}

func TestAssignmentsList(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	t.Run("plain table", func(t *testing.T) {
		out, err := execute(t, fp, "", "--plain", "assignments", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "TITLE")
		assert.Contains(t, out, "Lab 13")
		assert.NotContains(t, out, "Lab 7", "six per page, newest first")
		assert.Contains(t, out, "Page 1/3 · 13 items  filter=all  sort=date:desc")
	})

	t.Run("status and course filters", func(t *testing.T) {
		out, err := execute(t, fp, "", "assignments", "list", "-o", "json", "--status", "completed", "--course", "c1")
		require.NoError(t, err)
		got := decodeAssignments(t, out)
		ids := make([]string, 0, len(got.Items))
		for _, it := range got.Items {
			ids = append(ids, it.ID)
		}
		assert.Equal(t, []string{"a03", "a01"}, ids)
		assert.Equal(t, "completed", got.Pagination.Filter)
		assert.Equal(t, 2, got.Pagination.TotalItems)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		out, err := execute(t, fp, "", "assignments", "list", "-o", "json", "--search", "LAB 1")
		require.NoError(t, err)
		got := decodeAssignments(t, out)
		assert.Equal(t, 5, got.Pagination.TotalItems, "Lab 1, 10, 11, 12, 13")
		assert.Equal(t, "lab 1", got.Pagination.Search)
	})

	t.Run("page past the end shows the last page", func(t *testing.T) {
		out, err := execute(t, fp, "", "assignments", "list", "-o", "json", "--page", "9")
		require.NoError(t, err)
		got := decodeAssignments(t, out)
		assert.Equal(t, 3, got.Pagination.CurrentPage)
		assert.False(t, got.Pagination.HasNext)
		assert.True(t, got.Pagination.HasPrevious)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "a01", got.Items[0].ID)
	})

	t.Run("sort and page size", func(t *testing.T) {
		out, err := execute(t, fp, "", "assignments", "list", "-o", "json", "--sort", "title-asc", "--page-size", "20")
		require.NoError(t, err)
		got := decodeAssignments(t, out)
		require.Len(t, got.Items, 13)
		assert.Equal(t, "Lab 1", got.Items[0].Title)
		assert.Equal(t, "Lab 10", got.Items[1].Title, "titles collate lexically")
		assert.Equal(t, "title:asc", got.Pagination.Sort)
	})

	t.Run("ndjson", func(t *testing.T) {
		out, err := execute(t, fp, "", "assignments", "list", "-o", "ndjson")
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, fp, "", "assignments", "list", "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "pagination:")
		assert.Contains(t, out, "total_pages: 3")
	})

	t.Run("no matches", func(t *testing.T) {
		out, err := execute(t, fp, "", "--plain", "assignments", "list", "--search", "thesis")
		require.NoError(t, err)
		assert.Contains(t, out, emptyListMessage)
		assert.Contains(t, out, "Page 1/1 · 0 items")
	})
}

func TestAssignmentsList_InvalidFlags(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown sort field", args: []string{"--sort", "grade"}, wantErr: pagination.ErrInvalidSortField, wantMsg: "date, due, title"},
		{name: "bad sort order", args: []string{"--sort", "date:sideways"}, wantErr: pagination.ErrInvalidSortOrder},
		{name: "page size too large", args: []string{"--page-size", "500"}, wantErr: pagination.ErrInvalidPageSize},
		{name: "negative page", args: []string{"--page=-1"}, wantMsg: "page cannot be negative"},
		{name: "bad output", args: []string{"--output", "xml"}, wantMsg: "unsupported output format"},
		{name: "interactive without terminal", args: []string{"--interactive"}, wantErr: errNotInteractive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, fp, "", append([]string{"assignments", "list"}, tt.args...)...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFilesList_ServerPaging(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	out, err := execute(t, fp, "", "files", "list", "-o", "json", "--page", "9", "--status", "approved")
	require.NoError(t, err)

	var got struct {
		Items      []portal.SharedFile `json:"items"`
		Pagination pagination.Meta     `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Pagination.CurrentPage)
	assert.Equal(t, 25, got.Pagination.TotalItems)
	require.Len(t, got.Items, 5)
	assert.Equal(t, "f21", got.Items[0].ID)

	queries := fp.queries["shared"]
	require.Len(t, queries, 2, "first page, then the clamped page")
	assert.Contains(t, queries[0], "page=1")
	assert.Contains(t, queries[1], "page=3")
	assert.Contains(t, queries[1], "status=approved")
	assert.Contains(t, queries[1], "sort=date-desc")
}

func TestFilesList_Sort(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	out, err := execute(t, fp, "", "files", "list", "-o", "json", "--sort", "date:asc")
	require.NoError(t, err)

	var got struct {
		Items      []portal.SharedFile `json:"items"`
		Pagination pagination.Meta     `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "date:asc", got.Pagination.Sort)
	require.Len(t, got.Items, 10)
	assert.Equal(t, "f10", got.Items[0].ID, "oldest share of the page first")
	assert.Equal(t, "f01", got.Items[9].ID)
	assert.Contains(t, fp.queries["shared"][0], "sort=date-asc")
}

func TestNotifications(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	out, err := execute(t, fp, "", "--plain", "notifications", "list", "--filter", "unread")
	require.NoError(t, err)
	assert.Contains(t, out, "Exam board")
	assert.Contains(t, out, "system")
	require.NotEmpty(t, fp.queries["notifications"])
	assert.Contains(t, fp.queries["notifications"][0], "read=false")

	_, err = execute(t, fp, "", "notifications", "read", "n1")
	require.NoError(t, err)
	_, err = execute(t, fp, "", "notifications", "read-all")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "*"}, fp.marked)
}

func TestFilesDownload(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)
	dest := filepath.Join(t.TempDir(), "report.pdf")

	out, err := execute(t, fp, "", "files", "download", "report.pdf", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "(2.0 kB)")
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Len(t, data, 2048)

	_, err = execute(t, fp, "", "files", "download", "report.pdf", "--out", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, fp, "", "files", "download", "report.pdf", "--out", dest, "--force")
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "missing.pdf")
	_, err = execute(t, fp, "", "files", "download", "missing.pdf", "--out", missing)
	require.Error(t, err)
	assert.NoFileExists(t, missing, "partial downloads are removed")
}

func TestDashboard(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	out, err := execute(t, fp, "", "dashboard", "-o", "json")
	require.NoError(t, err)
	var d portal.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, portal.Dashboard{
		Assignments:          13,
		ActiveAssignments:    9,
		CompletedAssignments: 4,
		Courses:              2,
		UnreadNotifications:  1,
	}, d)
}

func TestExpiredSessionIsCleared(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)
	fp.expire()

	_, err := execute(t, fp, "", "assignments", "list")
	require.ErrorIs(t, err, portal.ErrUnauthorized)
	assert.NoFileExists(t, filepath.Join(home, "session.yaml"))

	_, err = execute(t, fp, "", "assignments", "list")
	require.ErrorIs(t, err, portal.ErrNotLoggedIn)
}

func TestOfflineListing(t *testing.T) {
	fp := newFakePortal(t)
	home := setupHome(t)
	saveSession(t, home)

	out, err := execute(t, fp, "", "assignments", "list", "-o", "json")
	require.NoError(t, err)
	assert.False(t, decodeAssignments(t, out).Stale)

	fp.srv.Close()

	out, err = execute(t, fp, "", "assignments", "list", "-o", "json", "--status", "completed")
	require.NoError(t, err)
	got := decodeAssignments(t, out)
	assert.True(t, got.Stale)
	assert.Equal(t, 4, got.Pagination.TotalItems)

	out, err = execute(t, fp, "", "--plain", "assignments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, staleMessage)

	_, err = execute(t, fp, "", "courses", "list")
	require.Error(t, err, "nothing cached for courses")
}
