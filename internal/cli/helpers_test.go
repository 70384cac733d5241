package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rshade/lectern/internal/portal"
)

const (
	testToken  = "session-token"
	testUserID = "u1"
)

// fakePortal is an in-memory lecturer portal backend.
type fakePortal struct {
	t   *testing.T
	srv *httptest.Server

	mu           sync.Mutex
	queries      map[string][]string
	marked       []string
	unauthorized bool
}

// newFakePortal starts a backend with 13 assignments (4 past due), 2 courses
// and 25 shared files.
func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()
	fp := &fakePortal{t: t, queries: make(map[string][]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", fp.login)
	mux.HandleFunc("GET /api/auth/profile", fp.authed(func(w http.ResponseWriter, _ *http.Request) {
		fp.write(w, http.StatusOK, `{"data":{"firstName":"Ada","lastName":"Lovelace","email":"ada@uni.edu","department_id":{"name":"Computing","code":"CS"}}}`)
	}))
	mux.HandleFunc("GET /api/lecturer/assignments", fp.authed(fp.assignments))
	mux.HandleFunc("GET /api/lecturer/courses", fp.authed(func(w http.ResponseWriter, _ *http.Request) {
		fp.write(w, http.StatusOK, `{"data":{"courses":[{"_id":"c1","code":"CS401","title":"Compilers"},{"_id":"c2","code":"CS210","title":"Data Structures"}]}}`)
	}))
	mux.HandleFunc("GET /api/files/shared", fp.authed(fp.sharedFiles))
	mux.HandleFunc("GET /api/lecturer/notifications", fp.authed(func(w http.ResponseWriter, r *http.Request) {
		fp.record("notifications", r)
		fp.write(w, http.StatusOK, `{"notifications":[{"_id":"n1","title":"Exam board","message":"Friday 10am","read":false,"sent_at":"2026-01-05T08:00:00Z"}],"currentPage":1,"totalPages":1,"unreadCount":1}`)
	}))
	mux.HandleFunc("PUT /api/lecturer/notifications/{id}/read", fp.authed(func(w http.ResponseWriter, r *http.Request) {
		fp.mark(r.PathValue("id"))
		fp.write(w, http.StatusOK, `{"success":true}`)
	}))
	mux.HandleFunc("PUT /api/lecturer/notifications/read-all", fp.authed(func(w http.ResponseWriter, _ *http.Request) {
		fp.mark("*")
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/files/{file}/download", fp.authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("file") != "report.pdf" {
			fp.write(w, http.StatusNotFound, `{"message":"File not found"}`)
			return
		}
		_, _ = io.WriteString(w, strings.Repeat("x", 2048))
	}))

	fp.srv = httptest.NewServer(mux)
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakePortal) write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := io.WriteString(w, body)
	require.NoError(fp.t, err)
}

func (fp *fakePortal) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fp.mu.Lock()
		expired := fp.unauthorized
		fp.mu.Unlock()
		if expired || r.Header.Get("Authorization") != "Bearer "+testToken {
			fp.write(w, http.StatusUnauthorized, `{"message":"Token expired"}`)
			return
		}
		h(w, r)
	}
}

func (fp *fakePortal) record(name string, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.queries[name] = append(fp.queries[name], r.URL.RawQuery)
}

func (fp *fakePortal) mark(id string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.marked = append(fp.marked, id)
}

func (fp *fakePortal) expire() {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.unauthorized = true
}

func (fp *fakePortal) login(w http.ResponseWriter, r *http.Request) {
	var creds map[string]string
	require.NoError(fp.t, json.NewDecoder(r.Body).Decode(&creds))
	switch {
	case creds["email"] == "ada@uni.edu" && creds["password"] == "secret":
		fp.write(w, http.StatusOK, fmt.Sprintf(
			`{"token":%q,"user":{"id":%q,"name":"Ada Lovelace","email":"ada@uni.edu","role":"Lecturer"}}`,
			testToken, testUserID))
	case creds["email"] == "ben@uni.edu":
		fp.write(w, http.StatusOK, `{"token":"student","user":{"id":"u2","name":"Ben","role":"Student"}}`)
	default:
		fp.write(w, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	}
}

// assignments serves a01..a13. a01-a04 are past due; odd numbers belong to c1.
func (fp *fakePortal) assignments(w http.ResponseWriter, _ *http.Request) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]map[string]any, 0, 13)
	for i := 1; i <= 13; i++ {
		due := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
		if i <= 4 {
			due = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		course := "c2"
		if i%2 == 1 {
			course = "c1"
		}
		items = append(items, map[string]any{
			"_id":         fmt.Sprintf("a%02d", i),
			"title":       fmt.Sprintf("Lab %d", i),
			"description": "Weekly lab",
			"due_date":    due,
			"course_id":   map[string]string{"_id": course, "code": strings.ToUpper(course)},
			"createdAt":   created.AddDate(0, 0, i),
		})
	}
	data, err := json.Marshal(map[string]any{"assignments": items})
	require.NoError(fp.t, err)
	fp.write(w, http.StatusOK, string(data))
}

// sharedFiles pages f01..f25 by page and limit, newest share first.
func (fp *fakePortal) sharedFiles(w http.ResponseWriter, r *http.Request) {
	fp.record("shared", r)
	sharedAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	const total = 25

	shares := []map[string]any{}
	for i := (page-1)*limit + 1; i <= min(page*limit, total); i++ {
		shares = append(shares, map[string]any{
			"file_id": map[string]any{
				"_id":      fmt.Sprintf("f%02d", i),
				"title":    fmt.Sprintf("File %d", i),
				"status":   "approved",
				"file_url": fmt.Sprintf("f%02d.pdf", i),
				"fileInfo": map[string]any{"originalName": fmt.Sprintf("f%02d.pdf", i), "size": 1024},
			},
			"shared_by": map[string]string{"name": "HoD"},
			"shared_at": sharedAt.Add(-time.Duration(i) * time.Hour),
		})
	}
	pages := (total + limit - 1) / limit
	data, err := json.Marshal(map[string]any{
		"success": true,
		"data": map[string]any{
			"shares":     shares,
			"pagination": map[string]int{"current": page, "total": pages, "totalRecords": total},
		},
	})
	require.NoError(fp.t, err)
	fp.write(w, http.StatusOK, string(data))
}

// setupHome points LECTERN_HOME at a temp dir and returns it.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("LECTERN_HOME", home)
	t.Setenv("LECTERN_LOG_LEVEL", "error")
	return home
}

// saveSession stores a lecturer login under home.
func saveSession(t *testing.T, home string) {
	t.Helper()
	store := portal.NewSessionStore(filepath.Join(home, "session.yaml"))
	require.NoError(t, store.Save(&portal.Session{
		Token:    testToken,
		User:     portal.User{ID: testUserID, Name: "Ada Lovelace", Email: "ada@uni.edu", Role: portal.RoleLecturer},
		LoggedIn: time.Now(),
	}))
}

// execute runs the root command against fp with args and returns its output.
func execute(t *testing.T, fp *fakePortal, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	if fp != nil {
		args = append([]string{"--api-url", fp.srv.URL}, args...)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
