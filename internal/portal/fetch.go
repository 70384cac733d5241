package portal

import (
	"context"
	"errors"

	"github.com/rshade/lectern/internal/cache"
	"github.com/rshade/lectern/internal/pagination"
)

// maxSettleRounds bounds the follow-up requests Settle executes.
const maxSettleRounds = 4

// ServerFetcher fetches one page of a server-side listing.
type ServerFetcher[T any] func(ctx context.Context, q pagination.Query) (pagination.Result[T], error)

// CollectionFetcher fetches the whole collection of a client-side listing.
type CollectionFetcher[T any] func(ctx context.Context) (pagination.Result[T], error)

// SubmissionsFetcher binds ListSubmissions to one assignment.
func (c *Client) SubmissionsFetcher(assignmentID string) ServerFetcher[Submission] {
	return func(ctx context.Context, q pagination.Query) (pagination.Result[Submission], error) {
		return c.ListSubmissions(ctx, assignmentID, q)
	}
}

// NotificationsFetcher adapts ListNotifications to ServerFetcher.
func (c *Client) NotificationsFetcher() ServerFetcher[Notification] {
	return func(ctx context.Context, q pagination.Query) (pagination.Result[Notification], error) {
		page, err := c.ListNotifications(ctx, q)
		return page.Result, err
	}
}

// FolderDocumentsFetcher binds ListFolderDocuments to one folder.
func (c *Client) FolderDocumentsFetcher(folderID string) ServerFetcher[Document] {
	return func(ctx context.Context, q pagination.Query) (pagination.Result[Document], error) {
		contents, err := c.ListFolderDocuments(ctx, folderID, q)
		return contents.Result, err
	}
}

// ProjectGroupsFetcher binds ListProjectGroups to one year.
func (c *Client) ProjectGroupsFetcher(yearID string) CollectionFetcher[ProjectGroup] {
	return func(ctx context.Context) (pagination.Result[ProjectGroup], error) {
		return c.ListProjectGroups(ctx, yearID)
	}
}

// CachedFetcher fronts a ServerFetcher with an in-memory page cache keyed by
// the query. Stale pages are never cached.
type CachedFetcher[T any] struct {
	fetch ServerFetcher[T]
	pages *cache.PageCache[pagination.Result[T]]
}

// NewCachedFetcher wraps fetch with a cache of up to size pages. A size of
// zero disables caching.
func NewCachedFetcher[T any](fetch ServerFetcher[T], size int) (*CachedFetcher[T], error) {
	pages, err := cache.NewPageCache[pagination.Result[T]](size)
	if err != nil {
		return nil, err
	}
	return &CachedFetcher[T]{fetch: fetch, pages: pages}, nil
}

// Fetch returns the cached page for q or fetches and stores it.
func (f *CachedFetcher[T]) Fetch(ctx context.Context, q pagination.Query) (pagination.Result[T], error) {
	key := q.Key()
	if res, ok := f.pages.Get(key); ok {
		return res, nil
	}
	res, err := f.fetch(ctx, q)
	if err != nil {
		return res, err
	}
	if !res.Stale {
		f.pages.Add(key, res)
	}
	return res, nil
}

// Invalidate drops every cached page, typically before a reload.
func (f *CachedFetcher[T]) Invalidate() {
	f.pages.Purge()
}

// Settle executes the requests a server-side state issues until it has none
// pending, and returns the resulting page.
func Settle[T any](ctx context.Context, st *pagination.State[T], fetch ServerFetcher[T]) (pagination.Page[T], error) {
	if st.Mode() != pagination.ServerSide {
		return st.Page(), errors.New("settle requires a server-side listing")
	}
	for range maxSettleRounds {
		req, ok := st.TakeRequest()
		if !ok {
			break
		}
		res, err := fetch(ctx, req.Query)
		if err != nil {
			return st.Page(), err
		}
		st.Apply(req.Seq, res)
	}
	return st.Page(), nil
}

// Load fetches a client-side listing's collection into st and returns the
// current page.
func Load[T any](ctx context.Context, st *pagination.State[T], fetch CollectionFetcher[T]) (pagination.Page[T], error) {
	res, err := fetch(ctx)
	if err != nil {
		return st.Page(), err
	}
	page, _ := st.Dispatch(pagination.Refreshed[T]{Items: res.Items, Stale: res.Stale})
	return page, nil
}
