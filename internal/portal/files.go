package portal

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/lectern/internal/pagination"
)

const (
	pathSharedFiles    = "/api/files/shared"
	pathShareableUsers = "/api/lecturer/file-share/users"
	pathFilesPrefix    = "/api/files/"

	// SharedFilesDateAxis is the extra filter key for the shared-date filter.
	SharedFilesDateAxis = "date"
)

// pageEnvelope is the pagination block of the file endpoints.
type pageEnvelope struct {
	Current      int  `json:"current"`
	Total        int  `json:"total"`
	TotalRecords int  `json:"totalRecords"`
	HasNextPage  bool `json:"hasNextPage"`
}

// pageParams sets page, limit and sort from q.
func pageParams(q pagination.Query) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	limit := q.PageSize
	if limit <= 0 {
		limit = pagination.DefaultPageSize
	}
	params.Set("limit", strconv.Itoa(limit))
	setSort(params, q)
	return params
}

// setSort forwards the sort as "field-order", the form the portal accepts.
func setSort(params url.Values, q pagination.Query) {
	if sort := q.SortParam(); sort != "" {
		params.Set("sort", sort)
	}
}

// ListSharedFiles returns one page of files shared with the lecturer. The
// category filter maps to status and the date axis to date.
func (c *Client) ListSharedFiles(ctx context.Context, q pagination.Query) (pagination.Result[SharedFile], error) {
	params := pageParams(q)
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if status := q.CategoryParam(); status != "" {
		params.Set("status", status)
	}
	if date := q.ExtraParam(SharedFilesDateAxis); date != "" {
		params.Set("date", date)
	}

	var body struct {
		Success bool `json:"success"`
		Data    *struct {
			Shares     []fileShare  `json:"shares"`
			Pagination pageEnvelope `json:"pagination"`
		} `json:"data"`
	}
	stale, err := c.getJSON(ctx, pathSharedFiles, params, &body)
	if err != nil {
		return pagination.Result[SharedFile]{}, fmt.Errorf("listing shared files: %w", err)
	}
	if !body.Success || body.Data == nil || body.Data.Shares == nil {
		return pagination.Result[SharedFile]{}, fmt.Errorf("%w: shared files", ErrInvalidResponse)
	}

	files := make([]SharedFile, len(body.Data.Shares))
	for i, share := range body.Data.Shares {
		files[i] = share.flatten()
	}
	return pagination.Result[SharedFile]{
		Items:       files,
		TotalItems:  body.Data.Pagination.TotalRecords,
		CurrentPage: body.Data.Pagination.Current,
		TotalPages:  body.Data.Pagination.Total,
		Stale:       stale,
	}, nil
}

// ListShareableUsers returns one page of users a document can be shared with.
// The category filter maps to role.
func (c *Client) ListShareableUsers(ctx context.Context, q pagination.Query) (pagination.Result[ShareableUser], error) {
	params := pageParams(q)
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if role := q.CategoryParam(); role != "" {
		params.Set("role", role)
	}

	var body struct {
		Success bool `json:"success"`
		Data    *struct {
			Users      []ShareableUser `json:"users"`
			Pagination pageEnvelope    `json:"pagination"`
		} `json:"data"`
	}
	stale, err := c.getJSON(ctx, pathShareableUsers, params, &body)
	if err != nil {
		return pagination.Result[ShareableUser]{}, fmt.Errorf("listing users: %w", err)
	}
	if !body.Success || body.Data == nil || body.Data.Users == nil {
		return pagination.Result[ShareableUser]{}, fmt.Errorf("%w: users", ErrInvalidResponse)
	}
	return pagination.Result[ShareableUser]{
		Items:       body.Data.Users,
		TotalItems:  body.Data.Pagination.TotalRecords,
		CurrentPage: body.Data.Pagination.Current,
		TotalPages:  body.Data.Pagination.Total,
		Stale:       stale,
	}, nil
}

// downloadPath returns the download endpoint for a stored file URL.
func downloadPath(fileURL string) (string, error) {
	fileURL = strings.Trim(strings.TrimSpace(fileURL), "/")
	if fileURL == "" {
		return "", fmt.Errorf("%w: file URL", ErrMissingArgument)
	}
	return pathFilesPrefix + url.PathEscape(fileURL) + "/download", nil
}

// DownloadFile streams the file stored at fileURL into w and returns the
// number of bytes written.
func (c *Client) DownloadFile(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	path, err := downloadPath(fileURL)
	if err != nil {
		return 0, err
	}
	n, err := c.download(ctx, path, w)
	if err != nil {
		return n, fmt.Errorf("downloading %s: %w", fileURL, err)
	}
	return n, nil
}

// ViewURL returns the absolute URL the file can be opened from.
func (c *Client) ViewURL(fileURL string) (string, error) {
	path, err := downloadPath(fileURL)
	if err != nil {
		return "", err
	}
	return c.baseURL + path, nil
}
