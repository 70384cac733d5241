package portal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/lectern/internal/pagination"
)

const pathFolders = "/api/lecturer/documents/folders"

// FolderContents is one page of a folder's documents.
type FolderContents struct {
	pagination.Result[Document]
	Folder Folder
}

// ListFolders returns every document folder visible to the lecturer.
func (c *Client) ListFolders(ctx context.Context) (pagination.Result[Folder], error) {
	var body struct {
		Folders []Folder `json:"folders"`
	}
	stale, err := c.getJSON(ctx, pathFolders, nil, &body)
	if err != nil {
		return pagination.Result[Folder]{}, fmt.Errorf("listing folders: %w", err)
	}
	return pagination.Result[Folder]{
		Items:      body.Folders,
		TotalItems: len(body.Folders),
		Stale:      stale,
	}, nil
}

// ListFolderDocuments returns one page of the documents in folder id.
func (c *Client) ListFolderDocuments(ctx context.Context, id string, q pagination.Query) (FolderContents, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return FolderContents{}, fmt.Errorf("%w: folder ID", ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	setSort(params, q)

	var body struct {
		Folder      Folder     `json:"folder"`
		Documents   []Document `json:"documents"`
		Total       int        `json:"total"`
		CurrentPage int        `json:"currentPage"`
		TotalPages  int        `json:"totalPages"`
	}
	path := pathFolders + "/" + url.PathEscape(id) + "/documents"
	stale, err := c.getJSON(ctx, path, params, &body)
	if err != nil {
		return FolderContents{}, fmt.Errorf("opening folder %s: %w", id, err)
	}
	return FolderContents{
		Result: pagination.Result[Document]{
			Items:       body.Documents,
			TotalItems:  body.Total,
			CurrentPage: body.CurrentPage,
			TotalPages:  body.TotalPages,
			Stale:       stale,
		},
		Folder: body.Folder,
	}, nil
}
