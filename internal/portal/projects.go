package portal

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rshade/lectern/internal/pagination"
)

const (
	pathProjectYears  = "/api/projects/years"
	pathProjectGroups = "/api/projects/groups"
)

// ListProjectYears returns every project year of the department.
func (c *Client) ListProjectYears(ctx context.Context) (pagination.Result[ProjectYear], error) {
	var body struct {
		Data []ProjectYear `json:"data"`
	}
	stale, err := c.getJSON(ctx, pathProjectYears, nil, &body)
	if err != nil {
		return pagination.Result[ProjectYear]{}, fmt.Errorf("listing project years: %w", err)
	}
	return pagination.Result[ProjectYear]{Items: body.Data, TotalItems: len(body.Data), Stale: stale}, nil
}

// ListProjectGroups returns the project groups of a year, or of every year
// when yearID is empty.
func (c *Client) ListProjectGroups(ctx context.Context, yearID string) (pagination.Result[ProjectGroup], error) {
	var params url.Values
	if yearID = strings.TrimSpace(yearID); yearID != "" {
		params = url.Values{"project_year_id": {yearID}}
	}

	var body struct {
		Data []ProjectGroup `json:"data"`
	}
	stale, err := c.getJSON(ctx, pathProjectGroups, params, &body)
	if err != nil {
		return pagination.Result[ProjectGroup]{}, fmt.Errorf("listing project groups: %w", err)
	}
	return pagination.Result[ProjectGroup]{Items: body.Data, TotalItems: len(body.Data), Stale: stale}, nil
}
