package portal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/lectern/internal/pagination"
)

const (
	pathAssignments = "/api/lecturer/assignments"
	pathCourses     = "/api/lecturer/courses"
	pathSubmissions = "/api/lecturer/submissions"
)

// ListAssignments returns every assignment of the lecturer.
func (c *Client) ListAssignments(ctx context.Context) (pagination.Result[Assignment], error) {
	var body struct {
		Assignments []Assignment `json:"assignments"`
		CurrentPage int          `json:"currentPage"`
		TotalPages  int          `json:"totalPages"`
		Total       int          `json:"total"`
	}
	stale, err := c.getJSON(ctx, pathAssignments, nil, &body)
	if err != nil {
		return pagination.Result[Assignment]{}, fmt.Errorf("listing assignments: %w", err)
	}
	return pagination.Result[Assignment]{
		Items:       body.Assignments,
		TotalItems:  len(body.Assignments),
		CurrentPage: 1,
		TotalPages:  1,
		Stale:       stale,
	}, nil
}

// ListCourses returns the courses assigned to the lecturer.
func (c *Client) ListCourses(ctx context.Context) (pagination.Result[Course], error) {
	var body struct {
		Data struct {
			Courses []Course `json:"courses"`
		} `json:"data"`
	}
	stale, err := c.getJSON(ctx, pathCourses, nil, &body)
	if err != nil {
		return pagination.Result[Course]{}, fmt.Errorf("listing courses: %w", err)
	}
	return pagination.Result[Course]{
		Items:      body.Data.Courses,
		TotalItems: len(body.Data.Courses),
		Stale:      stale,
	}, nil
}

// ListSubmissions returns one page of submissions for an assignment.
func (c *Client) ListSubmissions(ctx context.Context, assignmentID string, q pagination.Query) (pagination.Result[Submission], error) {
	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return pagination.Result[Submission]{}, fmt.Errorf("%w: assignment ID", ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("assignment_id", assignmentID)
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	setSort(params, q)

	var body struct {
		Submissions []Submission `json:"submissions"`
		Total       int          `json:"total"`
		CurrentPage int          `json:"currentPage"`
		TotalPages  int          `json:"totalPages"`
	}
	stale, err := c.getJSON(ctx, pathSubmissions, params, &body)
	if err != nil {
		return pagination.Result[Submission]{}, fmt.Errorf("listing submissions: %w", err)
	}
	return pagination.Result[Submission]{
		Items:       body.Submissions,
		TotalItems:  body.Total,
		CurrentPage: body.CurrentPage,
		TotalPages:  body.TotalPages,
		Stale:       stale,
	}, nil
}
