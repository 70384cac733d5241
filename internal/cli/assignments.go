package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/portal"
)

// newAssignmentsCmd creates the assignments command group.
func newAssignmentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "assignments", Short: "Assignment commands"}
	cmd.AddCommand(newListCmd(listCommand[portal.Assignment]{
		use:   "list",
		short: "List your assignments, six per page",
		example: `  # Active assignments mentioning "lab"
  lectern assignments list --status active --search lab

  # One course, ordered by due date
  lectern assignments list --course 64f1c0a2 --sort due:asc`,
		axes: []axisFlag{
			{name: "status", usage: "filter by status: all, active or completed"},
			{name: "course", axis: "course", usage: "filter by course ID"},
		},
		build: func(ps *portalSession, _ []string) listing[portal.Assignment] {
			opts := ps.listingOptions()
			return listing[portal.Assignment]{
				title:      "Assignments",
				config:     portal.AssignmentsListing(opts),
				columns:    assignmentColumns(opts.Clock),
				detail:     assignmentDetail(opts.Clock),
				categories: []string{string(portal.StatusActive), string(portal.StatusCompleted)},
				fetchAll:   ps.client.ListAssignments,
			}
		},
	}))
	return cmd
}

// newCoursesCmd creates the courses command group.
func newCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "courses", Short: "Course commands"}
	cmd.AddCommand(newListCmd(listCommand[portal.Course]{
		use:   "list",
		short: "List the courses assigned to you",
		build: func(ps *portalSession, _ []string) listing[portal.Course] {
			return listing[portal.Course]{
				title:    "Courses",
				config:   portal.CoursesListing(ps.listingOptions()),
				columns:  courseColumns(),
				fetchAll: ps.client.ListCourses,
			}
		},
	}))
	return cmd
}

// newSubmissionsCmd creates the submissions command group.
func newSubmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "submissions", Short: "Submission commands"}
	cmd.AddCommand(newListCmd(listCommand[portal.Submission]{
		use:     "list ASSIGNMENT_ID",
		short:   "List student submissions for an assignment",
		example: `  lectern submissions list 64f1c0a2e4b0 --page 2`,
		args:    cobra.ExactArgs(1),
		build: func(ps *portalSession, args []string) listing[portal.Submission] {
			return listing[portal.Submission]{
				title:     "Submissions",
				config:    portal.SubmissionsListing(ps.listingOptions()),
				columns:   submissionColumns(),
				fetchPage: ps.client.SubmissionsFetcher(args[0]),
			}
		},
	}))
	return cmd
}
