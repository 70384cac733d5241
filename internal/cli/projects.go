package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/portal"
)

// newProjectsCmd creates the projects command group.
func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "Final-year project commands"}
	cmd.AddCommand(
		newListCmd(listCommand[portal.ProjectYear]{
			use:   "years",
			short: "List project academic years",
			axes: []axisFlag{
				{name: "status", usage: "filter by year status, e.g. active or archived"},
			},
			build: func(ps *portalSession, _ []string) listing[portal.ProjectYear] {
				return listing[portal.ProjectYear]{
					title:    "Project years",
					config:   portal.ProjectYearsListing(ps.listingOptions()),
					columns:  projectYearColumns(),
					fetchAll: ps.client.ListProjectYears,
				}
			},
		}),
		newListCmd(listCommand[portal.ProjectGroup]{
			use:     "groups YEAR_ID",
			short:   "List the project groups of a year",
			example: `  lectern projects groups 6601ab --stage proposal`,
			args:    cobra.ExactArgs(1),
			axes: []axisFlag{
				{name: "stage", usage: "filter by current stage"},
			},
			build: func(ps *portalSession, args []string) listing[portal.ProjectGroup] {
				return listing[portal.ProjectGroup]{
					title:    "Project groups",
					config:   portal.ProjectGroupsListing(ps.listingOptions()),
					columns:  projectGroupColumns(),
					fetchAll: ps.client.ProjectGroupsFetcher(args[0]),
				}
			},
		}),
	)
	return cmd
}
