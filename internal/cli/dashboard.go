package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/tui"
)

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize assignments, courses and unread notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}
			ps, err := requireSession(cmd)
			if err != nil {
				return err
			}

			d, err := ps.client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			return renderObject(cmd.OutOrStdout(), format, d, func(w io.Writer) error {
				out := renderDetail("Dashboard for "+ps.session.User.Name,
					field{"Assignments", humanize.Comma(int64(d.Assignments))},
					field{"Active", humanize.Comma(int64(d.ActiveAssignments))},
					field{"Completed", humanize.Comma(int64(d.CompletedAssignments))},
					field{"Courses", humanize.Comma(int64(d.Courses))},
					field{"Unread", humanize.Comma(int64(d.UnreadNotifications))},
				)
				if d.Stale {
					out += "\n" + tui.WarningStyle.Render(staleMessage)
				}
				_, err := fmt.Fprintln(w, out)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, ndjson or yaml")
	return cmd
}
