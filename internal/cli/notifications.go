package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/portal"
)

// newNotificationsCmd creates the notifications command group.
func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "Notification commands"}
	cmd.AddCommand(
		newListCmd(listCommand[portal.Notification]{
			use:     "list",
			short:   "List received notifications, newest first",
			example: `  lectern notifications list --filter unread`,
			axes: []axisFlag{
				{name: "filter", usage: "filter by state: all, read or unread"},
			},
			build: func(ps *portalSession, _ []string) listing[portal.Notification] {
				return listing[portal.Notification]{
					title:      "Notifications",
					config:     portal.NotificationsListing(ps.listingOptions()),
					columns:    notificationColumns(),
					detail:     notificationDetail,
					categories: []string{portal.NotificationUnread, portal.NotificationRead},
					fetchPage:  ps.client.NotificationsFetcher(),
				}
			},
		}),
		newNotificationsReadCmd(),
		newNotificationsReadAllCmd(),
	)
	return cmd
}

// newNotificationsReadCmd creates the notifications read command.
func newNotificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read NOTIFICATION_ID",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := requireSession(cmd)
			if err != nil {
				return err
			}
			if err = ps.client.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("Marked as read.")
			return nil
		},
	}
}

// newNotificationsReadAllCmd creates the notifications read-all command.
func newNotificationsReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := requireSession(cmd)
			if err != nil {
				return err
			}
			if err = ps.client.MarkAllNotificationsRead(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("All notifications marked as read.")
			return nil
		},
	}
}
