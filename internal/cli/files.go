package cli

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/portal"
)

// newFilesCmd creates the files command group.
func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "files", Short: "Shared file commands"}
	cmd.AddCommand(newListCmd(listCommand[portal.SharedFile]{
		use:   "list",
		short: "List files shared with you",
		example: `  # Pending files shared on one day
  lectern files list --status pending --date 2026-03-14

  # Machine-readable, one file per line
  lectern files list --output ndjson`,
		axes: []axisFlag{
			{name: "status", usage: "filter by file status, e.g. pending or approved"},
			{name: "date", axis: portal.SharedFilesDateAxis, usage: "filter by share date (YYYY-MM-DD)"},
		},
		build: func(ps *portalSession, _ []string) listing[portal.SharedFile] {
			return listing[portal.SharedFile]{
				title:      "Shared files",
				config:     portal.SharedFilesListing(ps.listingOptions()),
				columns:    sharedFileColumns(),
				detail:     sharedFileDetail,
				categories: []string{"pending", "approved", "rejected"},
				fetchPage:  ps.client.ListSharedFiles,
			}
		},
	}), newFilesDownloadCmd())
	return cmd
}

// newFilesDownloadCmd creates the files download command.
func newFilesDownloadCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "download FILE_URL",
		Short: "Download a shared or folder document",
		Example: `  lectern files download /uploads/report.pdf --out ./report.pdf

  # Write to stdout
  lectern files download /uploads/report.pdf --out -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := requireSession(cmd)
			if err != nil {
				return err
			}

			fileURL := args[0]
			if out == "-" {
				_, err = ps.client.DownloadFile(cmd.Context(), fileURL, cmd.OutOrStdout())
				return err
			}
			if out == "" {
				out = path.Base(fileURL)
			}
			return downloadTo(cmd, ps.client, fileURL, out, force)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "destination file, or - for stdout (default: the file's name)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// downloadTo writes fileURL to dest, removing a partial file on failure.
func downloadTo(cmd *cobra.Command, client *portal.Client, fileURL, dest string, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(filepath.Clean(dest), flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists, use --force to overwrite", dest)
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	n, err := client.DownloadFile(cmd.Context(), fileURL, f)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}

	cmd.Printf("Saved %s (%s)\n", dest, humanize.Bytes(uint64(n)))
	return nil
}

// newUsersCmd creates the users command group.
func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "User directory commands"}
	cmd.AddCommand(newListCmd(listCommand[portal.ShareableUser]{
		use:     "list",
		short:   "List users you can share documents with",
		example: `  lectern users list --role Student --search "ada"`,
		axes: []axisFlag{
			{name: "role", usage: "filter by role, e.g. Student or Lecturer"},
		},
		build: func(ps *portalSession, _ []string) listing[portal.ShareableUser] {
			return listing[portal.ShareableUser]{
				title:      "Users",
				config:     portal.ShareableUsersListing(ps.listingOptions()),
				columns:    userColumns(),
				categories: []string{"Student", portal.RoleLecturer, "HoD"},
				fetchPage:  ps.client.ListShareableUsers,
			}
		},
	}))
	return cmd
}
