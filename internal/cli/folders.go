package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/portal"
)

// newFoldersCmd creates the folders command group.
func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "folders", Short: "Document folder commands"}
	cmd.AddCommand(
		newListCmd(listCommand[portal.Folder]{
			use:   "list",
			short: "List your document folders",
			axes: []axisFlag{
				{name: "status", usage: "filter by folder status"},
			},
			build: func(ps *portalSession, _ []string) listing[portal.Folder] {
				return listing[portal.Folder]{
					title:    "Folders",
					config:   portal.FoldersListing(ps.listingOptions()),
					columns:  folderColumns(),
					fetchAll: ps.client.ListFolders,
				}
			},
		}),
		newListCmd(listCommand[portal.Document]{
			use:     "open FOLDER_ID",
			short:   "List the documents in a folder",
			example: `  lectern folders open 65a0f3 --sort title:desc`,
			args:    cobra.ExactArgs(1),
			build: func(ps *portalSession, args []string) listing[portal.Document] {
				return listing[portal.Document]{
					title:     "Documents",
					config:    portal.FolderDocumentsListing(ps.listingOptions()),
					columns:   documentColumns(),
					detail:    documentDetail,
					fetchPage: ps.client.FolderDocumentsFetcher(args[0]),
				}
			},
		}),
	)
	return cmd
}
