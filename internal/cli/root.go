package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/config"
	"github.com/rshade/lectern/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the lectern CLI.
// It loads configuration, wires up logging and tracing, and registers the
// portal subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "lectern",
		Short:         "Lecturer portal from the terminal",
		Long:          "lectern: browse assignments, submissions, shared files, notifications and projects on the lecturer portal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file merged over ~/.lectern/config.yaml")
	cmd.PersistentFlags().String("api-url", "", "portal base URL (overrides api.base_url)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().Bool("plain", false, "plain tab-separated tables")

	cmd.AddCommand(
		NewLoginCmd(), NewLogoutCmd(), NewProfileCmd(), NewDashboardCmd(),
		newAssignmentsCmd(), newCoursesCmd(), newSubmissionsCmd(),
		newFilesCmd(), newUsersCmd(), newNotificationsCmd(),
		newFoldersCmd(), newProjectsCmd(),
		newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

// loadConfig resolves the configuration for this invocation and installs it
// as the global config.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOverlay(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL, _ = cmd.Flags().GetString("api-url")
		if err = cfg.Validate(); err != nil {
			return err
		}
	}

	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Sign in (prompts when flags are omitted)
  lectern login --email jane@uni.edu

  # Active assignments for one course, newest first
  lectern assignments list --status active --course 64f1c0 --sort date:desc

  # Third page of shared files as JSON
  lectern files list --page 3 --output json

  # Browse unread notifications interactively
  lectern notifications list --filter unread --interactive

  # Initialize configuration
  lectern config init`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigPathCmd())
	return cmd
}
