package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/config"
	"github.com/rshade/lectern/internal/portal"
	"github.com/rshade/lectern/internal/tui"
)

// credentials are the login inputs gathered from flags, stdin or a form.
type credentials struct {
	email    string
	password string
}

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	var (
		creds         credentials
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the lecturer portal",
		Long: `Signs in with a lecturer account and stores the session token.

Missing credentials are prompted for when running in a terminal.
Accounts without the lecturer role are refused.`,
		Example: `  # Prompt for email and password
  lectern login

  # Non-interactive login for scripts
  echo "$PORTAL_PASSWORD" | lectern login --email jane@uni.edu --password-stdin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				pw, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				creds.password = pw
			}
			if err := completeCredentials(&creds); err != nil {
				return err
			}
			return runLogin(cmd, creds)
		},
	}

	cmd.Flags().StringVar(&creds.email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

// readPassword reads the first line of r.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// completeCredentials prompts for whatever is missing, or fails outside a terminal.
func completeCredentials(c *credentials) error {
	if c.email != "" && c.password != "" {
		return nil
	}
	if !tui.IsTerminal(os.Stdin) {
		return fmt.Errorf("%w: --email and --password-stdin are required without a terminal",
			portal.ErrMissingArgument)
	}

	required := func(name string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", name)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&c.email).
				Validate(required("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&c.password).
				Validate(required("password")),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("login prompt: %w", err)
	}
	return nil
}

// runLogin authenticates and persists the session.
func runLogin(cmd *cobra.Command, creds credentials) error {
	cfg := config.GetGlobalConfig()
	store, err := openSessionStore()
	if err != nil {
		return err
	}

	client, err := newPortalClient(cfg, store, nil)
	if err != nil {
		return err
	}

	res, err := client.Login(cmd.Context(), strings.TrimSpace(creds.email), creds.password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := &portal.Session{Token: res.Token, User: res.User, LoggedIn: client.Now()}
	if err = store.Save(sess); err != nil {
		return err
	}

	logger.Info().Ctx(cmd.Context()).Str("user_id", res.User.ID).Msg("logged in")
	cmd.Printf("Logged in as %s (%s)\n", res.User.Name, res.User.Email)
	return nil
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			if err = store.Clear(); err != nil {
				return err
			}

			cfg := config.GetGlobalConfig()
			if files, cacheErr := openFileCache(cfg); cacheErr == nil && files.IsEnabled() {
				if n, clearErr := files.Clear(); clearErr != nil {
					logger.Warn().Err(clearErr).Msg("could not clear offline cache")
				} else {
					logger.Debug().Int("entries", n).Msg("offline cache cleared")
				}
			}

			cmd.Println("Logged out.")
			return nil
		},
	}
}

// NewProfileCmd creates the profile command.
func NewProfileCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in lecturer's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}
			ps, err := requireSession(cmd)
			if err != nil {
				return err
			}

			profile, err := ps.client.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}

			return renderObject(cmd.OutOrStdout(), format, profile, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, renderDetail(profile.Name,
					field{"Email", profile.Email},
					field{"Department", profile.Department},
					field{"Role", profile.Role},
				))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, ndjson or yaml")
	return cmd
}
