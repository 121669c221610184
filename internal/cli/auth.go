package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/j-veylop/aiconsole/internal/models"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	username string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "admin username (prompted when omitted)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "admin password (prompted without echo when omitted)")
}

// resolveCredentials prompts for whatever was not given on the command line.
func (r *runner) resolveCredentials(f *credentialFlags) (models.Credentials, error) {
	creds := models.Credentials{Username: f.username, Password: f.password}

	var err error
	if creds.Username == "" {
		if creds.Username, err = r.promptInput("Username: "); err != nil {
			return creds, err
		}
	}
	if creds.Password == "" {
		if creds.Password, err = r.opts.ReadPassword("Password: "); err != nil {
			return creds, err
		}
	}

	if creds.Username == "" {
		return creds, errors.New("username is required")
	}
	if creds.Password == "" {
		return creds, errors.New("password is required")
	}
	return creds, nil
}

func (r *runner) loginCmd() *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin API",
		Long:  "Sign in to the admin API and store the session token for the active profile.",
		Example: `  # Prompt for the password
  aiconsole login -u admin

  # Sign in to a second backend under its own profile
  aiconsole login -u admin --profile staging --api-url https://staging.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.manager()
			if err != nil {
				return err
			}
			creds, err := r.resolveCredentials(&flags)
			if err != nil {
				return err
			}
			resp, err := mgr.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Logged in as %s (profile %s)\n", resp.Username, mgr.Profile())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (r *runner) registerCmd() *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an admin account",
		Long:  "Create an admin account. The new account is not signed in.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.manager()
			if err != nil {
				return err
			}
			creds, err := r.resolveCredentials(&flags)
			if err != nil {
				return err
			}
			if _, err := mgr.Client().Register(cmd.Context(), creds); err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Account %s created. Run 'aiconsole login -u %s' to sign in.\n", creds.Username, creds.Username)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.manager()
			if err != nil {
				return err
			}
			if mgr.Session().Token() == "" {
				fmt.Fprintf(r.opts.Out, "Not logged in to profile %s\n", mgr.Profile())
				return nil
			}
			if err := mgr.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Logged out of profile %s\n", mgr.Profile())
			return nil
		},
	}
}

// whoami is the session as printed by the whoami command.
type whoami struct {
	Profile   string     `json:"profile"`
	Username  string     `json:"username"`
	APIURL    string     `json:"apiUrl"`
	LoggedIn  time.Time  `json:"loggedInAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user of the active profile",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			sess := mgr.Session().Get()
			if sess == nil {
				return fmt.Errorf("not logged in to profile %q", mgr.Profile())
			}

			w := whoami{
				Profile:  mgr.Profile(),
				Username: sess.Username,
				APIURL:   mgr.Client().BaseURL(),
				LoggedIn: sess.CreatedAt,
			}
			if exp := sess.ExpiresAt(); !exp.IsZero() {
				w.ExpiresAt = &exp
			}

			return r.render(w, func(out io.Writer) {
				fields := [][2]string{
					{"Profile", w.Profile},
					{"User", w.Username},
					{"API", w.APIURL},
					{"Logged in", humanize.Time(w.LoggedIn)},
				}
				if w.ExpiresAt != nil {
					fields = append(fields, [2]string{"Expires", humanize.Time(*w.ExpiresAt)})
				}
				printFields(out, fields)
			})
		},
	}
}
