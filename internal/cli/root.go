// Package cli implements the aiconsole command tree. Running the binary with
// no subcommand starts the interactive console; every other command talks to
// the admin API through the same service manager and prints plain text.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/j-veylop/aiconsole/internal/config"
	"github.com/j-veylop/aiconsole/internal/services"
)

// Options wires the command tree to its environment. Config is required;
// every other field has a working default.
type Options struct {
	Config *config.Config

	// NewManager builds the service manager on first use.
	NewManager func(*config.Config) (*services.Manager, error)

	// RunTUI starts the interactive console. The root command fails without it.
	RunTUI func(*services.Manager, *config.Config) error

	// ReadPassword reads a secret without echo.
	ReadPassword func(prompt string) (string, error)

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// runner holds the state shared by the commands of one invocation.
type runner struct {
	opts    Options
	cfg     *config.Config
	mgr     *services.Manager
	in      *bufio.Reader
	profile string
	apiURL  string
	output  string
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(opts Options, args []string) int {
	r := newRunner(opts)
	code := r.execute(args)
	if err := r.close(); err != nil {
		fmt.Fprintf(r.opts.Err, "Warning: error closing services: %v\n", err)
	}
	return code
}

func (r *runner) execute(args []string) int {
	// cobra falls back to os.Args for a nil slice.
	if args == nil {
		args = []string{}
	}
	root := r.rootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(r.opts.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRunner(opts Options) *runner {
	if opts.NewManager == nil {
		opts.NewManager = services.NewManager
	}
	if opts.ReadPassword == nil {
		opts.ReadPassword = terminalPassword(opts)
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &runner{opts: opts, in: bufio.NewReader(opts.In)}
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aiconsole",
		Short: "Admin console for the AI integration gateway",
		Long: `aiconsole manages the neural networks, client applications and access
grants of an AI integration gateway, and shows its request logs and usage.

Run without a command to open the interactive console.`,
		Example: `  # Open the interactive console
  aiconsole

  # Sign in and list networks from a script
  aiconsole login -u admin
  aiconsole networks list -o json`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.opts.RunTUI == nil {
				return errors.New("interactive console is not available")
			}
			mgr, err := r.manager()
			if err != nil {
				return err
			}
			return r.opts.RunTUI(mgr, r.cfg)
		},
	}

	root.SetIn(r.opts.In)
	root.SetOut(r.opts.Out)
	root.SetErr(r.opts.Err)

	root.PersistentFlags().StringVar(&r.profile, "profile", "", "session profile to use (default from PROFILE)")
	root.PersistentFlags().StringVar(&r.apiURL, "api-url", "", "admin API base URL (default from API_URL)")
	root.PersistentFlags().StringVarP(&r.output, "output", "o", outputTable, "output format: table, json or yaml")

	root.AddCommand(
		r.loginCmd(),
		r.registerCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.networksCmd(),
		r.clientsCmd(),
		r.accessCmd(),
		r.logsCmd(),
		r.statsCmd(),
		r.versionCmd(),
	)

	return root
}

// manager returns the service manager, creating it on first use with the
// global flag overrides applied.
func (r *runner) manager() (*services.Manager, error) {
	if r.mgr != nil {
		return r.mgr, nil
	}
	if r.opts.Config == nil {
		return nil, errors.New("configuration not loaded")
	}

	cfg := *r.opts.Config
	if r.profile != "" {
		cfg.Profile = r.profile
	}
	if r.apiURL != "" {
		cfg.APIURL = strings.TrimSuffix(r.apiURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr, err := r.opts.NewManager(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	r.cfg = &cfg
	r.mgr = mgr
	return mgr, nil
}

func (r *runner) close() error {
	if r.mgr == nil {
		return nil
	}
	return r.mgr.Close()
}

// requireSession fails early when no token is stored for the profile.
func (r *runner) requireSession() (*services.Manager, error) {
	mgr, err := r.manager()
	if err != nil {
		return nil, err
	}
	if mgr.Session().Token() == "" {
		return nil, fmt.Errorf("not logged in to profile %q, run 'aiconsole login' first", mgr.Profile())
	}
	return mgr, nil
}

// promptInput prints prompt and returns the next trimmed input line.
func (r *runner) promptInput(prompt string) (string, error) {
	fmt.Fprint(r.opts.Out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (r *runner) confirm(prompt string) (bool, error) {
	answer, err := r.promptInput(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// terminalPassword reads from the terminal without echo. It refuses to read
// from a pipe so that a script never blocks on a hidden prompt.
func terminalPassword(opts Options) func(string) (string, error) {
	return func(prompt string) (string, error) {
		out := opts.Err
		if out == nil {
			out = os.Stderr
		}
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", errors.New("no terminal to read the password from, use --password")
		}
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
}
