package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"luckycat-cli/internal/api"
	"luckycat-cli/internal/config"
	"luckycat-cli/internal/session"
	"luckycat-cli/internal/store"
	"luckycat-cli/internal/tui"

	"github.com/spf13/cobra"
)

// App carries the per-invocation wiring shared by all commands.
type App struct {
	Format     string
	PrettyJSON bool

	cfg     config.Config
	client  *api.Client
	session *session.Session
	logf    func(format string, args ...any)
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "luckycat",
		Short:        "Lucky Cat terminal client",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  luckycat

  # Scriptable commands
  luckycat login --username ann
  luckycat requests list --format json

  # Jump straight to a request (as notification click-throughs do)
  luckycat requests --focus 12 --message 34
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app, tui.Options{})
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd.Context())
	}

	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "output format for scriptable commands")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newFeedCmd(app))
	cmd.AddCommand(newPostsCmd(app))
	cmd.AddCommand(newRequestsCmd(app))
	cmd.AddCommand(newNotificationsCmd(app))
	cmd.AddCommand(newPasswordResetCmd(app))
	cmd.AddCommand(newResendEmailCmd(app))

	return cmd
}

// setup loads config, opens the local state store, and wires the session and
// API client together. The session is the client's token source, so it is
// built first and the client attached after.
func (a *App) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logf = newDebugLogf(cfg.StateDir)

	st := store.Store{Dir: cfg.StateDir}
	sess, err := session.New(ctx, st, a.logf)
	if err != nil {
		return err
	}
	client, err := api.New(cfg.APIBase, cfg.HTTPTimeout, sess, api.WithLogger(a.logf))
	if err != nil {
		return err
	}
	sess.AttachClient(client)

	a.session = sess
	a.client = client
	return nil
}

// newDebugLogf logs to a file under the state dir. The TUI owns the terminal,
// so stderr is not an option while it runs.
func newDebugLogf(stateDir string) func(format string, args ...any) {
	if strings.TrimSpace(os.Getenv("LUCKYCAT_DEBUG")) == "" {
		return func(string, ...any) {}
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return func(string, ...any) {}
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return func(string, ...any) {}
	}
	l := log.New(f, "", log.LstdFlags)
	return l.Printf
}

func runTUI(a *App, opts tui.Options) error {
	opts.Backend = a.client
	opts.Session = a.session
	opts.Logf = a.logf
	return tui.Run(opts)
}

// requireAuth guards scriptable commands that need a session.
func (a *App) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in (run: luckycat login)")
	}
	return nil
}

func (a *App) write(w io.Writer, v any) error {
	return writeOut(w, v, a.Format, a.PrettyJSON)
}
