package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lms-admin/internal/api"
	"lms-admin/internal/config"
	"lms-admin/internal/format"
	"lms-admin/internal/logging"
	"lms-admin/internal/query"
	"lms-admin/internal/remote"
	"lms-admin/internal/session"
	"lms-admin/internal/tui"
)

type App struct {
	APIURL     string
	Timeout    time.Duration
	PrettyJSON bool
	Format     string

	cfg      config.Config
	log      *zap.Logger
	sessions *session.FileProvider
	client   *api.Client
	sync     *remote.Sync
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lmsadmin",
		Short:        "Admin CLI + TUI for the learning platform",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Sign in against the auth provider
  lmsadmin login --email admin@example.com

  # Scriptable commands
  lmsadmin courses list
  lmsadmin chapters update <chapter-id> --access-till ""

  # Edit a course curriculum interactively
  lmsadmin curriculum <course-id>

  # Direct lookup (shortcut for: lmsadmin curriculum <course-id>)
  lmsadmin 2f1c9a7e-5d1b-4b8e-9c7a-0e4d3b2a1f00

  # Local API for development
  lmsadmin devserver
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "API base URL (overrides api.url)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout (overrides api.timeout)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|yaml)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newCoursesCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newChaptersCmd(app))
	cmd.AddCommand(newEnrollmentsCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newCurriculumCmd(app))
	cmd.AddCommand(newDevserverCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init resolves configuration (defaults < config.yaml < .env < env < flags)
// and wires the logger, session provider, API client and sync layer.
func (app *App) init(cmd *cobra.Command) error {
	v, err := config.New()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return writeErr(cmd, err)
	}
	if app.APIURL != "" {
		cfg.APIURL = strings.TrimRight(app.APIURL, "/")
		if strings.TrimSpace(v.GetString("auth.url")) == "" {
			cfg.AuthURL = cfg.APIURL
		}
	}
	if app.Timeout > 0 {
		cfg.APITimeout = app.Timeout
	}
	if app.Format == "" {
		app.Format = cfg.OutputFormat
	}
	app.cfg = cfg

	logFile := cfg.LogFile
	if strings.EqualFold(logFile, "stderr") {
		logFile = ""
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: logFile})
	if err != nil {
		log = logging.Nop()
	}
	app.log = log

	app.sessions = session.NewFileProvider(cfg.SessionPath())
	app.client = api.New(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
		Tokens:  app.sessions,
		Logger:  log.Named("api"),
	})
	app.sync = remote.New(app.client, remote.Options{
		Cache:     query.New(0),
		Notifier:  cliNotifier{w: cmd.ErrOrStderr()},
		Navigator: cliNavigator{w: cmd.ErrOrStderr()},
		Logger:    log.Named("remote"),
	})
	return nil
}

func runCurriculumTUI(app *App, courseID string) error {
	return tui.Run(tui.Options{
		CourseID:      courseID,
		Client:        app.client,
		Sessions:      app.sessions,
		Authenticator: session.NewAuthenticator(app.cfg.AuthURL, app.cfg.APITimeout),
		Logger:        app.log.Named("tui"),
	})
}

// cliNotifier prints success toasts to stderr; errors are printed by writeErr.
type cliNotifier struct{ w io.Writer }

func (n cliNotifier) Success(msg string) { fmt.Fprintln(n.w, msg) }
func (n cliNotifier) Error(string)       {}

// cliNavigator turns a redirect to the login route into a hint.
type cliNavigator struct{ w io.Writer }

func (n cliNavigator) Navigate(route string) {
	if route == remote.RouteLogin {
		fmt.Fprintln(n.w, "not signed in; run `lmsadmin login`")
	}
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), errorText(err))
	return err
}
