package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lms-admin/internal/api"
	"lms-admin/internal/logging"
	"lms-admin/internal/query"
	"lms-admin/internal/remote"
	"lms-admin/internal/session"
)

type Options struct {
	CourseID      string
	Client        *api.Client
	Sessions      *session.FileProvider
	Authenticator *session.Authenticator
	Logger        *zap.Logger
}

// Run opens the curriculum editor for one course and blocks until the user quits.
func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	events := make(chan tea.Msg, 32)
	b := bridge{ch: events}
	rs := remote.New(opts.Client, remote.Options{
		Cache:     query.New(30 * time.Second),
		Notifier:  b,
		Navigator: b,
		Logger:    log.Named("remote"),
	})

	m := newEditorModel(editorDeps{
		courseID: opts.CourseID,
		sync:     rs,
		events:   events,
		auth:     opts.Authenticator,
		sessions: opts.Sessions,
		log:      log,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
