package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lms-admin/internal/session"
)

type authenticator interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
}

type sessionSaver interface {
	Save(s session.Session) error
}

// loginForm is shown after the sync layer redirects to the login route.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "admin@example.com"
	email.CharLimit = 254

	pw := textinput.New()
	pw.Prompt = ""
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 200

	f := loginForm{email: email, password: pw}
	f.email.Focus()
	return f
}

func (m editorModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.busy {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.login.focus = 1 - m.login.focus
		if m.login.focus == 0 {
			m.login.password.Blur()
			cmd := m.login.email.Focus()
			return m, cmd
		}
		m.login.email.Blur()
		cmd := m.login.password.Focus()
		return m, cmd
	case "enter":
		if m.login.focus == 0 {
			m.login.focus = 1
			m.login.email.Blur()
			cmd := m.login.password.Focus()
			return m, cmd
		}
		email := strings.TrimSpace(m.login.email.Value())
		pw := m.login.password.Value()
		if email == "" || pw == "" {
			m.login.err = "email and password are required"
			return m, nil
		}
		m.login.busy = true
		m.login.err = ""
		return m, m.loginCmd(email, pw)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m editorModel) loginCmd(email, password string) tea.Cmd {
	auth, sessions := m.auth, m.sessions
	return func() tea.Msg {
		if auth == nil || sessions == nil {
			return loginDoneMsg{err: errors.New("login is not configured")}
		}
		s, err := auth.Login(context.Background(), email, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{err: sessions.Save(s)}
	}
}

func (m editorModel) viewLogin() string {
	bodyW := modalBodyWidth(m.width)
	var b strings.Builder
	b.WriteString(styleMuted().Render("Your session has expired. Sign in to continue.") + "\n\n")
	label := func(s string, active bool) string {
		if active {
			return styleAccent().Render("› " + s)
		}
		return styleMuted().Render("  " + s)
	}
	b.WriteString(label("Email", m.login.focus == 0) + "\n")
	b.WriteString(renderInputLine(bodyW, m.login.email.View()) + "\n")
	b.WriteString(label("Password", m.login.focus == 1) + "\n")
	b.WriteString(renderInputLine(bodyW, m.login.password.View()) + "\n")
	switch {
	case m.login.busy:
		b.WriteString("\n" + styleMuted().Render("Signing in…"))
	case m.login.err != "":
		b.WriteString("\n" + styleError().Render(m.login.err))
	}
	return renderModalBox(m.width, "Sign in", b.String())
}
