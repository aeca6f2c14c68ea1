package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-playground/validator/v10"
)

// credentials is validated before any network call; empty fields never reach
// the server.
type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

var validate = validator.New()

func (m *appModel) submitLogin() tea.Cmd {
	creds := credentials{
		Username: strings.TrimSpace(m.loginUser.Value()),
		Password: m.loginPass.Value(),
	}
	if err := validate.Struct(creds); err != nil {
		m.loginErr = "Username and password are required"
		return nil
	}
	m.loginErr = ""
	m.loggingIn = true
	sess := m.sess
	return func() tea.Msg {
		return loginDoneMsg{err: sess.Login(context.Background(), creds.Username, creds.Password)}
	}
}

func (m *appModel) handleLoginDone(msg loginDoneMsg) tea.Cmd {
	m.loggingIn = false
	if msg.err != nil {
		m.logf("login: %v", msg.err)
		m.loginErr = "Login failed: " + msg.err.Error()
		return nil
	}
	m.loginPass.Reset()
	m.view = viewFeed
	return tea.Batch(m.setFlash("Welcome back, "+m.sess.Username(), false), m.loadFeed(""))
}

func (m appModel) renderLoginView() string {
	var b strings.Builder
	b.WriteString(styleHeader().Render("Sign in to Lucky Cat"))
	b.WriteString("\n\n")
	b.WriteString(m.loginUser.View())
	b.WriteString("\n")
	b.WriteString(m.loginPass.View())
	b.WriteString("\n\n")
	if m.loggingIn {
		b.WriteString(styleMuted().Render("Signing in…"))
	} else if m.loginErr != "" {
		b.WriteString(styleError().Render(m.loginErr))
	} else {
		b.WriteString(styleMuted().Render("tab: next field   enter: sign in   q: quit"))
	}
	return b.String()
}
