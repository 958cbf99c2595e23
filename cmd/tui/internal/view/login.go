package view

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

// LoggedInMsg is emitted after the API accepted the credentials.
type LoggedInMsg struct {
	User *api.User
}

// LoginModel asks for credentials. Notice is shown above the form once.
type LoginModel struct {
	client *api.Client
	form   *huh.Form

	notice     string
	err        string
	submitting bool
}

func NewLoginModel(client *api.Client, notice string) *LoginModel {
	m := &LoginModel{client: client, notice: notice}
	m.form = m.buildForm("")

	return m
}

func (m *LoginModel) buildForm(username string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("username").Title("Username").Value(new(username)),
			huh.NewInput().Key("password").Title("Password").EchoMode(huh.EchoModePassword),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m *LoginModel) Title() string     { return "Sign in" }
func (m *LoginModel) ShortHelp() string { return "Enter: next | Ctrl+C: quit" }

func (m *LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

type loginResultMsg struct {
	owner *LoginModel
	user  *api.User
	err   error
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		if res.owner != m {
			return m, nil
		}

		m.submitting = false

		if res.err != nil {
			m.err = res.err.Error()
			m.form = m.buildForm(m.form.GetString("username"))

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: res.user} }
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	creds := api.Credentials{
		Username: strings.TrimSpace(m.form.GetString("username")),
		Password: m.form.GetString("password"),
	}

	if problem := api.Validate(creds); problem != "" {
		m.err = problem
		m.form = m.buildForm(creds.Username)

		return m, m.form.Init()
	}

	m.submitting = true
	m.notice = ""

	return m, func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		u, err := m.client.Login(ctx, creds)

		return loginResultMsg{owner: m, user: u, err: err}
	}
}

func (m *LoginModel) View() string {
	var sb strings.Builder

	if m.notice != "" {
		sb.WriteString(activeStyle(m.notice) + "\n\n")
	}

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err) + "\n\n")
	}

	if m.submitting {
		sb.WriteString("Signing in...")
	} else {
		sb.WriteString(m.form.View())
	}

	return frame.Render(sb.String())
}
