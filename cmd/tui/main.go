package main

import (
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/backoffice/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/balance"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
	"github.com/MrJamesThe3rd/backoffice/internal/format"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

type state int

const (
	stateMounting state = iota
	stateLogin
	stateMenu
	stateScreen
)

type model struct {
	appName string
	client  *api.Client
	mounter mounter

	state    state
	mountID  string
	path     string
	identity session.Identity
	menu     []nav.Entry
	cursor   int
	notice   string

	login  *view.LoginModel
	screen view.Screen
	size   *tea.WindowSizeMsg
}

func newModel(appName string, client *api.Client, failOpen bool) model {
	return model{
		appName: appName,
		client:  client,
		mounter: mounter{
			resolver: session.NewResolver(client),
			gate:     balance.NewGate(client, failOpen),
		},
	}
}

func (m model) Init() tea.Cmd {
	return m.navigate(nav.PathHome)
}

// navigate starts a new mount. Any mount still in flight becomes stale.
func (m *model) navigate(path string) tea.Cmd {
	id := newMountID()
	m.mountID = id
	m.state = stateMounting

	mt := m.mounter

	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		return mt.mount(ctx, id, path)
	}
}

func (m model) screenFor(path string) view.Screen {
	c := m.client
	id := m.identity

	switch path {
	case nav.PathInventory:
		return view.NewInventory(c, id)
	case nav.PathItems:
		return view.NewItems(c)
	case nav.PathSales:
		return view.NewSales(c)
	case nav.PathCustomers:
		return view.NewCustomers(c, id)
	case nav.PathProcurement:
		return view.NewProcurement(c)
	case nav.PathSuppliers:
		return view.NewSuppliers(c)
	case nav.PathExpenses:
		return view.NewExpensesModel(c, id.ReadOnly())
	case nav.PathOpeningBalance:
		return view.NewOpeningModel(c)
	case nav.PathBalance:
		return view.NewBalance(c)
	case nav.PathAudit:
		return view.NewAudit(c)
	case nav.PathRecalculate:
		return view.NewRecalcModel(c)
	}

	return view.NewOverview(c, id, nav.Allowed(id.Role(), nav.Entries, nav.PathBalance))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case mountedMsg:
		if msg.id != m.mountID {
			return m, nil
		}

		return m.mounted(msg)

	case view.LoggedInMsg:
		m.notice = ""
		return m, m.navigate(nav.PathHome)

	case view.PeriodOpenedMsg:
		m.notice = "Opening balances saved. The period is open."
		return m, m.navigate(nav.PathHome)

	case view.BackMsg:
		if m.state == stateScreen {
			m.state = stateMenu
			m.screen = nil
		}

		return m, nil

	case loggedOutMsg:
		m.identity = session.Identity{}
		m.notice = ""
		m.login = view.NewLoginModel(m.client, "")
		m.state = stateLogin

		return m, m.login.Init()
	}

	switch m.state {
	case stateLogin:
		_, cmd := m.login.Update(msg)
		return m, cmd
	case stateMenu:
		return m.updateMenu(msg)
	case stateScreen:
		next, cmd := m.screen.Update(msg)
		if s, ok := next.(view.Screen); ok {
			m.screen = s
		}

		return m, cmd
	}

	return m, nil
}

func (m model) mounted(msg mountedMsg) (tea.Model, tea.Cmd) {
	if msg.toLogin {
		m.login = view.NewLoginModel(m.client, msg.notice)
		m.state = stateLogin

		return m, m.login.Init()
	}

	m.identity = msg.identity
	m.menu = nav.Visible(msg.identity.Role(), nav.Entries)
	m.cursor = min(m.cursor, len(m.menu)-1)

	if msg.forbidden {
		m.notice = "That page is not available for your role."
		m.state = stateMenu

		return m, nil
	}

	if msg.redirected {
		m.notice = "Record the opening balances before using the dashboard."
	}

	m.path = msg.path
	m.screen = m.screenFor(msg.path)
	m.state = stateScreen

	cmds := []tea.Cmd{m.screen.Init()}
	if m.size != nil {
		size := *m.size
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

type loggedOutMsg struct{}

func (m model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.menu) {
			m.notice = ""
			return m, m.navigate(m.menu[m.cursor].Path)
		}
	case "l":
		c := m.client

		return m, func() tea.Msg {
			ctx, cancel := view.APICtx()
			defer cancel()

			if err := c.Logout(ctx); err != nil {
				slog.Warn("logout failed", "error", err)
			}

			return loggedOutMsg{}
		}
	}

	return m, nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m model) header() string {
	h := titleStyle.Render(m.appName)
	if m.identity.ID() != "" {
		h += fmt.Sprintf("  %s (%s)", m.identity.Name(), m.identity.Role().Label())
		if m.identity.ReadOnly() {
			h += "  [read-only]"
		}
	}

	if m.notice != "" {
		h += "\n" + noticeStyle.Render(m.notice)
	}

	return h
}

func (m model) View() string {
	switch m.state {
	case stateMounting:
		return lipgloss.NewStyle().Padding(2).Render(m.header() + "\n\nLoading...")
	case stateLogin:
		return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render(m.appName)) + "\n" + m.login.View()
	case stateScreen:
		return lipgloss.NewStyle().Padding(1, 2, 0).Render(m.header()+"\n\n"+titleStyle.Render(m.screen.Title())) +
			"\n" + m.screen.View() + "\n" + helpStyle.Render("  "+m.screen.ShortHelp())
	}

	var sb strings.Builder

	sb.WriteString(m.header() + "\n\n")

	for i, e := range m.menu {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, e.Label)
	}

	sb.WriteString("\n" + helpStyle.Render("Enter: open | l: log out | q: quit"))

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := tea.LogToFile("backoffice-tui.log", "tui")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	formatter, err := format.New(cfg.App.Locale, cfg.App.Currency)
	if err != nil {
		return fmt.Errorf("setting up formatting: %w", err)
	}

	view.Formatter = formatter

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("creating cookie jar: %w", err)
	}

	client, err := api.New(cfg.API.URL,
		api.WithJar(jar),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLanguage(formatter.Tag()),
	)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	p := tea.NewProgram(newModel(cfg.App.Name, client, cfg.FailOpen()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}
