package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const apiTimeout = 15 * time.Second

// Screen is implemented by every page the shell can mount.
type Screen interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// BackMsg returns the user to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// NoticeMsg is shown in the status line of the menu.
type NoticeMsg struct {
	Text string
}

// APICtx returns a context with the standard timeout for remote calls.
func APICtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	frame      = lipgloss.NewStyle().Padding(1)
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
