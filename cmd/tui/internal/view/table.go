package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Sheet is what a Loader returns for a TableModel.
type Sheet struct {
	Columns []table.Column
	Rows    []table.Row
	Header  string
}

// Loader fetches the rows of a read-only table screen.
type Loader func(ctx context.Context) (Sheet, error)

// TableModel is a read-only listing refreshed on demand.
type TableModel struct {
	title  string
	load   Loader
	table  table.Model
	header string

	// seq tags each load; an answer for an older load is dropped.
	seq     int
	loading bool
	err     error
}

func newTable() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func NewTableModel(title string, load Loader) *TableModel {
	return &TableModel{
		title:   title,
		load:    load,
		table:   newTable(),
		loading: true,
	}
}

func (m *TableModel) Title() string     { return m.title }
func (m *TableModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m *TableModel) Init() tea.Cmd {
	return m.loadCmd()
}

type sheetMsg struct {
	owner *TableModel
	seq   int
	sheet Sheet
	err   error
}

func (m *TableModel) loadCmd() tea.Cmd {
	m.seq++
	seq := m.seq

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		sheet, err := m.load(ctx)

		return sheetMsg{owner: m, seq: seq, sheet: sheet, err: err}
	}
}

func (m *TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sheetMsg:
		if msg.owner != m || msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.header = msg.sheet.Header
			m.table.SetRows(nil)
			m.table.SetColumns(msg.sheet.Columns)
			m.table.SetRows(msg.sheet.Rows)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *TableModel) View() string {
	if m.loading {
		return frame.Render(fmt.Sprintf("Loading %s...", m.title))
	}

	if m.err != nil {
		return frame.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.header == "" {
		return frame.Render(tableView)
	}

	return frame.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(m.header),
		tableView,
	))
}
