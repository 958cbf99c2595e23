package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/backoffice/internal/aggregate"
	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
)

type importState int

const (
	importStateFile importState = iota
	importStatePreview
	importStateRecording
	importStateResult
)

// ImportModel records the outgoing movements of a bank statement as expenses.
type ImportModel struct {
	service *importer.Service
	done    tea.Cmd

	state   importState
	form    *huh.Form
	spinner spinner.Model

	drafts []api.CreateExpenseInput
	result importer.Result
	err    error
}

func NewImportModel(svc *importer.Service, done tea.Cmd) ImportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ImportModel{service: svc, done: done, spinner: s}
	m.form = m.buildFileForm()

	return m
}

func (m ImportModel) buildFileForm() *huh.Form {
	banks := make([]huh.Option[string], 0, len(importer.Banks))
	for _, b := range importer.Banks {
		banks = append(banks, huh.NewOption(strings.ToUpper(string(b)), string(b)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("file").Title("Statement file").Placeholder("./statement.csv"),
			huh.NewSelect[string]().Key("bank").Title("Bank").Options(banks...),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: record all | Esc: cancel"
	case importStateRecording:
		return "Recording..."
	}

	return "Esc: back"
}

type importParsedMsg struct {
	drafts []api.CreateExpenseInput
	err    error
}

type importRecordedMsg struct {
	result importer.Result
}

func (m ImportModel) Update(msg tea.Msg) (ImportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case importParsedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.state = importStateResult
			return m, nil
		}

		m.drafts = msg.drafts
		m.state = importStatePreview

		return m, nil

	case importRecordedMsg:
		m.result = msg.result
		m.state = importStateResult

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != importStateRecording {
			return m, m.done
		}

		if msg.Type == tea.KeyEnter && m.state == importStatePreview {
			if len(m.drafts) == 0 {
				return m, m.done
			}

			m.state = importStateRecording

			return m, tea.Batch(m.spinner.Tick, m.recordCmd())
		}
	}

	switch m.state {
	case importStateFile:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		return m, m.parseCmd(m.form.GetString("file"), importer.Bank(m.form.GetString("bank")))

	case importStateRecording:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) parseCmd(path string, bank importer.Bank) tea.Cmd {
	svc := m.service

	return func() tea.Msg {
		f, err := os.Open(strings.TrimSpace(path))
		if err != nil {
			return importParsedMsg{err: fmt.Errorf("opening statement: %w", err)}
		}
		defer f.Close()

		drafts, err := svc.Parse(bank, f)

		return importParsedMsg{drafts: drafts, err: err}
	}
}

const importTimeout = 2 * time.Minute

func (m ImportModel) recordCmd() tea.Cmd {
	svc := m.service
	drafts := m.drafts

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		return importRecordedMsg{result: svc.Record(ctx, drafts)}
	}
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFile:
		return frame.Render(m.form.View())
	case importStatePreview:
		return frame.Render(m.viewPreview())
	case importStateRecording:
		return frame.Render(fmt.Sprintf("%s Recording %d expenses...", m.spinner.View(), len(m.drafts)))
	}

	if m.err != nil {
		return frame.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var sb strings.Builder

	sb.WriteString(okStyle.Render(fmt.Sprintf("%d expenses recorded.", m.result.Created)))

	for _, f := range m.result.Failed {
		fmt.Fprintf(&sb, "\n%s", errorStyle.Render(fmt.Sprintf("Row %d (%s): %s", f.Row, f.Description, f.Message)))
	}

	return frame.Render(sb.String())
}

func (m ImportModel) viewPreview() string {
	if len(m.drafts) == 0 {
		return "The statement has no outgoing movements."
	}

	totals := aggregate.By(m.drafts,
		func(d api.CreateExpenseInput) string { return string(d.Method) },
		func(d api.CreateExpenseInput) string { return d.Amount },
	)
	sum := totals.Sum()

	var sb strings.Builder

	fmt.Fprintf(&sb, "%d expenses, %s in total\n\n", sum.Count, activeStyle(money(sum.Total)))

	for _, d := range m.drafts {
		fmt.Fprintf(&sb, "%s  %-40s %12s\n", d.Date, d.Description, d.Amount)
	}

	return sb.String()
}
