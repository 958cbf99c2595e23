package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/export"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
)

type expensesState int

const (
	expensesBrowse expensesState = iota
	expensesCreate
	expensesExport
	expensesImport
)

// ExpensesModel lists expenses with per-method totals. Writers can record new
// expenses by hand or from a bank statement. Everyone who sees the screen can
// export it.
type ExpensesModel struct {
	client   *api.Client
	readOnly bool

	state    expensesState
	table    table.Model
	expenses []api.Expense
	form     *huh.Form
	export   ExportModel
	imports  ImportModel

	seq        int
	loading    bool
	submitting bool
	err        error
	status     string
}

func NewExpensesModel(client *api.Client, readOnly bool) *ExpensesModel {
	t := newTable()
	t.SetColumns([]table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 30},
		{Title: "Type", Width: 14},
		{Title: "Method", Width: 14},
		{Title: "Amount", Width: 14},
	})

	return &ExpensesModel{client: client, readOnly: readOnly, table: t, loading: true}
}

func (m *ExpensesModel) Title() string { return "Expenses" }

func (m *ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesCreate:
		return "Navigate form | Esc: cancel"
	case expensesExport:
		return m.export.ShortHelp()
	case expensesImport:
		return m.imports.ShortHelp()
	}

	if m.readOnly {
		return "Esc: back | r: refresh | x: export"
	}

	return "Esc: back | r: refresh | n: new expense | i: import statement | x: export"
}

func (m *ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

type expensesLoadedMsg struct {
	owner    *ExpensesModel
	seq      int
	expenses []api.Expense
	err      error
}

type expenseSavedMsg struct {
	owner *ExpensesModel
	err   error
}

type exportClosedMsg struct {
	owner *ExpensesModel
}

type importClosedMsg struct {
	owner *ExpensesModel
}

func (m *ExpensesModel) loadCmd() tea.Cmd {
	m.seq++
	seq := m.seq

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		items, err := m.client.ListExpenses(ctx)

		return expensesLoadedMsg{owner: m, seq: seq, expenses: items, err: err}
	}
}

func (m *ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expensesLoadedMsg:
		if msg.owner != m || msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.expenses = msg.expenses
			m.refreshTable()
		}

		return m, nil

	case expenseSavedMsg:
		if msg.owner != m {
			return m, nil
		}

		m.submitting = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = "Expense recorded."
		m.state = expensesBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case exportClosedMsg:
		if msg.owner == m {
			m.state = expensesBrowse
			m.table.Focus()
		}

		return m, nil

	case importClosedMsg:
		if msg.owner != m {
			return m, nil
		}

		m.state = expensesBrowse
		m.table.Focus()
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-14, 5))
		return m, nil
	}

	switch m.state {
	case expensesCreate:
		return m.updateCreate(msg)
	case expensesExport:
		var cmd tea.Cmd
		m.export, cmd = m.export.Update(msg)

		return m, cmd
	case expensesImport:
		var cmd tea.Cmd
		m.imports, cmd = m.imports.Update(msg)

		return m, cmd
	}

	return m.updateBrowse(msg)
}

func (m *ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			if m.readOnly {
				return m, nil
			}

			m.status = ""

			return m, m.enterCreate(api.CreateExpenseInput{Date: time.Now().Format(time.DateOnly)})
		case "i":
			if m.readOnly {
				return m, nil
			}

			m.state = expensesImport
			m.table.Blur()
			m.imports = NewImportModel(importer.NewService(m.client), func() tea.Msg { return importClosedMsg{owner: m} })

			return m, m.imports.Init()
		case "x":
			m.state = expensesExport
			m.table.Blur()
			m.export = NewExportModel(export.NewService(m.client), func() tea.Msg { return exportClosedMsg{owner: m} })

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// enterCreate opens the form prefilled with in, so a rejected submission keeps
// what was typed.
func (m *ExpensesModel) enterCreate(in api.CreateExpenseInput) tea.Cmd {
	methods := make([]huh.Option[string], 0, len(api.PaymentMethods))
	for _, pm := range api.PaymentMethods {
		methods = append(methods, huh.NewOption(pm.Label(), string(pm)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("date").Title("Date").Placeholder("YYYY-MM-DD").Value(new(in.Date)),
			huh.NewInput().Key("description").Title("Description").Value(new(in.Description)),
			huh.NewInput().Key("type").Title("Type").Placeholder("Rent, utilities...").Value(new(in.Type)),
			huh.NewInput().Key("amount").Title("Amount").Value(new(in.Amount)),
			huh.NewSelect[string]().Key("method").Title("Method").Options(methods...).Value(new(string(in.Method))),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = expensesCreate
	m.table.Blur()

	return m.form.Init()
}

func (m *ExpensesModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && !m.submitting {
		m.state = expensesBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
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

	in := api.CreateExpenseInput{
		Date:        strings.TrimSpace(m.form.GetString("date")),
		Description: strings.TrimSpace(m.form.GetString("description")),
		Type:        strings.TrimSpace(m.form.GetString("type")),
		Amount:      strings.TrimSpace(m.form.GetString("amount")),
		Method:      api.PaymentMethod(m.form.GetString("method")),
	}

	if problem := api.Validate(in); problem != "" {
		m.status = problem
		return m, m.enterCreate(in)
	}

	m.submitting = true

	return m, func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		_, err := m.client.CreateExpense(ctx, in)

		return expenseSavedMsg{owner: m, err: err}
	}
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Description,
			e.Type,
			e.Method.Label(),
			FormatAmount(e.Amount),
		})
	}

	m.table.SetRows(rows)
}

func (m *ExpensesModel) View() string {
	switch m.state {
	case expensesExport:
		return m.export.View()
	case expensesImport:
		return m.imports.View()
	}

	if m.loading {
		return frame.Render("Loading expenses...")
	}

	if m.err != nil {
		return frame.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	totals := export.ByMethod(m.expenses)
	sum := totals.Sum()

	header := fmt.Sprintf("%s\nTotal: %s (%d)",
		groupHeader(totals, func(k string) string { return api.PaymentMethod(k).Label() }),
		activeStyle(money(sum.Total)), sum.Count)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == expensesCreate && m.form != nil {
		body := m.form.View()
		if m.submitting {
			body = "Saving..."
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New expense\n\n" + body)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return frame.Render(content)
}
