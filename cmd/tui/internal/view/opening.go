package view

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

// PeriodOpenedMsg is emitted once opening balances were saved.
type PeriodOpenedMsg struct{}

// OpeningModel records the opening balances that open the accounting period.
type OpeningModel struct {
	client *api.Client
	form   *huh.Form

	loading    bool
	submitting bool
	status     string
}

func NewOpeningModel(client *api.Client) *OpeningModel {
	return &OpeningModel{client: client, loading: true}
}

func (m *OpeningModel) Title() string     { return "Opening balance" }
func (m *OpeningModel) ShortHelp() string { return "Enter: next field | Esc: back" }

type openingLoadedMsg struct {
	owner  *OpeningModel
	values api.OpeningBalances
}

type openingSavedMsg struct {
	owner *OpeningModel
	err   error
}

func (m *OpeningModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		values, err := m.client.OpeningBalances(ctx)
		if err != nil {
			slog.Info("no opening balances to prefill", "error", err)
		}

		return openingLoadedMsg{owner: m, values: values}
	}
}

func (m *OpeningModel) buildForm(in api.SetOpeningBalancesInput) tea.Cmd {
	fields := []huh.Field{
		huh.NewInput().Key("periodStart").Title("Period start").Placeholder("YYYY-MM-DD").Value(new(in.PeriodStart)),
	}

	for _, b := range api.AccountBuckets {
		fields = append(fields, huh.NewInput().Key(string(b)).Title(b.Label()).Placeholder("0").Value(new(in.Balances[b])))
	}

	fields = append(fields, huh.NewConfirm().Key("confirm").Title("Open the period with these balances?").Affirmative("Open period").Negative("Cancel"))

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(50).WithShowHelp(false)

	return m.form.Init()
}

func (m *OpeningModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case openingLoadedMsg:
		if msg.owner != m {
			return m, nil
		}

		m.loading = false

		now := time.Now()
		in := api.SetOpeningBalancesInput{
			PeriodStart: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			Balances:    make(map[api.AccountBucket]string, len(api.AccountBuckets)),
		}

		for b, v := range msg.values {
			in.Balances[b] = string(v)
		}

		return m, m.buildForm(in)

	case openingSavedMsg:
		if msg.owner != m {
			return m, nil
		}

		m.submitting = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, m.buildForm(m.input())
		}

		return m, func() tea.Msg { return PeriodOpenedMsg{} }

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !m.submitting {
			return m, Back
		}
	}

	if m.loading || m.submitting || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m, Back
	}

	in := m.input()

	if problem := api.Validate(in); problem != "" {
		m.status = problem
		return m, m.buildForm(in)
	}

	m.submitting = true
	m.status = ""

	return m, func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		err := m.client.SetOpeningBalances(ctx, in)
		if err == nil {
			slog.Info("accounting period opened", "period_start", in.PeriodStart)
		}

		return openingSavedMsg{owner: m, err: err}
	}
}

// input reads the form. Empty buckets are sent as zero.
func (m *OpeningModel) input() api.SetOpeningBalancesInput {
	in := api.SetOpeningBalancesInput{
		PeriodStart: strings.TrimSpace(m.form.GetString("periodStart")),
		Balances:    make(map[api.AccountBucket]string, len(api.AccountBuckets)),
	}

	for _, b := range api.AccountBuckets {
		v := strings.TrimSpace(m.form.GetString(string(b)))
		if v == "" {
			v = "0"
		}

		in.Balances[b] = v
	}

	return in
}

func (m *OpeningModel) View() string {
	if m.loading {
		return frame.Render("Loading opening balances...")
	}

	if m.submitting {
		return frame.Render("Saving...")
	}

	body := "The accounting period is not open yet. Record the opening balances to continue.\n\n" + m.form.View()
	if m.status != "" {
		body = errorStyle.Render(m.status) + "\n\n" + body
	}

	return frame.Render(body)
}
