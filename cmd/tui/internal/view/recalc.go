package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

// RecalcModel asks the API to rebuild its aggregates for a period. The request
// is not awaited.
type RecalcModel struct {
	client  *api.Client
	picker  RangePicker
	section int
	sent    string
}

func NewRecalcModel(client *api.Client) *RecalcModel {
	return &RecalcModel{client: client, picker: NewRangePicker(false)}
}

func (m *RecalcModel) Title() string { return "Recalculate totals" }

func (m *RecalcModel) ShortHelp() string {
	return "Enter: select | s: section | Esc: back"
}

func (m *RecalcModel) Init() tea.Cmd { return nil }

func (m *RecalcModel) sectionValue() api.Section {
	if m.section == 0 {
		return ""
	}

	return api.Sections[m.section-1]
}

func (m *RecalcModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RangeSelectedMsg:
		in := api.RecalculateInput{
			StartDate: msg.Start.Format(time.DateOnly),
			EndDate:   msg.End.Format(time.DateOnly),
			Section:   m.sectionValue(),
		}

		m.client.RecalculateAggregators(context.Background(), in, nil)
		m.sent = fmt.Sprintf("Recalculation requested for %s to %s (%s).", in.StartDate, in.EndDate, in.Section.Label())
		m.picker = NewRangePicker(false)

		return m, nil

	case tea.KeyMsg:
		if m.picker.Selecting() {
			switch msg.String() {
			case "esc":
				return m, Back
			case "s":
				m.section = (m.section + 1) % (len(api.Sections) + 1)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m *RecalcModel) View() string {
	body := fmt.Sprintf("Section: %s  [s to change]\n\n%s", activeStyle(m.sectionValue().Label()), m.picker.View())
	if m.sent != "" {
		body = okStyle.Render(m.sent) + "\n\n" + body
	}

	return frame.Render(body)
}
