package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Timeframe is a predefined or custom date range.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This month"
	case TimeframeLastMonth:
		return "Last month"
	case TimeframeThisYear:
		return "This year"
	case TimeframeAll:
		return "All time"
	case TimeframeCustom:
		return "Custom range"
	}

	return "Unknown"
}

func timeframeRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch tf {
	case TimeframeThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), today
	case TimeframeLastMonth:
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case TimeframeThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), today
	}

	return time.Time{}, time.Time{}
}

// RangeSelectedMsg is emitted once a range is chosen. Start and End are zero when
// All is true; both are whole days.
type RangeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// RangePicker lets the user pick a date range.
type RangePicker struct {
	custom   bool
	selected Timeframe
	allowAll bool

	startInput textinput.Model
	endInput   textinput.Model
	focus      int

	err error
}

func NewRangePicker(allowAll bool) RangePicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "From: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "To:   "

	return RangePicker{allowAll: allowAll, startInput: si, endInput: ei}
}

func (m RangePicker) options() []Timeframe {
	opts := []Timeframe{TimeframeThisMonth, TimeframeLastMonth, TimeframeThisYear}
	if m.allowAll {
		opts = append(opts, TimeframeAll)
	}

	return append(opts, TimeframeCustom)
}

// Selecting reports whether the picker shows the list rather than the custom inputs.
func (m RangePicker) Selecting() bool {
	return !m.custom
}

func (m RangePicker) Update(msg tea.Msg) (RangePicker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.custom {
			return m.updateInputs(msg)
		}

		return m, nil
	}

	if m.custom {
		return m.updateCustom(key)
	}

	opts := m.options()
	idx := 0

	for i, o := range opts {
		if o == m.selected {
			idx = i
		}
	}

	switch key.Type {
	case tea.KeyUp:
		if idx > 0 {
			m.selected = opts[idx-1]
		}
	case tea.KeyDown:
		if idx < len(opts)-1 {
			m.selected = opts[idx+1]
		}
	case tea.KeyEnter:
		switch m.selected {
		case TimeframeCustom:
			m.custom = true
			m.focus = 0
			m.startInput.Focus()

			return m, textinput.Blink
		case TimeframeAll:
			return m, func() tea.Msg { return RangeSelectedMsg{All: true} }
		}

		start, end := timeframeRange(m.selected, time.Now())

		return m, func() tea.Msg { return RangeSelectedMsg{Start: start, End: end} }
	}

	return m, nil
}

func (m RangePicker) updateCustom(key tea.KeyMsg) (RangePicker, tea.Cmd) {
	switch key.String() {
	case "tab", "shift+tab":
		m.focus = (m.focus + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focus == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink
	case "enter":
		start, err := time.Parse(time.DateOnly, strings.TrimSpace(m.startInput.Value()))
		if err != nil {
			m.err = fmt.Errorf("invalid start date (YYYY-MM-DD)")
			return m, nil
		}

		end, err := time.Parse(time.DateOnly, strings.TrimSpace(m.endInput.Value()))
		if err != nil {
			m.err = fmt.Errorf("invalid end date (YYYY-MM-DD)")
			return m, nil
		}

		if end.Before(start) {
			m.err = fmt.Errorf("end date is before start date")
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg { return RangeSelectedMsg{Start: start, End: end} }
	case "esc":
		m.custom = false
		m.err = nil

		return m, nil
	}

	return m.updateInputs(key)
}

func (m RangePicker) updateInputs(msg tea.Msg) (RangePicker, tea.Cmd) {
	var s, e tea.Cmd

	m.startInput, s = m.startInput.Update(msg)
	m.endInput, e = m.endInput.Update(msg)

	return m, tea.Batch(s, e)
}

func (m RangePicker) View() string {
	var errStr string
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.custom {
		return fmt.Sprintf("Custom range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to go back)%s",
			m.startInput.View(), m.endInput.View(), errStr)
	}

	var sb strings.Builder

	sb.WriteString("Select a period:\n\n")

	for _, o := range m.options() {
		cursor := " "
		if o == m.selected {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, o)
	}

	sb.WriteString("\n(Enter to select, Esc to go back)")

	return sb.String() + errStr
}
