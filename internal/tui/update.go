package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case CalculationCompleteMsg:
		// the form changed while the calculation ran
		if !m.matches(msg.Request) {
			return m, nil
		}
		m.calculating = false
		m.result, m.err = msg.Result, msg.Err
		return m, nil
	}

	if m.focus == FieldAmount {
		return m.updateAmount(msg)
	}
	return m, nil
}

// updateAmount forwards msg to the amount input and drops a result that no
// longer matches the entered amount
func (m Model) updateAmount(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.amount.Value()
	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	if m.amount.Value() != before {
		m.result, m.err, m.calculating = nil, nil, false
	}
	return m, cmd
}

// handleKeyPress processes keyboard input. While the amount field has focus,
// keys other than navigation go to the text input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)

	case key.Matches(msg, m.keys.Calculate):
		return m.startCalculation()

	case key.Matches(msg, m.keys.Reset):
		m.result, m.err = nil, nil
		return m, nil

	case m.focus == FieldAmount:
		return m.updateAmount(msg)

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Right):
		m.cycle(1)

	case key.Matches(msg, m.keys.Left):
		m.cycle(-1)
	}
	return m, nil
}

// moveFocus steps through the form, skipping the sub-type row for categories without sub-types
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	next := m.focus
	for {
		next = Field(wrap(int(next), delta, int(fieldCount)))
		if next != FieldSubType || m.Category().HasSubTypes() {
			break
		}
	}
	m.focus = next

	if m.focus == FieldAmount {
		return m, m.amount.Focus()
	}
	m.amount.Blur()
	return m, nil
}

func (m *Model) cycle(delta int) {
	switch m.focus {
	case FieldCategory:
		m.catIdx = wrap(m.catIdx, delta, len(m.categories))
		m.subIdx = 0
	case FieldSubType:
		m.subIdx = wrap(m.subIdx, delta, len(m.Category().SubTypes()))
	case FieldPeriod:
		m.periodIdx = wrap(m.periodIdx, delta, len(m.periods))
	case FieldYear:
		m.yearIdx = wrap(m.yearIdx, delta, len(m.years))
	default:
		return
	}
	m.result, m.err, m.calculating = nil, nil, false
}

func (m Model) startCalculation() (tea.Model, tea.Cmd) {
	req, err := m.Request()
	if err != nil {
		m.result, m.err = nil, err
		return m, nil
	}
	m.calculating = true
	m.err = nil
	return m, calculateCmd(m.calc, req)
}
