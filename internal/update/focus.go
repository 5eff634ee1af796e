package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.TaskID == "" {
			m.Status = StatusBar{Text: "no occurrence selected for focus", IsError: true}
			return m, nil
		}
		if m.Focus.Running {
			m.Focus.Running = false
			m.Status = StatusBar{Text: "focus paused", IsError: false}
			return m, nil
		}
		m.Focus.Running = true
		m.Status = StatusBar{Text: "focus running", IsError: false}
		return m, focusTickCmd()
	case "r":
		m.Focus.Running = false
		m.Focus.ElapsedSec = 0
		m.Status = StatusBar{Text: "focus reset", IsError: false}
		return m, nil
	case "enter", "d":
		if m.Focus.TaskID == "" {
			return m, nil
		}
		m.Focus.Running = false
		m.openReflectEditor(ReflectTask, m.Focus.TaskID, m.Focus.TaskTitle, m.Focus.Date, m.Focus.ElapsedSec)
		return m, nil
	}
	return m, nil
}

func (m Model) onFocusTick() (tea.Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	m.Focus.ElapsedSec++
	if m.Focus.EstimateSec > 0 && m.Focus.ElapsedSec == m.Focus.EstimateSec {
		m.Status = StatusBar{Text: "estimate reached; press enter to mark done", IsError: false}
	}
	return m, focusTickCmd()
}

// bootstrapFocusOccurrence seeds the stopwatch from the day cursor when the
// focus view is entered without an explicit pick.
func (m *Model) bootstrapFocusOccurrence() {
	if m.Focus.TaskID != "" {
		return
	}
	occ, ok := m.currentOccurrence()
	if !ok {
		return
	}
	m.Focus = FocusState{
		TaskID:      occ.TaskID,
		TaskTitle:   occ.TaskName,
		Date:        occ.Date,
		EstimateSec: occ.DurationEstimate * 60,
	}
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}
