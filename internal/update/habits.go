package update

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleHabitsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.HabitCursor > 0 {
			m.HabitCursor--
		}
	case "down", "j":
		if m.HabitCursor < len(m.Day.Habits)-1 {
			m.HabitCursor++
		}
	case "enter", "+":
		habit, ok := m.currentHabit()
		if !ok {
			return m, nil
		}
		m.openReflectEditor(ReflectHabit, habit.HabitID, habit.Name, m.Day.Date, 0)
		return m, nil
	}
	return m, nil
}
