package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/model"
)

func (m Model) handleDayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.DayCursor > 0 {
			m.DayCursor--
		}
	case "down", "j":
		if m.DayCursor < len(m.Day.Occurrences)-1 {
			m.DayCursor++
		}
	case "enter", "x":
		occ, ok := m.currentOccurrence()
		if !ok {
			return m, nil
		}
		if occ.Status == dashboard.StatusDone {
			m.Status = StatusBar{Text: "occurrence already done", IsError: false}
			return m, nil
		}
		m.openReflectEditor(ReflectTask, occ.TaskID, occ.TaskName, occ.Date, 0)
		return m, nil
	case "f":
		occ, ok := m.currentOccurrence()
		if !ok {
			return m, nil
		}
		if occ.Status == dashboard.StatusDone {
			m.Status = StatusBar{Text: "occurrence already done", IsError: false}
			return m, nil
		}
		m.Focus = FocusState{
			TaskID:      occ.TaskID,
			TaskTitle:   occ.TaskName,
			Date:        occ.Date,
			EstimateSec: occ.DurationEstimate * 60,
		}
		m.CurrentView = ViewFocus
		m.Status = StatusBar{Text: "focus ready: " + occ.TaskName, IsError: false}
		return m, nil
	}
	return m, nil
}

func (m Model) currentOccurrence() (dashboard.Occurrence, bool) {
	if len(m.Day.Occurrences) == 0 {
		return dashboard.Occurrence{}, false
	}
	if m.DayCursor < 0 || m.DayCursor >= len(m.Day.Occurrences) {
		return dashboard.Occurrence{}, false
	}
	return m.Day.Occurrences[m.DayCursor], true
}

func (m Model) currentHabit() (dashboard.HabitEntry, bool) {
	if len(m.Day.Habits) == 0 {
		return dashboard.HabitEntry{}, false
	}
	if m.HabitCursor < 0 || m.HabitCursor >= len(m.Day.Habits) {
		return dashboard.HabitEntry{}, false
	}
	return m.Day.Habits[m.HabitCursor], true
}

func (m Model) refreshDayCmd() tea.Cmd {
	if m.Svc == nil {
		return nil
	}
	svc, userID, date, offset := m.Svc, m.UserID, m.ViewDate, m.UTCOffset
	return func() tea.Msg {
		day, err := svc.ResolveDay(context.Background(), userID, date, offset)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return DayLoadedMsg{Day: day}
	}
}

func (m Model) markDoneCmd(taskID, taskName string, date time.Time, durationSec int, reflection model.Reflection) tea.Cmd {
	if m.Svc == nil {
		return nil
	}
	svc := m.Svc
	return func() tea.Msg {
		if err := svc.MarkTaskOccurrenceDone(context.Background(), taskID, date, durationSec, reflection); err != nil {
			return AppErrorMsg{Err: err}
		}
		return OccurrenceDoneMsg{TaskName: taskName}
	}
}

func (m Model) tickHabitCmd(habitID, name string, date time.Time, reflection model.Reflection) tea.Cmd {
	if m.Svc == nil {
		return nil
	}
	svc := m.Svc
	return func() tea.Msg {
		count, err := svc.RecordHabitOccurrence(context.Background(), habitID, date, reflection)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return HabitTickedMsg{Name: name, Count: count}
	}
}
