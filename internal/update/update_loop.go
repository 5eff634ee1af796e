package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/routined/internal/scheduler"
	"github.com/sandeepkv93/routined/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, 2)
	if m.Scheduler != nil {
		cmds = append(cmds, waitForReminderCmd(m.Scheduler.C()))
	}
	if cmd := m.refreshDayCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		m.ensureCursors()

		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		if m.Reflect.Active {
			return m.handleReflectKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Day:
			m.CurrentView = ViewDay
			return m, nil
		case m.Keys.Habits:
			m.CurrentView = ViewHabits
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.bootstrapFocusOccurrence()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "[":
			return m.shiftViewDate(-1)
		case "]":
			return m.shiftViewDate(1)
		case "t":
			m.ViewDate = time.Time{}
			m.Status = StatusBar{Text: "showing today", IsError: false}
			return m, m.refreshDayCmd()
		case "S":
			if !m.spinnerActive {
				m.spinnerActive = true
				m.Status = StatusBar{Text: "refreshing day", IsError: false}
				return m, tea.Batch(m.refreshSpinner.Tick, m.refreshDayCmd())
			}
			return m, nil
		case "D":
			m.cycleDensity()
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewDay:
			return m.handleDayKey(typed)
		case ViewHabits:
			return m.handleHabitsKey(typed)
		case ViewFocus:
			return m.handleFocusKey(typed)
		}
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.refreshSpinner, cmd = m.refreshSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewFocus {
				m.bootstrapFocusOccurrence()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		m.spinnerActive = false
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case DayLoadedMsg:
		m.Day = typed.Day
		m.spinnerActive = false
		m.ensureCursors()
		m.replanReminders()
		return m, nil
	case OccurrenceDoneMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("marked done: %s", typed.TaskName), IsError: false}
		m.notify("Done", typed.TaskName, "info")
		return m, m.refreshDayCmd()
	case HabitTickedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("%s: count is now %d", typed.Name, typed.Count), IsError: false}
		m.notify("Habit", m.Status.Text, "info")
		return m, m.refreshDayCmd()
	case FocusTickMsg:
		return m.onFocusTick()
	case ReminderDueMsg:
		m.ReminderLog = append(m.ReminderLog, typed.Event)
		if len(m.ReminderLog) > 20 {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-20:]
		}
		m.applyReminderBehavior(typed.Event, time.Now().UTC())
		m.notify("Reminder", m.Status.Text, levelFromError(m.Status.IsError))
		if m.Scheduler != nil {
			return m, waitForReminderCmd(m.Scheduler.C())
		}
		return m, nil
	case AcknowledgeReminderMsg:
		if typed.ID != "" {
			m.ReminderAck[typed.ID] = true
			m.Status = StatusBar{Text: fmt.Sprintf("reminder acknowledged: %s", typed.ID), IsError: false}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewDay:
		leftPane = m.renderDayView()
		rightPane = m.renderDetailPane() + m.renderReflectEditorIfVisible() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewHabits:
		leftPane = m.renderHabitsView()
		rightPane = m.renderReflectEditorIfVisible() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewFocus:
		leftPane = m.renderFocusView()
		rightPane = m.renderReflectEditorIfVisible() + m.renderHelpIfVisible()
	}

	notificationView := ""
	if len(m.ReminderLog) > 0 {
		last := m.ReminderLog[len(m.ReminderLog)-1]
		notificationView = fmt.Sprintf("last-reminder: %s @ %s", last.TaskName, last.StartAt.Format("15:04:05"))
	}
	if m.spinnerActive {
		spin := m.refreshSpinner.View()
		notificationView = joinNonEmpty(notificationView, "refresh: "+spin+" running")
	}
	notificationView = joinNonEmpty(notificationView, m.renderNotificationsView(), m.renderDaySummary())

	dateLabel := "today"
	if !m.Day.Date.IsZero() {
		dateLabel = m.Day.Date.Format("2006-01-02")
	}
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("routined | view: %s | date: %s", m.CurrentView, dateLabel),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notificationView,
		Footer:        fmt.Sprintf("keys: %s day | %s habits | %s focus | [/] prev/next day | t today | / cmd | %s help | %s quit", m.Keys.Day, m.Keys.Habits, m.Keys.Focus, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) shiftViewDate(days int) (tea.Model, tea.Cmd) {
	base := m.ViewDate
	if base.IsZero() {
		base = m.Day.Date
	}
	if base.IsZero() {
		base = time.Now().UTC()
	}
	m.ViewDate = base.AddDate(0, 0, days)
	m.Status = StatusBar{Text: fmt.Sprintf("showing %s", m.ViewDate.Format("2006-01-02")), IsError: false}
	return m, m.refreshDayCmd()
}

func (m *Model) ensureCursors() {
	if m.ReminderAck == nil {
		m.ReminderAck = make(map[string]bool)
	}
	if m.renagged == nil {
		m.renagged = make(map[string]bool)
	}
	if m.DayCursor < 0 {
		m.DayCursor = 0
	}
	if m.DayCursor >= len(m.Day.Occurrences) && len(m.Day.Occurrences) > 0 {
		m.DayCursor = len(m.Day.Occurrences) - 1
	}
	if m.HabitCursor < 0 {
		m.HabitCursor = 0
	}
	if m.HabitCursor >= len(m.Day.Habits) && len(m.Day.Habits) > 0 {
		m.HabitCursor = len(m.Day.Habits) - 1
	}
}

func (m *Model) replanReminders() {
	if m.Scheduler == nil {
		return
	}
	m.Scheduler.Clear()
	// Reminders only make sense for the day currently being lived in.
	if !m.ViewDate.IsZero() {
		return
	}
	if _, err := scheduler.PlanDay(m.Scheduler, m.Day, m.UTCOffset, time.Now().UTC()); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder planning failed: %v", err), IsError: true}
	}
}

func waitForReminderCmd(ch <-chan scheduler.OccurrenceEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func isKnownView(v View) bool {
	switch v {
	case ViewDay, ViewHabits, ViewFocus:
		return true
	default:
		return false
	}
}
