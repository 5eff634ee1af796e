// Package update holds the bubbletea program: the model, the message loop,
// and the per-view key handling for the daily dashboard.
package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/scheduler"
	"github.com/sandeepkv93/routined/internal/views"
)

type View string

const (
	ViewDay    View = "Day"
	ViewHabits View = "Habits"
	ViewFocus  View = "Focus"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day    string
	Habits string
	Focus  string
	Help   string
	Quit   string
}

// FocusState is the stopwatch for one occurrence: it counts up toward the
// task's estimate and feeds the measured seconds into the reflection flow.
type FocusState struct {
	TaskID      string
	TaskTitle   string
	Date        time.Time
	EstimateSec int
	ElapsedSec  int
	Running     bool
}

type ReflectKind string

const (
	ReflectTask  ReflectKind = "task"
	ReflectHabit ReflectKind = "habit"
)

type reflectField int

const (
	fieldMoodBefore reflectField = iota
	fieldMoodAfter
	fieldPreviousActivity
	fieldNextActivity
)

// ReflectEditorState captures the introspection prompt shown before a task
// is marked done or a habit counter is bumped.
type ReflectEditorState struct {
	Active           bool
	Kind             ReflectKind
	TargetID         string
	TargetName       string
	Date             time.Time
	DurationSec      int
	Field            reflectField
	MoodBefore       int
	MoodAfter        int
	PreviousActivity string
	NextActivity     string
	Err              string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Svc         *dashboard.Service
	UserID      string
	UTCOffset   int
	// ViewDate is the date being shown; zero means "the client's today".
	ViewDate       time.Time
	Day            dashboard.Day
	DayCursor      int
	HabitCursor    int
	Focus          FocusState
	Scheduler      *scheduler.Engine
	ReminderLog    []scheduler.OccurrenceEvent
	ReminderAck    map[string]bool
	renagged       map[string]bool
	Palette        CommandPaletteState
	Reflect        ReflectEditorState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	// Bubble components used for rich TUI controls
	dayList        list.Model
	habitTable     table.Model
	commandInput   textinput.Model
	focusProgress  progress.Model
	refreshSpinner spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	spinnerActive  bool
	prefsFilePath  string
	uiDensity      int
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type DayLoadedMsg struct {
	Day dashboard.Day
}

type OccurrenceDoneMsg struct {
	TaskName string
}

type HabitTickedMsg struct {
	Name  string
	Count int
}

type FocusTickMsg struct{}

type ReminderDueMsg struct {
	Event scheduler.OccurrenceEvent
}

type AcknowledgeReminderMsg struct {
	ID string
}

func NewModel() Model {
	m := Model{
		CurrentView: ViewDay,
		UserID:      "local",
		ReminderAck: make(map[string]bool),
		renagged:    make(map[string]bool),
		notifier:    NoopDesktopNotifier{},
		Reflect: ReflectEditorState{
			MoodBefore: 3,
			MoodAfter:  3,
		},
		Keys: GlobalKeyMap{
			Day:    "1",
			Habits: "2",
			Focus:  "3",
			Help:   "?",
			Quit:   "q",
		},
		uiDensity: 1,
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func NewModelWithService(svc *dashboard.Service, userID string) Model {
	m := NewModel()
	m.Svc = svc
	if strings.TrimSpace(userID) != "" {
		m.UserID = userID
	}
	return m
}

func NewModelWithConfig(svc *dashboard.Service, engine *scheduler.Engine, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := NewModelWithService(svc, cfg.UserID)
	m.Scheduler = engine
	m.UTCOffset = cfg.UTCOffsetHours
	m.DesktopEnabled = cfg.DesktopNotifications
	m.prefsFilePath = strings.TrimSpace(cfg.PrefsPath)
	if notifier != nil {
		m.notifier = notifier
	}
	if m.prefsFilePath != "" {
		if prefs, err := loadUIPrefs(m.prefsFilePath); err == nil && prefs != nil {
			m.UTCOffset = prefs.UTCOffsetHours
			if prefs.Density >= 1 && prefs.Density <= 3 {
				m.uiDensity = prefs.Density
			}
		}
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.dayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.dayList.Title = "Plan (list)"
	m.dayList.SetShowHelp(false)
	m.dayList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Habit", Width: 20},
		{Title: "Period", Width: 8},
		{Title: "Count", Width: 6},
		{Title: "Target", Width: 7},
		{Title: "Status", Width: 10},
	}
	m.habitTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.focusProgress = progress.New(progress.WithDefaultGradient())

	m.refreshSpinner = spinner.New()
	m.refreshSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	listWidth, listHeight, tableHeight, viewportHeight := densityDimensions(m.uiDensity)
	m.dayList.SetSize(listWidth, listHeight)
	m.habitTable.SetHeight(tableHeight)
	m.detailViewport.Height = viewportHeight

	dayItems := make([]list.Item, 0, len(m.Day.Occurrences))
	for _, occ := range m.Day.Occurrences {
		desc := fmt.Sprintf("%s | streak %d", occ.Status, occ.KPI.Streak)
		dayItems = append(dayItems, listItem{title: occ.Slot.String() + " " + occ.TaskName, description: desc})
	}
	m.dayList.SetItems(dayItems)
	if len(dayItems) > 0 && m.DayCursor < len(dayItems) {
		m.dayList.Select(m.DayCursor)
	}

	rows := make([]table.Row, 0, len(m.Day.Habits))
	for _, h := range m.Day.Habits {
		rows = append(rows, table.Row{
			h.Name,
			string(h.TargetPeriod),
			fmt.Sprintf("%d", h.KPI.BucketCount),
			fmt.Sprintf("%d", h.TargetValue),
			string(h.KPI.Status),
		})
	}
	m.habitTable.SetRows(rows)
	if len(rows) > 0 && m.HabitCursor < len(rows) {
		m.habitTable.SetCursor(m.HabitCursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if occ, ok := m.currentOccurrence(); ok {
		md := occ.PersonalMessage
		if strings.TrimSpace(md) == "" {
			md = "_No personal message_"
		}
		m.detailViewport.SetContent(views.RenderMarkdown(md))
	}

	total := m.Focus.EstimateSec
	pct := 0.0
	if total > 0 {
		pct = float64(m.Focus.ElapsedSec) / float64(total)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	_ = m.focusProgress.SetPercent(pct)
}

func densityDimensions(level int) (listWidth int, listHeight int, tableHeight int, viewportHeight int) {
	switch level {
	case 2:
		return 60, 14, 12, 14
	case 3:
		return 64, 16, 14, 16
	default:
		return 56, 12, 10, 12
	}
}

func (m *Model) cycleDensity() {
	m.uiDensity++
	if m.uiDensity > 3 {
		m.uiDensity = 1
	}
	m.Status = StatusBar{
		Text:    fmt.Sprintf("density level: %d", m.uiDensity),
		IsError: false,
	}
	m.persistPrefsQuietly()
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}
