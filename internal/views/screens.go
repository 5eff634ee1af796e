package views

import (
	"fmt"
	"strings"
)

type OccurrenceItemData struct {
	Index  int
	Title  string
	Slot   string
	Timed  bool
	Done   bool
	Streak int
}

type DayPanelData struct {
	DateLine      string
	ListView      string
	Items         []OccurrenceItemData
	SelectedIndex int
}

type HabitRowData struct {
	Name     string
	Period   string
	Count    int
	Target   int
	Status   string
	Enforced bool
	Today    string
	Lately   string
}

type HabitsPanelData struct {
	TableView     string
	Rows          []HabitRowData
	SelectedIndex int
}

type FocusPanelData struct {
	TaskTitle    string
	Timer        string
	Estimate     string
	ProgressView string
	ProgressPct  int
	Running      bool
}

type OccurrenceDetailData struct {
	Title       string
	Slot        string
	Status      string
	Streak      int
	Longest     int
	AvgNum      int
	AvgDen      int
	EstimateMin int
	MessageView string
}

type ReflectEditorData struct {
	Active           bool
	Kind             string
	TargetName       string
	MoodBefore       int
	MoodAfter        int
	ActiveField      string
	PreviousActivity string
	NextActivity     string
	ErrorText        string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type DaySummaryData struct {
	Done           int
	Total          int
	HabitsOnTarget int
	HabitsTotal    int
}

func RenderDayPanel(data DayPanelData) string {
	timed := make([]OccurrenceItemData, 0)
	anytime := make([]OccurrenceItemData, 0)
	for _, item := range data.Items {
		if item.Timed {
			timed = append(timed, item)
		} else {
			anytime = append(anytime, item)
		}
	}

	var b strings.Builder
	b.WriteString("day:\n")
	if data.DateLine != "" {
		b.WriteString(data.DateLine + "\n")
	}
	b.WriteString("actions: [j/k]move [enter]done [f]focus [1]day [2]habits [3]focus\n")
	b.WriteString(data.ListView + "\n")
	renderOccurrenceSection(&b, "Timed", timed, data.SelectedIndex)
	renderOccurrenceSection(&b, "Anytime", anytime, data.SelectedIndex)
	if len(data.Items) == 0 {
		b.WriteString("\n(nothing planned)\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderHabitsPanel(data HabitsPanelData) string {
	var b strings.Builder
	b.WriteString("habits:\n")
	b.WriteString("actions: [j/k]move [enter/+]tick\n")
	b.WriteString(data.TableView + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no habits tracked)")
		return strings.TrimSpace(b.String())
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.SelectedIndex {
			cursor = ">"
		}
		direction := "at least"
		if row.Enforced {
			direction = "at most"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%s %d per %s): %s\n",
			cursor, statusBadge(row.Status, row.Enforced), row.Name, direction, row.Target, row.Period, row.Status))
		b.WriteString(fmt.Sprintf("    today %s | lately %s\n", row.Today, row.Lately))
	}
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("state: %s\n", state))
	b.WriteString(fmt.Sprintf("elapsed: %s / estimate %s\n", data.Timer, data.Estimate))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString("actions: [space]start/pause [r]reset [enter]finish\n")
	return strings.TrimSpace(b.String())
}

func RenderOccurrenceDetail(data OccurrenceDetailData) string {
	avg := "-"
	if data.AvgDen > 0 {
		avg = fmt.Sprintf("%d/%d", data.AvgNum, data.AvgDen)
	}
	return fmt.Sprintf("detail:\ntask: %s\nslot: %s\nstatus: %s\nstreak: %d (longest %d)\naverage: %s\nestimate: %dm\n\nmessage:\n%s",
		data.Title,
		data.Slot,
		data.Status,
		data.Streak,
		data.Longest,
		avg,
		data.EstimateMin,
		data.MessageView,
	)
}

func RenderReflectEditor(data ReflectEditorData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nreflection:\n")
	b.WriteString(fmt.Sprintf("for: %s (%s)\n", data.TargetName, data.Kind))
	b.WriteString("keys: [tab]field [1-5,+,-]mood [enter]save [esc]cancel\n")
	b.WriteString(fmt.Sprintf("%s mood-before: %s\n", fieldCursor(data.ActiveField, "mood-before"), moodScale(data.MoodBefore)))
	b.WriteString(fmt.Sprintf("%s mood-after:  %s\n", fieldCursor(data.ActiveField, "mood-after"), moodScale(data.MoodAfter)))
	b.WriteString(fmt.Sprintf("%s previous-activity: %s\n", fieldCursor(data.ActiveField, "previous-activity"), data.PreviousActivity))
	b.WriteString(fmt.Sprintf("%s next-activity: %s\n", fieldCursor(data.ActiveField, "next-activity"), data.NextActivity))
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderDaySummary(data DaySummaryData) string {
	var b strings.Builder
	b.WriteString("\nsummary: ")
	b.WriteString(fmt.Sprintf("occurrences %d/%d done", data.Done, data.Total))
	if data.HabitsTotal > 0 {
		b.WriteString(fmt.Sprintf(" | habits on target %d/%d", data.HabitsOnTarget, data.HabitsTotal))
	}
	return b.String()
}

func renderOccurrenceSection(b *strings.Builder, title string, items []OccurrenceItemData, selectedIndex int) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		cursor := " "
		if item.Index-1 == selectedIndex {
			cursor = ">"
		}
		marker := "[ ]"
		if item.Done {
			marker = "[DONE]"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s %s", cursor, item.Index, marker, item.Title))
		if item.Timed {
			b.WriteString(fmt.Sprintf(" @%s", item.Slot))
		}
		if item.Streak > 0 {
			b.WriteString(fmt.Sprintf(" streak:%d", item.Streak))
		}
		b.WriteString("\n")
	}
}

// statusBadge colors the target comparison. Exceeding the target is only a
// slip for stay-under habits; a build-up habit past its target is a win.
func statusBadge(status string, enforced bool) string {
	switch status {
	case "over":
		if enforced {
			return "[RED]"
		}
		return "[GREEN]"
	case "on target":
		return "[GREEN]"
	default:
		return "[YELLOW]"
	}
}

func fieldCursor(active, field string) string {
	if active == field {
		return ">"
	}
	return " "
}

func moodScale(value int) string {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		if i == value {
			b.WriteString(fmt.Sprintf("(%d)", i))
		} else {
			b.WriteString(fmt.Sprintf(" %d ", i))
		}
	}
	return b.String()
}
