package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/kpi"
	"github.com/sandeepkv93/routined/internal/views"
)

func (m Model) renderDayView() string {
	items := make([]views.OccurrenceItemData, 0, len(m.Day.Occurrences))
	for i, occ := range m.Day.Occurrences {
		items = append(items, views.OccurrenceItemData{
			Index:  i + 1,
			Title:  occ.TaskName,
			Slot:   occ.Slot.String(),
			Timed:  !occ.Slot.IsAny(),
			Done:   occ.Status == dashboard.StatusDone,
			Streak: occ.KPI.Streak,
		})
	}
	dateLine := ""
	if !m.Day.Date.IsZero() {
		dateLine = fmt.Sprintf("%s %s | cycle week %d of 4", m.Day.Weekday, m.Day.Date.Format("2006-01-02"), m.Day.CycleWeek+1)
	}
	return views.RenderDayPanel(views.DayPanelData{
		DateLine:      dateLine,
		ListView:      m.dayList.View(),
		Items:         items,
		SelectedIndex: m.DayCursor,
	})
}

func (m Model) renderHabitsView() string {
	rows := make([]views.HabitRowData, 0, len(m.Day.Habits))
	for _, h := range m.Day.Habits {
		rows = append(rows, views.HabitRowData{
			Name:     h.Name,
			Period:   string(h.TargetPeriod),
			Count:    h.KPI.BucketCount,
			Target:   h.TargetValue,
			Status:   string(h.KPI.Status),
			Enforced: h.ToBeEnforced,
			Today:    formatPair(h.KPI.Today),
			Lately:   formatPair(h.KPI.Lately),
		})
	}
	return views.RenderHabitsPanel(views.HabitsPanelData{
		TableView:     m.habitTable.View(),
		Rows:          rows,
		SelectedIndex: m.HabitCursor,
	})
}

func (m Model) renderFocusView() string {
	total := m.Focus.EstimateSec
	progress := 0.0
	if total > 0 {
		progress = float64(m.Focus.ElapsedSec) / float64(total)
		if progress > 1 {
			progress = 1
		}
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:    m.Focus.TaskTitle,
		Timer:        formatDuration(m.Focus.ElapsedSec),
		Estimate:     formatDuration(m.Focus.EstimateSec),
		ProgressView: m.focusProgress.ViewAs(progress),
		ProgressPct:  int(progress * 100),
		Running:      m.Focus.Running,
	})
}

func (m Model) renderDetailPane() string {
	occ, ok := m.currentOccurrence()
	if !ok {
		return "detail:\n(no selection)"
	}
	return views.RenderOccurrenceDetail(views.OccurrenceDetailData{
		Title:       occ.TaskName,
		Slot:        occ.Slot.String(),
		Status:      string(occ.Status),
		Streak:      occ.KPI.Streak,
		Longest:     occ.KPI.Longest,
		AvgNum:      occ.KPI.Average.Num,
		AvgDen:      occ.KPI.Average.Den,
		EstimateMin: occ.DurationEstimate,
		MessageView: m.detailViewport.View(),
	})
}

func (m Model) renderReflectEditorIfVisible() string {
	field := [...]string{"mood-before", "mood-after", "previous-activity", "next-activity"}[m.Reflect.Field]
	return views.RenderReflectEditor(views.ReflectEditorData{
		Active:           m.Reflect.Active,
		Kind:             string(m.Reflect.Kind),
		TargetName:       m.Reflect.TargetName,
		MoodBefore:       m.Reflect.MoodBefore,
		MoodAfter:        m.Reflect.MoodAfter,
		ActiveField:      field,
		PreviousActivity: m.Reflect.PreviousActivity,
		NextActivity:     m.Reflect.NextActivity,
		ErrorText:        m.Reflect.Err,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderDaySummary() string {
	if len(m.Day.Occurrences) == 0 && len(m.Day.Habits) == 0 {
		return ""
	}
	done := 0
	for _, occ := range m.Day.Occurrences {
		if occ.Status == dashboard.StatusDone {
			done++
		}
	}
	onTarget := 0
	for _, h := range m.Day.Habits {
		if h.KPI.Status == kpi.StatusOnTarget {
			onTarget++
		}
	}
	return views.RenderDaySummary(views.DaySummaryData{
		Done:           done,
		Total:          len(m.Day.Occurrences),
		HabitsOnTarget: onTarget,
		HabitsTotal:    len(m.Day.Habits),
	})
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func formatPair(p kpi.Pair) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%d / %.2f", p.Count, p.Target), "0"), ".")
}
