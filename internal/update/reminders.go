package update

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/scheduler"
)

// applyReminderBehavior surfaces a due occurrence and nags exactly once: an
// unacknowledged reminder whose occurrence is still pending is requeued five
// minutes out.
func (m *Model) applyReminderBehavior(ev scheduler.OccurrenceEvent, now time.Time) {
	m.Status = StatusBar{
		Text:    fmt.Sprintf("time for %s (%s)", ev.TaskName, ev.StartAt.Format("15:04")),
		IsError: false,
	}
	if m.ReminderAck[ev.ID] || m.renagged[ev.ID] {
		return
	}
	if !m.occurrenceStillPending(ev.TaskID) {
		return
	}
	m.renagged[ev.ID] = true
	m.requeueReminder(ev, now.Add(5*time.Minute))
}

func (m *Model) requeueReminder(ev scheduler.OccurrenceEvent, next time.Time) {
	if m.Scheduler == nil {
		return
	}
	nextEv := ev
	nextEv.StartAt = next
	if err := m.Scheduler.Schedule(nextEv); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder requeue failed: %v", err), IsError: true}
	}
}

func (m Model) occurrenceStillPending(taskID string) bool {
	for _, occ := range m.Day.Occurrences {
		if occ.TaskID == taskID && occ.Status == dashboard.StatusPending {
			return true
		}
	}
	return false
}
