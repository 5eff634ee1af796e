package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/model"
)

func slot(t *testing.T, spec string) model.TimeSlot {
	t.Helper()
	s, err := model.ParseTimeSlot(spec)
	if err != nil {
		t.Fatalf("parse slot %q: %v", spec, err)
	}
	return s
}

func TestPlanDayQueuesOnlyFuturePendingTimedSlots(t *testing.T) {
	engine := NewEngine(8)
	date := time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)
	now := date.Add(9 * time.Hour) // 09:00 client-local, offset 0

	day := dashboard.Day{
		Date: date,
		Occurrences: []dashboard.Occurrence{
			{TaskID: "t1", Slot: slot(t, "08:00"), Status: dashboard.StatusPending}, // already past
			{TaskID: "t2", Slot: slot(t, "10:00"), Status: dashboard.StatusPending},
			{TaskID: "t3", Slot: slot(t, "11:00"), Status: dashboard.StatusDone},
			{TaskID: "t4", Slot: slot(t, "any"), Status: dashboard.StatusPending},
			{TaskID: "t5", Slot: slot(t, "18:30"), Status: dashboard.StatusPending},
		},
	}

	planned, err := PlanDay(engine, day, 0, now)
	if err != nil {
		t.Fatalf("plan day: %v", err)
	}
	if planned != 2 {
		t.Fatalf("expected 2 planned reminders, got %d", planned)
	}

	first, ok := engine.peek()
	if !ok || first.TaskID != "t2" {
		t.Fatalf("expected t2 at the head of the queue, got %#v (ok=%v)", first, ok)
	}
	if want := date.Add(10 * time.Hour); !first.StartAt.Equal(want) {
		t.Fatalf("start instant: got %v, want %v", first.StartAt, want)
	}
}

func TestPlanDayShiftsByClientOffset(t *testing.T) {
	engine := NewEngine(8)
	date := time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)
	now := date.Add(1 * time.Hour)

	day := dashboard.Day{
		Date: date,
		Occurrences: []dashboard.Occurrence{
			{TaskID: "t1", Slot: slot(t, "10:00"), Status: dashboard.StatusPending},
		},
	}

	// At UTC+5, a 10:00 local slot fires at 05:00 UTC.
	planned, err := PlanDay(engine, day, 5, now)
	if err != nil {
		t.Fatalf("plan day: %v", err)
	}
	if planned != 1 {
		t.Fatalf("expected 1 planned reminder, got %d", planned)
	}
	ev, _ := engine.peek()
	if want := date.Add(5 * time.Hour); !ev.StartAt.Equal(want) {
		t.Fatalf("start instant: got %v, want %v", ev.StartAt, want)
	}
}
