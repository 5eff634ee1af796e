package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/routined/internal/dashboard"
)

// PlanDay queues a reminder for every pending timed occurrence of the day
// whose start instant is still in the future. Open ("any") slots carry no
// clock time and are never reminded about.
//
// day.Date is the client-local calendar date at midnight UTC, so the real
// start instant is the slot offset shifted back by the client's UTC offset.
func PlanDay(e *Engine, day dashboard.Day, utcOffsetHours int, now time.Time) (int, error) {
	planned := 0
	for _, occ := range day.Occurrences {
		if occ.Status != dashboard.StatusPending || occ.Slot.IsAny() {
			continue
		}
		startAt := day.Date.
			Add(time.Duration(occ.Slot.Seconds()) * time.Second).
			Add(-time.Duration(utcOffsetHours) * time.Hour)
		if !startAt.After(now) {
			continue
		}
		err := e.Schedule(OccurrenceEvent{
			ID:       uuid.NewString(),
			TaskID:   occ.TaskID,
			TaskName: occ.TaskName,
			Date:     day.Date,
			StartAt:  startAt,
		})
		if err != nil {
			return planned, err
		}
		planned++
	}
	return planned, nil
}
