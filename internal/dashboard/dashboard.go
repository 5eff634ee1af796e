// Package dashboard assembles the consolidated daily view: which task
// occurrences fall on a date, whether each was completed, and the rolling
// indicators for tasks and habits.
//
// Resolution is read-only and recomputed on every call; nothing here is
// cached. Error policy is strict: a task definition that fails to resolve
// fails the whole request rather than producing a silently partial day
// (schedules are validated on write, so a resolution failure means the
// stored definition is corrupt).
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/routined/internal/cycle"
	"github.com/sandeepkv93/routined/internal/kpi"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/storage"
)

// ErrAmbiguousMatch guards the positional completion pairing. With
// first-match pairing it should be unreachable; it fires if the store holds
// more completions for a date than the schedule has stubs.
var ErrAmbiguousMatch = errors.New("dashboard: ambiguous completion match")

type OccurrenceStatus string

const (
	StatusPending OccurrenceStatus = "pending"
	StatusDone    OccurrenceStatus = "done"
)

// Occurrence is one resolved stub for the requested date. Ephemeral: never
// persisted, rebuilt on every resolution.
type Occurrence struct {
	TaskID           string
	TaskName         string
	IconName         string
	PersonalMessage  string
	Date             time.Time
	Slot             model.TimeSlot
	Status           OccurrenceStatus
	DurationEstimate int // minutes, from the definition
	DurationActual   int // seconds, present when done
	KPI              kpi.TaskKPI
}

// HabitEntry is one habit with its counter state for the requested date.
type HabitEntry struct {
	HabitID      string
	Name         string
	IconName     string
	TargetPeriod model.TargetPeriod
	TargetValue  int
	ToBeEnforced bool
	KPI          kpi.HabitKPI
}

// Day is the assembled daily view.
type Day struct {
	Date        time.Time
	Weekday     string
	CycleWeek   int
	Occurrences []Occurrence
	Habits      []HabitEntry
}

type Service struct {
	repo   storage.Repository
	policy kpi.Policy
	now    func() time.Time
}

// NewService wires the engine to its persistence collaborator. The clock is
// injectable for tests; nil means time.Now.
func NewService(repo storage.Repository, policy kpi.Policy, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, policy: policy, now: now}
}

// ResolveDay builds the daily view for a user. A zero date means "the
// client's today": the current instant shifted by utcOffsetHours decides
// which calendar date the request belongs to. For an explicit date the
// offset is still validated but plays no further role.
func (s *Service) ResolveDay(ctx context.Context, userID string, date time.Time, utcOffsetHours int) (Day, error) {
	resolved, err := cycle.LocalDate(s.now(), utcOffsetHours)
	if err != nil {
		return Day{}, err
	}
	if !date.IsZero() {
		resolved = cycle.Midnight(date)
	}

	coords := cycle.Resolve(resolved)
	day := Day{
		Date:        resolved,
		Weekday:     cycle.WeekdayName(resolved),
		CycleWeek:   coords.Week,
		Occurrences: make([]Occurrence, 0),
		Habits:      make([]HabitEntry, 0),
	}

	tasks, err := s.repo.ListTasksForUser(ctx, userID)
	if err != nil {
		return Day{}, err
	}
	for _, task := range tasks {
		if !task.Active {
			continue
		}
		occs, err := s.resolveTask(ctx, task, resolved, coords)
		if err != nil {
			return Day{}, fmt.Errorf("task %s: %w", task.ID, err)
		}
		day.Occurrences = append(day.Occurrences, occs...)
	}

	habits, err := s.repo.ListHabitsForUser(ctx, userID)
	if err != nil {
		return Day{}, err
	}
	for _, habit := range habits {
		if !habit.Active {
			continue
		}
		entry, err := s.resolveHabit(ctx, habit, resolved)
		if err != nil {
			return Day{}, fmt.Errorf("habit %s: %w", habit.ID, err)
		}
		day.Habits = append(day.Habits, entry)
	}

	return day, nil
}

// MarkTaskOccurrenceDone consumes exactly one pending stub of the task on
// the given date. durationActual is seconds; zero means not measured.
func (s *Service) MarkTaskOccurrenceDone(ctx context.Context, taskID string, date time.Time, durationActual int, reflection model.Reflection) error {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	day := cycle.Midnight(date)
	coords := cycle.Resolve(day)
	scheduled := len(task.Schedule.SlotsOn(coords.Week, coords.Day))

	_, err = s.repo.MarkTaskDone(ctx, storage.MarkDone{
		TaskID:         taskID,
		Date:           day,
		Scheduled:      scheduled,
		DurationActual: durationActual,
		Reflection:     reflection,
		MarkedDoneAt:   s.now().UTC(),
	})
	return err
}

// RecordHabitOccurrence adds one to the habit's counter for the date and
// appends the reflection to the ledger. Returns the updated count.
func (s *Service) RecordHabitOccurrence(ctx context.Context, habitID string, date time.Time, reflection model.Reflection) (int, error) {
	return s.repo.IncrementHabitCounter(ctx, storage.RecordTick{
		HabitID:    habitID,
		Date:       cycle.Midnight(date),
		Reflection: reflection,
		RecordedAt: s.now().UTC(),
	})
}

func (s *Service) resolveTask(ctx context.Context, task model.Task, date time.Time, coords cycle.Coords) ([]Occurrence, error) {
	slots := task.Schedule.SlotsOn(coords.Week, coords.Day)
	if len(slots) == 0 {
		return nil, nil
	}

	completions, err := s.repo.ListCompletionsOnDate(ctx, task.ID, date)
	if err != nil {
		return nil, err
	}
	if len(completions) > len(slots) {
		return nil, fmt.Errorf("%w: %d completions for %d stubs on %s",
			ErrAmbiguousMatch, len(completions), len(slots), date.Format(time.DateOnly))
	}

	policy := s.policy
	if policy.LookbackDays <= 0 {
		policy = kpi.DefaultPolicy()
	}
	from := date.AddDate(0, 0, -(policy.LookbackDays - 1))
	counts, err := s.repo.CompletionCountsByDate(ctx, task.ID, from, date)
	if err != nil {
		return nil, err
	}
	bundle := kpi.ForTask(date, task.CreatedAt, scheduledFor(task), counts, policy)

	// Positional first-match pairing: the i-th completion consumes the
	// i-th stub in schedule order.
	out := make([]Occurrence, 0, len(slots))
	for i, slot := range slots {
		occ := Occurrence{
			TaskID:           task.ID,
			TaskName:         task.Name,
			IconName:         task.IconName,
			PersonalMessage:  task.PersonalMessage,
			Date:             date,
			Slot:             slot,
			Status:           StatusPending,
			DurationEstimate: task.DurationEstimate,
			KPI:              bundle,
		}
		if i < len(completions) {
			occ.Status = StatusDone
			occ.DurationActual = completions[i].DurationActual
		}
		out = append(out, occ)
	}
	return out, nil
}

func (s *Service) resolveHabit(ctx context.Context, habit model.Habit, date time.Time) (HabitEntry, error) {
	policy := s.policy
	if policy.LatelyDays <= 0 {
		policy = kpi.DefaultPolicy()
	}
	counts, err := s.repo.HabitCountsByDate(ctx, habit.ID, habitHistoryStart(habit, date, policy), date)
	if err != nil {
		return HabitEntry{}, err
	}
	return HabitEntry{
		HabitID:      habit.ID,
		Name:         habit.Name,
		IconName:     habit.IconName,
		TargetPeriod: habit.TargetPeriod,
		TargetValue:  habit.TargetValue,
		ToBeEnforced: habit.ToBeEnforced,
		KPI:          kpi.ForHabit(date, habit, counts, policy),
	}, nil
}

// scheduledFor adapts a task definition into the per-date occurrence count
// the KPI engine scans with.
func scheduledFor(task model.Task) kpi.ScheduledFunc {
	return func(d time.Time) int {
		coords := cycle.Resolve(d)
		return len(task.Schedule.SlotsOn(coords.Week, coords.Day))
	}
}

// habitHistoryStart picks the earliest date the habit KPI needs: the start
// of the period bucket or of the "lately" window, whichever is older.
func habitHistoryStart(habit model.Habit, date time.Time, policy kpi.Policy) time.Time {
	start := date.AddDate(0, 0, -(policy.LatelyDays - 1))
	switch habit.TargetPeriod {
	case model.PeriodWeekly:
		if ws := cycle.WeekStart(date); ws.Before(start) {
			start = ws
		}
	case model.PeriodMonthly:
		if ms := cycle.MonthStart(date); ms.Before(start) {
			start = ms
		}
	}
	return start
}
