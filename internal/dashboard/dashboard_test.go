package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/routined/internal/cycle"
	"github.com/sandeepkv93/routined/internal/kpi"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/storage"
)

// 2026-02-23 is a Monday in cycle week 0, so 2026-02-26 is the Thursday of
// that week: grid cell (0, 3).
var (
	thursday = time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 2, 26, 15, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*Service, *storage.SQLiteRepository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dashboard-test.db")
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return NewService(repo, kpi.DefaultPolicy(), func() time.Time { return testNow }), repo
}

func emptyCells() [][][]string {
	cells := make([][][]string, model.CycleWeeks)
	for w := range cells {
		cells[w] = make([][]string, model.DaysPerWeek)
		for d := range cells[w] {
			cells[w][d] = []string{}
		}
	}
	return cells
}

func scheduleWith(t *testing.T, week, day int, slots ...string) model.Schedule {
	t.Helper()
	cells := emptyCells()
	cells[week][day] = slots
	schedule, err := model.ParseSchedule(cells)
	if err != nil {
		t.Fatalf("parse schedule: %v", err)
	}
	return schedule
}

func dailySchedule(t *testing.T, slots ...string) model.Schedule {
	t.Helper()
	cells := emptyCells()
	for w := range cells {
		for d := range cells[w] {
			cells[w][d] = slots
		}
	}
	schedule, err := model.ParseSchedule(cells)
	if err != nil {
		t.Fatalf("parse schedule: %v", err)
	}
	return schedule
}

func seedTask(t *testing.T, repo *storage.SQLiteRepository, id string, schedule model.Schedule, createdAt time.Time) model.Task {
	t.Helper()
	task := model.Task{
		ID:               id,
		OwnerID:          "user-1",
		Name:             "Task " + id,
		IconName:         "default-task",
		DurationEstimate: 15,
		Active:           true,
		Schedule:         schedule,
		CreatedAt:        createdAt,
		LastEditedAt:     createdAt,
	}
	task.Signature = task.ComputeSignature()
	if err := repo.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func seedHabit(t *testing.T, repo *storage.SQLiteRepository, id string, period model.TargetPeriod, target int) model.Habit {
	t.Helper()
	habit := model.Habit{
		ID:           id,
		OwnerID:      "user-1",
		Name:         "Habit " + id,
		IconName:     "default-habit",
		ToBeEnforced: true,
		TargetPeriod: period,
		TargetValue:  target,
		Active:       true,
		CreatedAt:    thursday.AddDate(0, 0, -30),
		LastEditedAt: thursday.AddDate(0, 0, -30),
	}
	if err := repo.CreateHabit(context.Background(), habit); err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return habit
}

func TestResolveDayThursdayTenOClock(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	task := seedTask(t, repo, "task-1", scheduleWith(t, 0, 3, "36000"), thursday.AddDate(0, 0, -10))

	day, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	if day.Weekday != "Thursday" || day.CycleWeek != 0 {
		t.Fatalf("wrong grid position: weekday=%q week=%d", day.Weekday, day.CycleWeek)
	}
	if len(day.Occurrences) != 1 {
		t.Fatalf("expected one occurrence, got %d", len(day.Occurrences))
	}
	occ := day.Occurrences[0]
	if occ.TaskID != task.ID || occ.Slot.String() != "10:00" || occ.Status != StatusPending {
		t.Fatalf("unexpected occurrence: %#v", occ)
	}

	if err := svc.MarkTaskOccurrenceDone(ctx, task.ID, thursday, 900, model.NeutralReflection()); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	day, err = svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve day after mark: %v", err)
	}
	occ = day.Occurrences[0]
	if occ.Status != StatusDone || occ.DurationActual != 900 {
		t.Fatalf("occurrence not marked done: %#v", occ)
	}
}

func TestResolveDayEmptyCell(t *testing.T) {
	svc, repo := newService(t)
	// Scheduled only on Monday of week 1, so the Thursday of week 0 is free.
	seedTask(t, repo, "task-1", scheduleWith(t, 1, 0, "any"), thursday.AddDate(0, 0, -10))

	day, err := svc.ResolveDay(context.Background(), "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	if len(day.Occurrences) != 0 {
		t.Fatalf("expected empty day, got %#v", day.Occurrences)
	}
}

func TestResolveDayIsIdempotent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	seedTask(t, repo, "task-1", dailySchedule(t, "08:00", "any"), thursday.AddDate(0, 0, -10))
	seedHabit(t, repo, "habit-1", model.PeriodDaily, 2)

	first, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolution not idempotent:\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

func TestResolveDayOccurrenceCountPerTask(t *testing.T) {
	svc, repo := newService(t)
	seedTask(t, repo, "task-a", scheduleWith(t, 0, 3, "07:00", "12:00", "any"), thursday.AddDate(0, 0, -10))
	seedTask(t, repo, "task-b", scheduleWith(t, 0, 3, "any"), thursday.AddDate(0, 0, -10))

	day, err := svc.ResolveDay(context.Background(), "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	perTask := make(map[string]int)
	for _, occ := range day.Occurrences {
		perTask[occ.TaskID]++
	}
	if perTask["task-a"] != 3 || perTask["task-b"] != 1 {
		t.Fatalf("occurrence counts do not match schedules: %#v", perTask)
	}
}

func TestResolveDaySkipsInactive(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	task := seedTask(t, repo, "task-1", dailySchedule(t, "any"), thursday.AddDate(0, 0, -10))
	task.Active = false
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("deactivate task: %v", err)
	}
	habit := seedHabit(t, repo, "habit-1", model.PeriodDaily, 1)
	habit.Active = false
	if err := repo.UpdateHabit(ctx, habit); err != nil {
		t.Fatalf("deactivate habit: %v", err)
	}

	day, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	if len(day.Occurrences) != 0 || len(day.Habits) != 0 {
		t.Fatalf("inactive definitions leaked into the day: %#v", day)
	}
}

func TestMarkDoneExtendsStreakByOne(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	task := seedTask(t, repo, "task-1", dailySchedule(t, "any"), thursday.AddDate(0, 0, -10))

	// Complete the two days before the requested day.
	for offset := 2; offset >= 1; offset-- {
		d := thursday.AddDate(0, 0, -offset)
		if err := svc.MarkTaskOccurrenceDone(ctx, task.ID, d, 0, model.NeutralReflection()); err != nil {
			t.Fatalf("mark done on %s: %v", d.Format(time.DateOnly), err)
		}
	}

	day, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve before: %v", err)
	}
	if got := day.Occurrences[0].KPI.Streak; got != 2 {
		t.Fatalf("streak before completing today: got %d, want 2", got)
	}

	if err := svc.MarkTaskOccurrenceDone(ctx, task.ID, thursday, 0, model.NeutralReflection()); err != nil {
		t.Fatalf("mark done today: %v", err)
	}
	day, err = svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve after: %v", err)
	}
	if got := day.Occurrences[0].KPI.Streak; got != 3 {
		t.Fatalf("streak after completing today: got %d, want 3", got)
	}
}

func TestMarkDoneNothingPlanned(t *testing.T) {
	svc, repo := newService(t)
	task := seedTask(t, repo, "task-1", scheduleWith(t, 1, 0, "any"), thursday.AddDate(0, 0, -10))

	err := svc.MarkTaskOccurrenceDone(context.Background(), task.ID, thursday, 0, model.NeutralReflection())
	if !errors.Is(err, storage.ErrNoPendingOccurrence) {
		t.Fatalf("expected ErrNoPendingOccurrence, got %v", err)
	}
}

func TestMarkDoneUnknownTask(t *testing.T) {
	svc, _ := newService(t)
	err := svc.MarkTaskOccurrenceDone(context.Background(), "ghost", thursday, 0, model.NeutralReflection())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAmbiguousMatchAfterScheduleShrinks(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	task := seedTask(t, repo, "task-1", scheduleWith(t, 0, 3, "08:00", "18:00"), thursday.AddDate(0, 0, -10))

	for i := 0; i < 2; i++ {
		if err := svc.MarkTaskOccurrenceDone(ctx, task.ID, thursday, 0, model.NeutralReflection()); err != nil {
			t.Fatalf("mark done %d: %v", i, err)
		}
	}

	// Shrinking the schedule after both stubs were consumed leaves more
	// completions on record than the day now has stubs.
	task.Schedule = scheduleWith(t, 0, 3, "08:00")
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	_, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}
}

func TestHabitDailyStatusProgression(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	habit := seedHabit(t, repo, "habit-1", model.PeriodDaily, 2)

	resolveStatus := func() kpi.HabitKPI {
		t.Helper()
		day, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
		if err != nil {
			t.Fatalf("resolve day: %v", err)
		}
		if len(day.Habits) != 1 {
			t.Fatalf("expected one habit entry, got %d", len(day.Habits))
		}
		return day.Habits[0].KPI
	}

	if got := resolveStatus(); got.Status != kpi.StatusUnder || got.BucketCount != 0 {
		t.Fatalf("before any tick: %#v", got)
	}

	want := []struct {
		count  int
		status kpi.HabitStatus
	}{
		{1, kpi.StatusUnder},
		{2, kpi.StatusOnTarget},
		{3, kpi.StatusOver},
	}
	for _, step := range want {
		count, err := svc.RecordHabitOccurrence(ctx, habit.ID, thursday, model.NeutralReflection())
		if err != nil {
			t.Fatalf("record tick: %v", err)
		}
		if count != step.count {
			t.Fatalf("counter: got %d, want %d", count, step.count)
		}
		got := resolveStatus()
		if got.Status != step.status || got.BucketCount != step.count {
			t.Fatalf("after tick %d: %#v", step.count, got)
		}
		if got.Today.Count != step.count || got.Today.Target != 2 {
			t.Fatalf("today pair after tick %d: %#v", step.count, got.Today)
		}
	}
}

func TestHabitWeeklyBucketScoping(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	habit := seedHabit(t, repo, "habit-1", model.PeriodWeekly, 3)

	// One tick last week must not count toward this week's bucket.
	lastWeek := thursday.AddDate(0, 0, -7)
	if _, err := svc.RecordHabitOccurrence(ctx, habit.ID, lastWeek, model.NeutralReflection()); err != nil {
		t.Fatalf("tick last week: %v", err)
	}
	monday := thursday.AddDate(0, 0, -3)
	for _, d := range []time.Time{monday, thursday} {
		if _, err := svc.RecordHabitOccurrence(ctx, habit.ID, d, model.NeutralReflection()); err != nil {
			t.Fatalf("tick %s: %v", d.Format(time.DateOnly), err)
		}
	}

	day, err := svc.ResolveDay(ctx, "user-1", thursday, 0)
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	got := day.Habits[0].KPI
	if got.BucketCount != 2 || got.Status != kpi.StatusUnder {
		t.Fatalf("weekly bucket: %#v", got)
	}
	if got.Target.Target != 3 {
		t.Fatalf("weekly target pair: %#v", got.Target)
	}
}

func TestResolveDayRejectsBadOffset(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ResolveDay(context.Background(), "user-1", thursday, 15)
	if !errors.Is(err, cycle.ErrInvalidOffset) {
		t.Fatalf("expected ErrInvalidOffset, got %v", err)
	}
}

func TestResolveDayZeroDateUsesClientOffset(t *testing.T) {
	svc, _ := newService(t)
	// Clock reads 2026-02-26 15:00 UTC; at UTC+14 that is already the 27th.
	day, err := svc.ResolveDay(context.Background(), "user-1", time.Time{}, 14)
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	if got := day.Date.Format(time.DateOnly); got != "2026-02-27" {
		t.Fatalf("client-local today: got %s, want 2026-02-27", got)
	}
}
