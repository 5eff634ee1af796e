package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict surfaces when an atomic mutation could not complete
	// within the bounded retry budget. Callers may retry the whole request.
	ErrConflict = errors.New("storage: concurrency conflict")

	// ErrNoPendingOccurrence means every scheduled stub for the date has
	// already been consumed.
	ErrNoPendingOccurrence = errors.New("storage: no pending occurrence")
)

type Repository interface {
	CreateTask(ctx context.Context, in model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasksForUser(ctx context.Context, ownerID string) ([]model.Task, error)

	CreateHabit(ctx context.Context, in model.Habit) error
	GetHabit(ctx context.Context, id string) (model.Habit, error)
	UpdateHabit(ctx context.Context, in model.Habit) error
	DeleteHabit(ctx context.Context, id string) error
	ListHabitsForUser(ctx context.Context, ownerID string) ([]model.Habit, error)

	// ListCompletionsOnDate returns the consumed stubs for (task, date) in
	// marked-done order, the order the reconciler pairs them in.
	ListCompletionsOnDate(ctx context.Context, taskID string, date time.Time) ([]Completion, error)
	// CompletionCountsByDate returns per-date completion counts for the KPI
	// lookback window, keyed by yyyy-mm-dd.
	CompletionCountsByDate(ctx context.Context, taskID string, from, to time.Time) (map[string]int, error)
	// MarkTaskDone atomically consumes one pending stub and appends the
	// introspection record. Returns the new completion count for the date.
	MarkTaskDone(ctx context.Context, in MarkDone) (int, error)

	// HabitCountsByDate returns per-date counter values, keyed by yyyy-mm-dd.
	HabitCountsByDate(ctx context.Context, habitID string, from, to time.Time) (map[string]int, error)
	// IncrementHabitCounter atomically adds 1 to the (habit, date) counter
	// and appends the introspection record bound to the produced value.
	// Concurrent callers never lose an update.
	IncrementHabitCounter(ctx context.Context, in RecordTick) (int, error)

	// ListIntrospections returns the reflection ledger for an entity in
	// append order.
	ListIntrospections(ctx context.Context, kind IntrospectionKind, refID string, from, to time.Time) ([]Introspection, error)
}
