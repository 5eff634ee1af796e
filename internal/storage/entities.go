package storage

import (
	"time"

	"github.com/sandeepkv93/routined/internal/model"
)

// Completion is one consumed occurrence stub: the record that a task was
// done once on a date. The count of rows for (task, date) is the number of
// same-day stubs already consumed.
type Completion struct {
	ID             string
	TaskID         string
	Date           time.Time
	DurationActual int // seconds
	MarkedDoneAt   time.Time
}

// IntrospectionKind scopes an introspection record to the entity it
// documents.
type IntrospectionKind string

const (
	IntrospectionTask  IntrospectionKind = "task"
	IntrospectionHabit IntrospectionKind = "habit"
)

// Introspection is the append-only reflection ledger entry written next to
// every completion or counter increment. CounterValue is the exact counter
// value the increment produced (zero for task completions), so KPI replay
// can reconstruct the sequence.
type Introspection struct {
	ID           string
	Kind         IntrospectionKind
	RefID        string
	Date         time.Time
	CounterValue int
	Reflection   model.Reflection
	CreatedAt    time.Time
}

// MarkDone carries everything needed to consume one pending occurrence
// stub. Scheduled is the stub count the caller resolved for the date; the
// store refuses to record more completions than that.
type MarkDone struct {
	TaskID         string
	Date           time.Time
	Scheduled      int
	DurationActual int // seconds
	Reflection     model.Reflection
	MarkedDoneAt   time.Time
}

// RecordTick carries one habit counter increment.
type RecordTick struct {
	HabitID    string
	Date       time.Time
	Reflection model.Reflection
	RecordedAt time.Time
}
