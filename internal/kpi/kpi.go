// Package kpi computes the rolling performance indicators attached to
// resolved occurrences and habit counters. Everything here is pure: callers
// fetch bounded history and the functions fold it into numbers.
package kpi

import (
	"time"

	"github.com/sandeepkv93/routined/internal/cycle"
	"github.com/sandeepkv93/routined/internal/model"
)

// Policy bounds every historical scan. Streak, longest and average never
// look further back than LookbackDays; the habit "lately" pair uses the
// shorter LatelyDays window.
type Policy struct {
	LookbackDays int
	LatelyDays   int
}

func DefaultPolicy() Policy {
	return Policy{LookbackDays: 28, LatelyDays: 7}
}

func (p Policy) normalized() Policy {
	if p.LookbackDays <= 0 {
		p.LookbackDays = DefaultPolicy().LookbackDays
	}
	if p.LatelyDays <= 0 {
		p.LatelyDays = DefaultPolicy().LatelyDays
	}
	return p
}

// Ratio is a (numerator, denominator) pair; rendering decides how to show it.
type Ratio struct {
	Num int
	Den int
}

// TaskKPI bundles the streak statistics for one task as of a given date.
type TaskKPI struct {
	Streak  int
	Longest int
	Average Ratio
}

// ScheduledFunc reports how many occurrences a task has on a date.
type ScheduledFunc func(date time.Time) int

// ForTask folds a task's completion history into its KPI bundle.
//
// A day counts toward a streak when it had at least one scheduled occurrence
// and every one of them was completed. A scheduled day left incomplete
// breaks the streak; a day with zero occurrences is skipped. The requested
// date itself is special: while still incomplete it neither breaks nor
// extends the streak, so completing it extends the streak by exactly one.
func ForTask(date, createdAt time.Time, scheduled ScheduledFunc, completed map[string]int, policy Policy) TaskKPI {
	policy = policy.normalized()
	day := cycle.Midnight(date)
	windowStart := day.AddDate(0, 0, -(policy.LookbackDays - 1))
	if created := cycle.Midnight(createdAt); created.After(windowStart) {
		windowStart = created
	}

	streak := 0
	for d := day; !d.Before(windowStart); d = d.AddDate(0, 0, -1) {
		sched := scheduled(d)
		if sched == 0 {
			continue
		}
		done := completed[dayKey(d)]
		if done >= sched {
			streak++
			continue
		}
		if d.Equal(day) {
			continue // requested day still in progress
		}
		break
	}

	longest := streak
	run := 0
	doneTotal := 0
	schedTotal := 0
	for d := windowStart; !d.After(day); d = d.AddDate(0, 0, 1) {
		sched := scheduled(d)
		if sched == 0 {
			continue
		}
		done := completed[dayKey(d)]
		schedTotal += sched
		if done > sched {
			done = sched
		}
		doneTotal += done
		switch {
		case done >= sched:
			run++
			if run > longest {
				longest = run
			}
		case d.Equal(day):
			// in progress, leave the run alone
		default:
			run = 0
		}
	}

	return TaskKPI{
		Streak:  streak,
		Longest: longest,
		Average: Ratio{Num: doneTotal, Den: schedTotal},
	}
}

type HabitStatus string

const (
	StatusUnder    HabitStatus = "under"
	StatusOnTarget HabitStatus = "on target"
	StatusOver     HabitStatus = "over"
)

// Pair compares an observed count against a (possibly pro-rated) target.
type Pair struct {
	Count  int
	Target float64
}

// HabitKPI bundles the target comparison for one habit as of a given date.
type HabitKPI struct {
	BucketCount int
	Status      HabitStatus
	Today       Pair
	Lately      Pair
	Target      Pair
}

// ForHabit sums the counter history for the period bucket containing date
// and compares it to the habit's target. The status labels read the same in
// both directions; ToBeEnforced decides whether "over" is a win or a slip
// and that interpretation is left to the caller.
func ForHabit(date time.Time, habit model.Habit, counts map[string]int, policy Policy) HabitKPI {
	policy = policy.normalized()
	day := cycle.Midnight(date)

	bucketStart, bucketEnd := bucketRange(day, habit.TargetPeriod)
	bucketCount := sumRange(counts, bucketStart, bucketEnd)

	status := StatusOnTarget
	switch {
	case bucketCount < habit.TargetValue:
		status = StatusUnder
	case bucketCount > habit.TargetValue:
		status = StatusOver
	}

	periodDays := habit.TargetPeriod.Days(day)
	dailyTarget := float64(habit.TargetValue) / float64(periodDays)
	latelyStart := day.AddDate(0, 0, -(policy.LatelyDays - 1))

	return HabitKPI{
		BucketCount: bucketCount,
		Status:      status,
		Today:       Pair{Count: counts[dayKey(day)], Target: dailyTarget},
		Lately:      Pair{Count: sumRange(counts, latelyStart, day), Target: dailyTarget * float64(policy.LatelyDays)},
		Target:      Pair{Count: bucketCount, Target: float64(habit.TargetValue)},
	}
}

func bucketRange(day time.Time, period model.TargetPeriod) (time.Time, time.Time) {
	switch period {
	case model.PeriodWeekly:
		start := cycle.WeekStart(day)
		return start, start.AddDate(0, 0, 6)
	case model.PeriodMonthly:
		start := cycle.MonthStart(day)
		return start, start.AddDate(0, 1, -1)
	default:
		return day, day
	}
}

func sumRange(counts map[string]int, from, to time.Time) int {
	total := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		total += counts[dayKey(d)]
	}
	return total
}

func dayKey(d time.Time) string {
	return d.Format(time.DateOnly)
}
