// Package cycle maps calendar dates onto the fixed four-week schedule grid.
//
// Every date resolves to a (cycle week, weekday) pair relative to a single
// process-wide anchor Monday. The anchor is a constant so that every replica
// computes identical coordinates for the same date.
package cycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
)

// Anchor is the Monday that starts cycle week 0.
var anchor = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// MaxUTCOffsetHours bounds client UTC offsets to the range real time zones
// occupy (UTC-12 through UTC+14).
const MaxUTCOffsetHours = 14

var (
	ErrInvalidOffset = errors.New("cycle: utc offset out of range")
	ErrInvalidDate   = errors.New("cycle: invalid calendar date")
)

// Coords locates a date on the schedule grid: Week in [0,3], Day in [0,6]
// with Monday = 0.
type Coords struct {
	Week int
	Day  int
}

// Resolve computes the grid coordinates of a calendar date. The time-of-day
// and location of the argument are ignored; only the (year, month, day)
// triple matters.
func Resolve(date time.Time) Coords {
	d := Midnight(date)
	days := int(d.Sub(anchor) / (24 * time.Hour))
	return Coords{
		Week: floorMod(floorDiv(days, model.DaysPerWeek), model.CycleWeeks),
		Day:  isoWeekday(d),
	}
}

// LocalDate decides which calendar date a client-local instant belongs to.
// The offset is whole signed hours east of UTC.
func LocalDate(instant time.Time, utcOffsetHours int) (time.Time, error) {
	if utcOffsetHours > MaxUTCOffsetHours || utcOffsetHours < -MaxUTCOffsetHours {
		return time.Time{}, fmt.Errorf("%w: %+d", ErrInvalidOffset, utcOffsetHours)
	}
	shifted := instant.UTC().Add(time.Duration(utcOffsetHours) * time.Hour)
	return Midnight(shifted), nil
}

// ParseDate parses a yyyy-mm-dd calendar date.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return date, nil
}

// Midnight normalizes to the canonical representation of a calendar date:
// midnight UTC of the (year, month, day) the argument reads as.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isoWeekday returns the ISO weekday index, Monday = 0 through Sunday = 6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % model.DaysPerWeek
}

// WeekdayName is the ISO weekday display name for a date.
func WeekdayName(date time.Time) string {
	return Midnight(date).Weekday().String()
}

// WeekStart returns the Monday of the ISO week containing date.
func WeekStart(date time.Time) time.Time {
	d := Midnight(date)
	return d.AddDate(0, 0, -isoWeekday(d))
}

// MonthStart returns the first day of the calendar month containing date.
func MonthStart(date time.Time) time.Time {
	d := Midnight(date)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// floorDiv rounds toward negative infinity so dates before the anchor keep
// the 28-day period intact.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
