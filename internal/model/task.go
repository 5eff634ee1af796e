package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CycleWeeks  = 4
	DaysPerWeek = 7
)

var ErrInvalidSchedule = errors.New("model: invalid schedule shape")

// Schedule is the fixed four-week repeating plan: one ordered slot list per
// weekday per cycle week. Day index 0 is Monday. A day may carry any number
// of slots, including duplicate "any" entries for multiple open occurrences.
type Schedule [CycleWeeks][DaysPerWeek][]TimeSlot

// ParseSchedule builds a Schedule from raw slot specs. The outer shape must
// be exactly 4 weeks of 7 days each.
func ParseSchedule(specs [][][]string) (Schedule, error) {
	var out Schedule
	if len(specs) != CycleWeeks {
		return out, fmt.Errorf("%w: want %d weeks, got %d", ErrInvalidSchedule, CycleWeeks, len(specs))
	}
	for w, week := range specs {
		if len(week) != DaysPerWeek {
			return out, fmt.Errorf("%w: week %d wants %d days, got %d", ErrInvalidSchedule, w, DaysPerWeek, len(week))
		}
		for d, day := range week {
			slots := make([]TimeSlot, 0, len(day))
			for _, spec := range day {
				slot, err := ParseTimeSlot(spec)
				if err != nil {
					return Schedule{}, fmt.Errorf("week %d day %d: %w", w, d, err)
				}
				slots = append(slots, slot)
			}
			out[w][d] = slots
		}
	}
	return out, nil
}

// SlotsOn returns the slot list for the given cycle coordinates in its
// original order. Order is significant: it is the order the user intends to
// perform same-day occurrences, and completion matching is positional.
func (s Schedule) SlotsOn(week, day int) []TimeSlot {
	if week < 0 || week >= CycleWeeks || day < 0 || day >= DaysPerWeek {
		return nil
	}
	return s[week][day]
}

func (s Schedule) Strings() [][][]string {
	out := make([][][]string, CycleWeeks)
	for w := range s {
		out[w] = make([][]string, DaysPerWeek)
		for d := range s[w] {
			day := make([]string, 0, len(s[w][d]))
			for _, slot := range s[w][d] {
				day = append(day, slot.String())
			}
			out[w][d] = day
		}
	}
	return out
}

// Task is a periodic activity that takes place at planned times on the
// four-week cycle. Definitions are written by the CRUD surface and are
// read-only to resolution and KPI code.
type Task struct {
	ID               string
	OwnerID          string
	Name             string
	PersonalMessage  string
	IconName         string
	Signature        string
	DurationEstimate int // minutes
	Active           bool
	Schedule         Schedule
	CreatedAt        time.Time
	LastEditedAt     time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return errors.New("model: task owner_id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if t.DurationEstimate < 0 {
		return errors.New("model: task duration_estimate must not be negative")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// ComputeSignature derives the immutable content signature from the fields
// the user authored. Edits that change content produce a new signature.
func (t Task) ComputeSignature() string {
	h := sha256.New()
	h.Write([]byte(t.Name))
	h.Write([]byte{0})
	h.Write([]byte(t.PersonalMessage))
	for _, week := range t.Schedule.Strings() {
		for _, day := range week {
			h.Write([]byte{0})
			h.Write([]byte(strings.Join(day, ",")))
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
