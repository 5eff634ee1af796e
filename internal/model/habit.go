package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTargetPeriod = errors.New("model: invalid target period")

type TargetPeriod string

const (
	PeriodDaily   TargetPeriod = "Daily"
	PeriodWeekly  TargetPeriod = "Weekly"
	PeriodMonthly TargetPeriod = "Monthly"
)

func (p TargetPeriod) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	default:
		return false
	}
}

// Days returns the length in days of the period bucket containing date.
// Monthly buckets vary with the calendar month.
func (p TargetPeriod) Days(date time.Time) int {
	switch p {
	case PeriodWeekly:
		return 7
	case PeriodMonthly:
		firstOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfMonth.AddDate(0, 1, -1).Day()
	default:
		return 1
	}
}

// Habit is a counted activity measured against a target. ToBeEnforced picks
// the direction: true means the habit is being reduced (stay at or under the
// target), false means it is being built (reach or exceed the target).
type Habit struct {
	ID              string
	OwnerID         string
	Name            string
	PersonalMessage string
	IconName        string
	Signature       string
	ToBeEnforced    bool
	TargetPeriod    TargetPeriod
	TargetValue     int
	Active          bool
	CreatedAt       time.Time
	LastEditedAt    time.Time
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.OwnerID) == "" {
		return errors.New("model: habit owner_id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if !h.TargetPeriod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTargetPeriod, h.TargetPeriod)
	}
	if h.TargetValue <= 0 {
		return errors.New("model: habit target_value must be positive")
	}
	if h.CreatedAt.IsZero() {
		return errors.New("model: habit created_at is required")
	}
	return nil
}

// ComputeSignature derives the immutable content signature from the fields
// the user authored. Edits that change content produce a new signature.
func (h Habit) ComputeSignature() string {
	sum := sha256.New()
	sum.Write([]byte(h.Name))
	sum.Write([]byte{0})
	sum.Write([]byte(h.PersonalMessage))
	sum.Write([]byte{0})
	sum.Write([]byte(h.TargetPeriod))
	sum.Write([]byte{0})
	sum.Write([]byte(strconv.Itoa(h.TargetValue)))
	if h.ToBeEnforced {
		sum.Write([]byte{1})
	}
	return hex.EncodeToString(sum.Sum(nil))[:16]
}
