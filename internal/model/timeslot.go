package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const secondsPerDay = 24 * 60 * 60

var ErrInvalidSlotFormat = errors.New("model: invalid time slot format")

// TimeSlot is one planned occurrence of a task within a day. A slot is
// either pinned to a wall-clock time or left open ("any"). Open slots sort
// after timed ones and render without a start time.
type TimeSlot struct {
	open    bool
	seconds int
}

func AnySlot() TimeSlot { return TimeSlot{open: true} }

func SlotAt(seconds int) (TimeSlot, error) {
	if seconds < 0 || seconds >= secondsPerDay {
		return TimeSlot{}, fmt.Errorf("%w: %d seconds out of range", ErrInvalidSlotFormat, seconds)
	}
	return TimeSlot{seconds: seconds}, nil
}

// ParseTimeSlot accepts the three slot spellings: the literal "any", a
// wall-clock "HH:MM", or a count of seconds since local midnight.
func ParseTimeSlot(spec string) (TimeSlot, error) {
	spec = strings.TrimSpace(spec)
	if spec == "any" {
		return AnySlot(), nil
	}
	if h, m, ok := strings.Cut(spec, ":"); ok {
		hours, errH := strconv.Atoi(h)
		minutes, errM := strconv.Atoi(m)
		if errH != nil || errM != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
			return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, spec)
		}
		return TimeSlot{seconds: hours*3600 + minutes*60}, nil
	}
	seconds, err := strconv.Atoi(spec)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, spec)
	}
	return SlotAt(seconds)
}

func (s TimeSlot) IsAny() bool { return s.open }

// Seconds returns the offset from local midnight. Zero for open slots.
func (s TimeSlot) Seconds() int {
	if s.open {
		return 0
	}
	return s.seconds
}

func (s TimeSlot) String() string {
	if s.open {
		return "any"
	}
	return fmt.Sprintf("%02d:%02d", s.seconds/3600, s.seconds%3600/60)
}

// Before orders timed slots by clock time and puts open slots last.
// Two open slots are unordered relative to each other.
func (s TimeSlot) Before(other TimeSlot) bool {
	if s.open {
		return false
	}
	if other.open {
		return true
	}
	return s.seconds < other.seconds
}
