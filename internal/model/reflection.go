package model

import (
	"errors"
	"fmt"
)

const (
	MoodScaleMin = 1
	MoodScaleMax = 5
)

var ErrMoodOutOfRange = errors.New("model: mood out of range")

// Reflection captures how the user felt around an occurrence or a habit
// tick. It is written once alongside the completion or counter update and
// never edited afterwards.
type Reflection struct {
	MoodBefore       int
	MoodAfter        int
	PreviousActivity string
	NextActivity     string
}

func (r Reflection) Validate() error {
	if r.MoodBefore < MoodScaleMin || r.MoodBefore > MoodScaleMax {
		return fmt.Errorf("%w: mood_before %d", ErrMoodOutOfRange, r.MoodBefore)
	}
	if r.MoodAfter < MoodScaleMin || r.MoodAfter > MoodScaleMax {
		return fmt.Errorf("%w: mood_after %d", ErrMoodOutOfRange, r.MoodAfter)
	}
	return nil
}

// NeutralReflection is used when the caller records a completion without
// filling the mood form.
func NeutralReflection() Reflection {
	mid := (MoodScaleMin + MoodScaleMax) / 2
	return Reflection{MoodBefore: mid, MoodAfter: mid}
}
