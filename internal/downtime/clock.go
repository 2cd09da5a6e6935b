// Package downtime computes maintenance downtime from technician-entered
// shift times.
//
// Times arrive either as a raw "HHMM" integer (830 means 08:30) typed into
// a numeric field, or as an hour/minute pair from two select controls.
// Normalization is total: malformed input degrades to midnight rather than
// surfacing an error to the form.
package downtime

import (
	"fmt"
	"strconv"
)

// Clock is a wall-clock time of day, always within valid bounds after
// construction through Normalize or FromHHMM.
type Clock struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// String formats the clock as zero-padded "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Normalize clamps the pair into valid wall-clock bounds. Normalizing an
// already valid Clock is a no-op.
func (c Clock) Normalize() Clock {
	return Clock{Hour: clamp(c.Hour, 0, 23), Minute: clamp(c.Minute, 0, 59)}
}

// FromHHMM interprets a raw integer as a 4-digit "HHMM" value.
//
// The integer is rendered as decimal text and left-padded with zeros to
// four characters: the first two become the hour, the next two the minute,
// each clamped into range. So 0 -> 00:00, 5 -> 00:05, 830 -> 08:30,
// 2500 -> 23:00, 9999 -> 23:59. Negative input cannot produce a sensible
// digit split and resolves to 00:00. The function never fails.
func FromHHMM(raw int) Clock {
	if raw < 0 {
		return Clock{}
	}

	text := fmt.Sprintf("%04d", raw)

	hour, err := strconv.Atoi(text[0:2])
	if err != nil {
		return Clock{}
	}
	minute, err := strconv.Atoi(text[2:4])
	if err != nil {
		return Clock{}
	}

	return Clock{Hour: hour, Minute: minute}.Normalize()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
