package core

import (
	"fmt"
	"math"
	"time"
)

// Unbounded is the sentinel duration meaning "no upper limit".
const Unbounded = time.Duration(math.MaxInt64)

// TimeFrame is an absolute wall-clock interval [Start, End].
type TimeFrame struct {
	Start time.Time
	End   time.Time
}

// Duration returns End − Start.
func (f TimeFrame) Duration() time.Duration {
	return f.End.Sub(f.Start)
}

// RelativeOffset maps an absolute instant to its fractional position within
// the frame: 0 at Start, 1 at End.
func (f TimeFrame) RelativeOffset(t time.Time) float64 {
	return float64(t.Sub(f.Start)) / float64(f.Duration())
}

// Contains reports whether other lies entirely within f.
func (f TimeFrame) Contains(other TimeFrame) bool {
	return !f.Start.After(other.Start) && !other.End.After(f.End)
}

// RelativeTimeFrame is a duration interval [Minimal, Maximal] used for
// temporal requirements such as "for at least 10 seconds". Maximal may be
// Unbounded.
type RelativeTimeFrame struct {
	Minimal time.Duration
	Maximal time.Duration
}

// AnyDuration returns the unconstrained frame [0, Unbounded].
func AnyDuration() RelativeTimeFrame {
	return RelativeTimeFrame{Minimal: 0, Maximal: Unbounded}
}

// AtLeast returns the frame [minimal, Unbounded].
func AtLeast(minimal time.Duration) RelativeTimeFrame {
	return RelativeTimeFrame{Minimal: minimal, Maximal: Unbounded}
}

// AtMost returns the frame [0, maximal].
func AtMost(maximal time.Duration) RelativeTimeFrame {
	return RelativeTimeFrame{Minimal: 0, Maximal: maximal}
}

// Between returns the frame [minimal, maximal].
func Between(minimal, maximal time.Duration) RelativeTimeFrame {
	return RelativeTimeFrame{Minimal: minimal, Maximal: maximal}
}

// Duration returns the width of the frame, Maximal − Minimal.
func (f RelativeTimeFrame) Duration() time.Duration {
	return f.Maximal - f.Minimal
}

// HasMin reports whether a lower bound above zero is set.
func (f RelativeTimeFrame) HasMin() bool {
	return f.Minimal > 0
}

// HasMax reports whether a finite upper bound is set.
func (f RelativeTimeFrame) HasMax() bool {
	return f.Maximal < Unbounded
}

// Union returns the smallest frame containing both f and other.
func (f RelativeTimeFrame) Union(other RelativeTimeFrame) RelativeTimeFrame {
	return RelativeTimeFrame{
		Minimal: minDuration(f.Minimal, other.Minimal),
		Maximal: maxDuration(f.Maximal, other.Maximal),
	}
}

// Intersect returns the overlap of f and other. The result may be empty
// (Minimal > Maximal); ContainsDuration then rejects everything.
func (f RelativeTimeFrame) Intersect(other RelativeTimeFrame) RelativeTimeFrame {
	return RelativeTimeFrame{
		Minimal: maxDuration(f.Minimal, other.Minimal),
		Maximal: minDuration(f.Maximal, other.Maximal),
	}
}

// Add returns the pointwise sum of both bounds, saturating at Unbounded.
func (f RelativeTimeFrame) Add(other RelativeTimeFrame) RelativeTimeFrame {
	return RelativeTimeFrame{
		Minimal: satAddDuration(f.Minimal, other.Minimal),
		Maximal: satAddDuration(f.Maximal, other.Maximal),
	}
}

// ContainsDuration reports whether d falls within [Minimal, Maximal].
func (f RelativeTimeFrame) ContainsDuration(d time.Duration) bool {
	return f.Minimal <= d && d <= f.Maximal
}

// ContainsFrame reports whether other lies entirely within f.
func (f RelativeTimeFrame) ContainsFrame(other RelativeTimeFrame) bool {
	return f.Minimal <= other.Minimal && other.Maximal <= f.Maximal
}

// Describe renders the frame as query-language prose, e.g.
// "at least 10 seconds" or "between 5 seconds and 8 seconds".
func (f RelativeTimeFrame) Describe() string {
	switch {
	case !f.HasMin() && !f.HasMax():
		return "any amount of time"
	case f.HasMin() && f.HasMax():
		return fmt.Sprintf("between %g seconds and %g seconds", f.Minimal.Seconds(), f.Maximal.Seconds())
	case f.HasMin():
		return fmt.Sprintf("at least %g seconds", f.Minimal.Seconds())
	default:
		return fmt.Sprintf("at most %g seconds", f.Maximal.Seconds())
	}
}

// String renders the raw bounds, e.g. "(10s - 20s)".
func (f RelativeTimeFrame) String() string {
	return fmt.Sprintf("(%v - %v)", f.Minimal, f.Maximal)
}

// satAddDuration adds two non-negative durations, saturating at Unbounded.
func satAddDuration(a, b time.Duration) time.Duration {
	if a == Unbounded || b == Unbounded || a > Unbounded-b {
		return Unbounded
	}

	return a + b
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}

	return b
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}

	return b
}
