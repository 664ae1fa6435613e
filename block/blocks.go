// Package block defines the feature-labelled trajectory blocks.
package block

import (
	"fmt"
	"time"

	"github.com/traceq/traceq/core"
)

// SingleBlock is a time-bounded record of one agent's unary features over
// the half-open interval [Start, End).
type SingleBlock struct {
	Start time.Time
	End   time.Time

	Speed     core.Speed
	Direction core.Direction
}

// Duration returns End − Start.
func (b SingleBlock) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Bounds returns the block interval as an absolute time frame.
func (b SingleBlock) Bounds() core.TimeFrame {
	return core.TimeFrame{Start: b.Start, End: b.End}
}

// DuringTime returns a copy of the block clipped to [from, to]. A zero time
// leaves the corresponding side unclipped. Feature values are preserved.
func (b SingleBlock) DuringTime(from, to time.Time) SingleBlock {
	clipped := b
	if !from.IsZero() && from.After(clipped.Start) {
		clipped.Start = from
	}
	if !to.IsZero() && to.Before(clipped.End) {
		clipped.End = to
	}

	return clipped
}

// String renders the block compactly for logs and test failures.
func (b SingleBlock) String() string {
	return fmt.Sprintf("SingleBlock(%v, %v, %v)", b.Duration(), b.Speed, b.Direction)
}

// PairBlock is a time-bounded record of the binary features of one ordered
// agent pair (actor, target) over the half-open interval [Start, End).
type PairBlock struct {
	Start time.Time
	End   time.Time

	// IntendedDistanceChange is the distance trend w.r.t. the target's last
	// known position (where the actor is heading).
	IntendedDistanceChange core.DistanceChange

	// ActualDistanceChange is the trend of the real distance between both.
	ActualDistanceChange core.DistanceChange

	// RelativeDirection is the actor's direction w.r.t. the target.
	RelativeDirection core.Direction

	// MutualDirection relates the directions of both agents.
	MutualDirection core.MutualDirection

	// Distance is the coarse distance between both agents.
	Distance core.Distance
}

// Duration returns End − Start.
func (b PairBlock) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Bounds returns the block interval as an absolute time frame.
func (b PairBlock) Bounds() core.TimeFrame {
	return core.TimeFrame{Start: b.Start, End: b.End}
}

// DuringTime returns a copy of the block clipped to [from, to]. A zero time
// leaves the corresponding side unclipped. Feature values are preserved.
func (b PairBlock) DuringTime(from, to time.Time) PairBlock {
	clipped := b
	if !from.IsZero() && from.After(clipped.Start) {
		clipped.Start = from
	}
	if !to.IsZero() && to.Before(clipped.End) {
		clipped.End = to
	}

	return clipped
}

// String renders the block compactly for logs and test failures.
func (b PairBlock) String() string {
	return fmt.Sprintf("PairBlock(%v, %v, %v, %v, %v, %v)", b.Duration(),
		b.IntendedDistanceChange, b.ActualDistanceChange, b.RelativeDirection, b.MutualDirection, b.Distance)
}
