package block

import (
	"errors"
	"time"

	"github.com/traceq/traceq/core"
)

// ErrEmptyAgent indicates an agent with no blocks where presence is required.
var ErrEmptyAgent = errors.New("block: agent has no blocks")

// minEmitWindow is the smallest window worth emitting; anything shorter is
// boundary noise from near-coincident block edges.
const minEmitWindow = 200 * time.Millisecond

// sliceWindow is one granulated window over a set of streams: the covered
// interval plus, per stream, the index of the block in effect (or −1).
type sliceWindow struct {
	start  time.Time
	end    time.Time
	active []int
}

// granulate interleaves the given chronological span streams into maximal
// windows during which every stream's active span is constant, each window
// additionally capped at maxWindow (core.Unbounded disables the cap).
//
// Invariant maintained throughout: everything before the left bound has been
// emitted. Each round the right bound is lowered to the nearest event across
// all streams — an active span ending, an inactive stream's next span
// starting — then the window is emitted and the exhausted streams advance.
func granulate(streams [][]core.TimeFrame, stripIncomplete bool, maxWindow time.Duration) []sliceWindow {
	groups := len(streams)

	// Cursor per stream: index of the span currently worked on, −1 when the
	// stream is exhausted (or empty from the outset).
	section := make([]int, groups)
	var start, end time.Time
	started := false
	for g := range streams {
		if len(streams[g]) == 0 {
			section[g] = -1
			continue
		}
		section[g] = 0
		first := streams[g][0].Start
		last := streams[g][len(streams[g])-1].End
		if !started {
			start, end = first, last
			started = true
			continue
		}
		if first.Before(start) {
			start = first
		}
		if last.After(end) {
			end = last
		}
	}
	if !started {
		return nil
	}

	var windows []sliceWindow
	left := start
	exhausted := make([]int, 0, groups)

	for left.Before(end) {
		right := end

		for g, idx := range section {
			if idx < 0 {
				continue
			}
			span := streams[g][idx]
			if !span.Start.After(left) {
				// The stream is inside this span.
				switch {
				case right.Before(span.End):
					// span outlives the current bound
				case right.Equal(span.End):
					exhausted = append(exhausted, g)
				default:
					right = span.End
					exhausted = exhausted[:0]
					exhausted = append(exhausted, g)
				}
			} else if right.After(span.Start) {
				// The stream's next span starts before the current bound.
				right = span.Start
				exhausted = exhausted[:0]
			}
		}

		if maxWindow != core.Unbounded && right.Sub(left) > maxWindow {
			right = left.Add(maxWindow)
			exhausted = exhausted[:0]
		}

		active := make([]int, groups)
		anyActive := false
		complete := true
		for g, idx := range section {
			active[g] = -1
			if idx >= 0 && streams[g][idx].Start.Before(right) && !streams[g][idx].Start.After(left) {
				active[g] = idx
				anyActive = true
			} else {
				complete = false
			}
		}

		switch {
		case left.Add(minEmitWindow).After(right):
			// sub-granule sliver, drop
		case !anyActive:
			// nothing in effect anywhere, drop
		case stripIncomplete && !complete:
			// a stream is absent, drop in strict mode
		default:
			windows = append(windows, sliceWindow{start: left, end: right, active: active})
		}

		for _, g := range exhausted {
			if section[g] < 0 {
				continue
			}
			section[g]++
			if section[g] >= len(streams[g]) {
				section[g] = -1
			}
		}

		left = right
	}

	return windows
}

// CoverageWindow is one window of the agents' joint presence timeline:
// the covered interval plus, per agent (in input order), whether that agent
// is present at all during the window.
type CoverageWindow struct {
	Start   time.Time
	End     time.Time
	Present []bool
}

// Duration returns End − Start.
func (w CoverageWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Coverage granulates the agents' outer presence spans (first block start to
// last block end — intra-agent gaps are deliberately ignored) into windows
// of constant joint presence. It is the substrate of the viability
// pre-check. An agent without blocks yields ErrEmptyAgent.
func Coverage(agents []*Agent) ([]CoverageWindow, error) {
	streams := make([][]core.TimeFrame, len(agents))
	for i, agent := range agents {
		if len(agent.Blocks) == 0 {
			return nil, ErrEmptyAgent
		}
		streams[i] = []core.TimeFrame{{
			Start: agent.Blocks[0].Start,
			End:   agent.Blocks[len(agent.Blocks)-1].End,
		}}
	}

	slices := granulate(streams, false, core.Unbounded)

	windows := make([]CoverageWindow, len(slices))
	for i, sw := range slices {
		present := make([]bool, len(agents))
		for g, idx := range sw.active {
			present[g] = idx >= 0
		}
		windows[i] = CoverageWindow{Start: sw.start, End: sw.end, Present: present}
	}

	return windows, nil
}
