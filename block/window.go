package block

import (
	"errors"
	"fmt"
	"time"

	"github.com/traceq/traceq/core"
)

// Sentinel errors for window computation.
var (
	// ErrBadWindowSize indicates a non-positive maximum window size.
	ErrBadWindowSize = errors.New("block: max window size must be positive")

	// ErrUnknownPairAgent indicates a pair referencing an agent outside the
	// supplied agent list.
	ErrUnknownPairAgent = errors.New("block: pair references an agent not in the selection")
)

// Window is one granulated slice of every considered stream: the clipped
// single block per agent (nil when the agent has no block there), the N×N
// matrix of clipped pair blocks indexed by (actor position, target
// position) — diagonal entries are always nil — and the slice duration.
//
// Windows are the atomic unit over which layers assign confidence.
type Window struct {
	Start time.Time
	End   time.Time

	Singles  []*SingleBlock
	Pairs    [][]*PairBlock
	Duration time.Duration
}

// WindowOptions configures CutToWindows.
//
//	StripIncomplete — drop windows where any stream has no block in effect.
//	MaxWindowSize   — cap on a single window's length; longer stretches are
//	                  subdivided. Must be positive.
type WindowOptions struct {
	StripIncomplete bool
	MaxWindowSize   time.Duration
}

// DefaultWindowOptions returns the standard windowing used by the engine:
// incomplete windows kept, one-second granularity.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{
		StripIncomplete: false,
		MaxWindowSize:   time.Second,
	}
}

// Validate checks that the options hold a valid combination.
func (o WindowOptions) Validate() error {
	if o.MaxWindowSize <= 0 {
		return ErrBadWindowSize
	}

	return nil
}

// CutToWindows granulates the agents' and pairs' block streams into
// time-aligned windows. Agents map to Singles (and to matrix positions) in
// input order; each pair's blocks land at Pairs[actorPos][targetPos].
//
// Agents and pairs with no blocks simply never contribute; if nothing at all
// carries blocks the result is empty.
func CutToWindows(agents []*Agent, pairs []*AgentPair, opts WindowOptions) ([]Window, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	position := make(map[int]int, len(agents))
	for i, agent := range agents {
		position[agent.ID] = i
	}

	// Pair positions resolved up front so a foreign pair fails fast.
	type pairPos struct{ actor, target int }
	pairPositions := make([]pairPos, len(pairs))
	for i, pair := range pairs {
		actorPos, ok := position[pair.Actor]
		if !ok {
			return nil, fmt.Errorf("%w: actor %d", ErrUnknownPairAgent, pair.Actor)
		}
		targetPos, ok := position[pair.Target]
		if !ok {
			return nil, fmt.Errorf("%w: target %d", ErrUnknownPairAgent, pair.Target)
		}
		pairPositions[i] = pairPos{actor: actorPos, target: targetPos}
	}

	streams := make([][]core.TimeFrame, 0, len(agents)+len(pairs))
	for _, agent := range agents {
		frames := make([]core.TimeFrame, len(agent.Blocks))
		for i, b := range agent.Blocks {
			frames[i] = b.Bounds()
		}
		streams = append(streams, frames)
	}
	for _, pair := range pairs {
		frames := make([]core.TimeFrame, len(pair.Blocks))
		for i, b := range pair.Blocks {
			frames[i] = b.Bounds()
		}
		streams = append(streams, frames)
	}

	slices := granulate(streams, opts.StripIncomplete, opts.MaxWindowSize)

	windows := make([]Window, len(slices))
	for wi, sw := range slices {
		singles := make([]*SingleBlock, len(agents))
		for g := range agents {
			if idx := sw.active[g]; idx >= 0 {
				clipped := agents[g].Blocks[idx].DuringTime(sw.start, sw.end)
				singles[g] = &clipped
			}
		}

		matrix := make([][]*PairBlock, len(agents))
		for i := range matrix {
			matrix[i] = make([]*PairBlock, len(agents))
		}
		for pi, pair := range pairs {
			if idx := sw.active[len(agents)+pi]; idx >= 0 {
				clipped := pair.Blocks[idx].DuringTime(sw.start, sw.end)
				matrix[pairPositions[pi].actor][pairPositions[pi].target] = &clipped
			}
		}

		windows[wi] = Window{
			Start:    sw.start,
			End:      sw.end,
			Singles:  singles,
			Pairs:    matrix,
			Duration: sw.end.Sub(sw.start),
		}
	}

	return windows, nil
}
