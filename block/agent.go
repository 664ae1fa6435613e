package block

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/traceq/traceq/core"
)

// Sentinel errors for block-list validation.
var (
	// ErrEmptyBlock indicates a block whose start does not precede its end.
	ErrEmptyBlock = errors.New("block: block start must precede its end")

	// ErrOutOfOrder indicates blocks that overlap or are not chronological.
	ErrOutOfOrder = errors.New("block: blocks must be chronological and non-overlapping")
)

// bounded abstracts the two block flavours for the shared list operations.
// The type parameter ties DuringTime's result back to the concrete type.
type bounded[B any] interface {
	Bounds() core.TimeFrame
	DuringTime(from, to time.Time) B
}

// atTime returns the block whose [start, end] interval contains t
// (endpoints inclusive), or false when no block spans t.
func atTime[B bounded[B]](blocks []B, t time.Time) (B, bool) {
	var zero B
	if len(blocks) == 0 {
		return zero, false
	}

	// First block starting strictly after t; the candidate precedes it.
	idx := sort.Search(len(blocks), func(i int) bool {
		return blocks[i].Bounds().Start.After(t)
	})

	if idx == 0 {
		return zero, false
	}
	if blocks[idx-1].Bounds().End.Before(t) {
		return zero, false
	}

	return blocks[idx-1], true
}

// duringTime clips the list to the given absolute frame, truncating the
// boundary blocks where they stick out.
func duringTime[B bounded[B]](blocks []B, frame core.TimeFrame) []B {
	if len(blocks) == 0 {
		return nil
	}
	if !frame.Start.Before(blocks[len(blocks)-1].Bounds().End) || !frame.End.After(blocks[0].Bounds().Start) {
		return nil
	}

	// First block whose start is not before frame.Start.
	startIdx := sort.Search(len(blocks), func(i int) bool {
		return !blocks[i].Bounds().Start.Before(frame.Start)
	})
	// First block whose end is not before frame.End.
	endIdx := sort.Search(len(blocks), func(i int) bool {
		return !blocks[i].Bounds().End.Before(frame.End)
	})

	// The frame falls inside a single block: return just its clipped slice.
	if startIdx > endIdx {
		return []B{blocks[endIdx].DuringTime(frame.Start, frame.End)}
	}

	out := make([]B, 0, endIdx-startIdx+2)

	prependSlice := startIdx-1 >= 0 && startIdx-1 < len(blocks) &&
		(startIdx >= len(blocks) || blocks[startIdx].Bounds().Start.After(frame.Start)) &&
		blocks[startIdx-1].Bounds().End.After(frame.Start)
	appendSlice := endIdx >= 0 && endIdx < len(blocks) &&
		(endIdx == 0 || blocks[endIdx-1].Bounds().End.Before(frame.End)) &&
		blocks[endIdx].Bounds().Start.Before(frame.End)

	if prependSlice {
		out = append(out, blocks[startIdx-1].DuringTime(frame.Start, time.Time{}))
	}
	out = append(out, blocks[startIdx:endIdx]...)
	if appendSlice {
		out = append(out, blocks[endIdx].DuringTime(time.Time{}, frame.End))
	}

	return out
}

// validateBlocks checks the monotonic-time invariant:
// blocks[i].End ≤ blocks[i+1].Start, each block non-empty.
func validateBlocks[B bounded[B]](blocks []B) error {
	for i, b := range blocks {
		bounds := b.Bounds()
		if !bounds.Start.Before(bounds.End) {
			return fmt.Errorf("%w: block %d spans [%v, %v)", ErrEmptyBlock, i, bounds.Start, bounds.End)
		}
		if i > 0 && blocks[i-1].Bounds().End.After(bounds.Start) {
			return fmt.Errorf("%w: blocks %d and %d", ErrOutOfOrder, i-1, i)
		}
	}

	return nil
}

// Agent is a semantically enriched trajectory: an id plus the chronological
// single blocks describing it. Agents are immutable after load.
type Agent struct {
	ID     int
	Blocks []SingleBlock
}

// NewAgent builds an agent, sorting the blocks chronologically.
func NewAgent(id int, blocks []SingleBlock) *Agent {
	sorted := make([]SingleBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	return &Agent{ID: id, Blocks: sorted}
}

// AtTime returns the block whose [start, end] contains t (endpoints
// inclusive), or false when the agent has no block there.
func (a *Agent) AtTime(t time.Time) (SingleBlock, bool) {
	return atTime(a.Blocks, t)
}

// DuringTime returns a new agent clipped to the given frame; the boundary
// blocks may be truncated.
func (a *Agent) DuringTime(frame core.TimeFrame) *Agent {
	return &Agent{ID: a.ID, Blocks: duringTime(a.Blocks, frame)}
}

// Duration returns the outer presence span, last end − first start.
// Gaps between blocks are included.
func (a *Agent) Duration() time.Duration {
	if len(a.Blocks) == 0 {
		return 0
	}

	return a.Blocks[len(a.Blocks)-1].End.Sub(a.Blocks[0].Start)
}

// Validate checks the monotonic-time invariant over the agent's blocks.
func (a *Agent) Validate() error {
	if err := validateBlocks(a.Blocks); err != nil {
		return fmt.Errorf("agent %d: %w", a.ID, err)
	}

	return nil
}

// PairKey identifies an ordered agent pair in the pair dictionary.
type PairKey struct {
	Actor  int
	Target int
}

// AgentPair is a semantically enriched trajectory pair: the ordered
// (actor, target) ids plus the chronological pair blocks describing their
// relation. Pairs are immutable after load.
type AgentPair struct {
	Actor  int
	Target int
	Blocks []PairBlock
}

// NewAgentPair builds an agent pair, sorting the blocks chronologically.
func NewAgentPair(actor, target int, blocks []PairBlock) *AgentPair {
	sorted := make([]PairBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	return &AgentPair{Actor: actor, Target: target, Blocks: sorted}
}

// Key returns the pair's dictionary key.
func (p *AgentPair) Key() PairKey {
	return PairKey{Actor: p.Actor, Target: p.Target}
}

// AtTime returns the pair block whose [start, end] contains t (endpoints
// inclusive), or false when the pair has no block there.
func (p *AgentPair) AtTime(t time.Time) (PairBlock, bool) {
	return atTime(p.Blocks, t)
}

// DuringTime returns a new pair clipped to the given frame; the boundary
// blocks may be truncated.
func (p *AgentPair) DuringTime(frame core.TimeFrame) *AgentPair {
	return &AgentPair{Actor: p.Actor, Target: p.Target, Blocks: duringTime(p.Blocks, frame)}
}

// Duration returns the outer span, last end − first start.
func (p *AgentPair) Duration() time.Duration {
	if len(p.Blocks) == 0 {
		return 0
	}

	return p.Blocks[len(p.Blocks)-1].End.Sub(p.Blocks[0].Start)
}

// Validate checks the monotonic-time invariant over the pair's blocks.
func (p *AgentPair) Validate() error {
	if err := validateBlocks(p.Blocks); err != nil {
		return fmt.Errorf("pair (%d, %d): %w", p.Actor, p.Target, err)
	}

	return nil
}
