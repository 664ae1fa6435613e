// Package behavior: the node interface and shared metadata helpers.
package behavior

import (
	"time"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

// SequenceStage is one actor-temporal constraint: the variables that must be
// present concurrently, and for how long at minimum.
type SequenceStage struct {
	Variables core.VariableSet
	MinTime   time.Duration
}

// Node is a behavior-tree node. Implementations are State, ActorTarget,
// Mutual, Conjunction, Disjunction, Negation, TimeRestricting,
// ConfidenceRestricting and Sequential.
type Node interface {
	// BuildLayer computes the node's confidence layer over the given
	// windows. vars maps template variables to window stream positions.
	BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer

	// SequenceInfo returns the node's chronological actor-temporal
	// constraints, using defaultMin where no explicit minimum is set.
	SequenceInfo(defaultMin time.Duration) []SequenceStage

	// Variables returns the node's variable constraints: one set for a
	// single phase, or first and last sets for sequential shapes.
	Variables() []core.VariableSet

	// TimeRequirement returns the node's aggregate duration requirement,
	// falling back to the given defaults where nothing explicit is set.
	TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame

	// IsSymmetrical reports whether swapping any of the template's agent
	// variables leaves the node's meaning unchanged.
	IsSymmetrical(all core.VariableSet) bool

	// IsSubset reports whether the node holds no more information than
	// other. Only like-shaped leaves can subsume each other.
	IsSubset(other Node) bool

	// Equal reports structural equality.
	Equal(other Node) bool

	// Children returns the node's direct children, outermost first.
	Children() []Node

	// Name returns the explicit label, or "" when unnamed.
	Name() string

	// SetName attaches an explicit label (query group labels, optimizer
	// name transfer).
	SetName(name string)

	// String renders the node for CSV headers and logs; the explicit name
	// wins over the derived description.
	String() string
}

// LeafVariables collects the variables of the whole tree in first-appearance
// order over a depth-first walk. This is the stable variable order templates
// map agents onto.
func LeafVariables(root Node) []core.Variable {
	var ordered []core.Variable
	seen := make(core.VariableSet)

	var walk func(Node)
	walk = func(n Node) {
		if leaf, ok := n.(leafNode); ok {
			for _, v := range leaf.leafVariables() {
				if !seen.Contains(v) {
					seen[v] = struct{}{}
					ordered = append(ordered, v)
				}
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)

	return ordered
}

// leafNode is the extra surface shared by the three leaf kinds.
type leafNode interface {
	Node

	// leafVariables returns the leaf's variables in declaration order.
	leafVariables() []core.Variable
}

// windowDurations extracts the per-window durations for restriction layers
// and graph timetables.
func windowDurations(windows []block.Window) []time.Duration {
	durations := make([]time.Duration, len(windows))
	for i, w := range windows {
		durations[i] = w.Duration
	}

	return durations
}

// equalChildren reports pairwise structural equality of two child lists.
func equalChildren(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

// debugSublayers returns the child layers only in debug mode, keeping
// released layers lean.
func debugSublayers(cfg core.Config, layers ...timegraph.Layer) []timegraph.Layer {
	if !cfg.Debug {
		return nil
	}

	return layers
}
