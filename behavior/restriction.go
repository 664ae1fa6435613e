package behavior

import (
	"fmt"
	"time"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

// TimeRestricting enforces a temporal constraint on its child: spans whose
// total window duration falls outside the required frame become Impossible.
type TimeRestricting struct {
	child       Node
	requirement core.RelativeTimeFrame
	name        string
}

// NewTimeRestricting wraps child in the given duration requirement.
func NewTimeRestricting(child Node, requirement core.RelativeTimeFrame) *TimeRestricting {
	return &TimeRestricting{child: child, requirement: requirement}
}

// Requirement returns the node's duration frame.
func (n *TimeRestricting) Requirement() core.RelativeTimeFrame { return n.requirement }

// BuildLayer wraps the child layer with the duration filter.
func (n *TimeRestricting) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	durations := windowDurations(windows)
	childLayer := n.child.BuildLayer(vars, windows, cfg)

	weighting := func(i, j int) core.Confidence {
		spanned := time.Duration(0)
		for k := i; k < j && k < len(durations); k++ {
			spanned += durations[k]
		}

		if n.requirement.ContainsDuration(spanned) {
			return childLayer.At(i, j)
		}

		return core.Impossible()
	}

	return timegraph.NewLambda(weighting, len(windows), n.String(), debugSublayers(cfg, childLayer))
}

// SequenceInfo returns a single stage: the node's variables for its minimal
// required time.
func (n *TimeRestricting) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return []SequenceStage{{
		Variables: n.Variables()[0],
		MinTime:   n.TimeRequirement(defaultMin, core.Unbounded).Minimal,
	}}
}

// Variables returns the child's variable constraints.
func (n *TimeRestricting) Variables() []core.VariableSet {
	return n.child.Variables()
}

// TimeRequirement returns the node's own frame when the child has nothing
// explicit, and the intersection otherwise.
func (n *TimeRestricting) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	childReq := n.child.TimeRequirement(defaultMin, defaultMax)
	if childReq == (core.RelativeTimeFrame{Minimal: defaultMin, Maximal: defaultMax}) {
		return n.requirement
	}

	return n.requirement.Intersect(childReq)
}

// IsSymmetrical defers to the child.
func (n *TimeRestricting) IsSymmetrical(all core.VariableSet) bool {
	return n.child.IsSymmetrical(all)
}

// IsSubset is always false for composite nodes.
func (n *TimeRestricting) IsSubset(Node) bool { return false }

// Equal reports structural equality.
func (n *TimeRestricting) Equal(other Node) bool {
	o, ok := other.(*TimeRestricting)

	return ok && n.child.Equal(o.child) && n.requirement == o.requirement
}

// Children returns the single restricted child.
func (n *TimeRestricting) Children() []Node { return []Node{n.child} }

// Name returns the explicit label.
func (n *TimeRestricting) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *TimeRestricting) SetName(name string) { n.name = name }

// String renders "A FOR at least 10 seconds".
func (n *TimeRestricting) String() string {
	if n.name != "" {
		return n.name
	}

	return fmt.Sprintf("%s FOR %s", n.child, n.requirement.Describe())
}

// ConfidenceRestricting enforces a confidence floor on its child: spans
// whose conformity falls below the bound become Impossible. An unset bound
// resolves at layer-build time to the configuration's default restriction
// confidence.
type ConfidenceRestricting struct {
	child Node
	min   *core.Confidence
	name  string
}

// ConfidenceRestrictingOption configures a ConfidenceRestricting node.
type ConfidenceRestrictingOption func(*ConfidenceRestricting)

// WithMinConfidence sets an explicit confidence floor.
func WithMinConfidence(min core.Confidence) ConfidenceRestrictingOption {
	return func(n *ConfidenceRestricting) { n.min = &min }
}

// NewConfidenceRestricting wraps child in a confidence floor; without
// WithMinConfidence the configured default applies.
func NewConfidenceRestricting(child Node, opts ...ConfidenceRestrictingOption) *ConfidenceRestricting {
	node := &ConfidenceRestricting{child: child}
	for _, opt := range opts {
		opt(node)
	}

	return node
}

// minConfidence resolves the effective floor under the given configuration.
func (n *ConfidenceRestricting) minConfidence(cfg core.Config) core.Confidence {
	if n.min != nil {
		return *n.min
	}

	return cfg.DefaultRestrictionConfidence()
}

// BuildLayer wraps the child layer with the confidence filter.
func (n *ConfidenceRestricting) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	childLayer := n.child.BuildLayer(vars, windows, cfg)
	tight := core.ConformityBased()
	bound := n.minConfidence(cfg)

	weighting := func(i, j int) core.Confidence {
		conf := childLayer.At(i, j)
		if tight.CompareInt(conf, bound) < 0 {
			return core.Impossible()
		}

		return conf
	}

	return timegraph.NewLambda(weighting, len(windows), n.String(), debugSublayers(cfg, childLayer))
}

// SequenceInfo returns a single stage: the node's variables for its minimal
// required time.
func (n *ConfidenceRestricting) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return []SequenceStage{{
		Variables: n.Variables()[0],
		MinTime:   n.TimeRequirement(defaultMin, core.Unbounded).Minimal,
	}}
}

// Variables returns the child's variable constraints.
func (n *ConfidenceRestricting) Variables() []core.VariableSet {
	return n.child.Variables()
}

// TimeRequirement returns the child's requirement.
func (n *ConfidenceRestricting) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return n.child.TimeRequirement(defaultMin, defaultMax)
}

// IsSymmetrical defers to the child.
func (n *ConfidenceRestricting) IsSymmetrical(all core.VariableSet) bool {
	return n.child.IsSymmetrical(all)
}

// IsSubset is always false for composite nodes.
func (n *ConfidenceRestricting) IsSubset(Node) bool { return false }

// Equal reports structural equality.
func (n *ConfidenceRestricting) Equal(other Node) bool {
	o, ok := other.(*ConfidenceRestricting)

	return ok && n.child.Equal(o.child) && ptrEqual(n.min, o.min)
}

// Children returns the single restricted child.
func (n *ConfidenceRestricting) Children() []Node { return []Node{n.child} }

// Name returns the explicit label.
func (n *ConfidenceRestricting) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *ConfidenceRestricting) SetName(name string) { n.name = name }

// String renders "A WITH c >= 0.825"; an unresolved default floor shows as
// "default".
func (n *ConfidenceRestricting) String() string {
	if n.name != "" {
		return n.name
	}
	if n.min == nil {
		return fmt.Sprintf("%s WITH c >= default", n.child)
	}

	return fmt.Sprintf("%s WITH c >= %g", n.child, n.min.Float())
}
