package behavior

import (
	"fmt"
	"strings"
	"time"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

// logicalSequenceInfo merges the children's stage sequences the way logical
// composition requires: single-stage children merge into one stage (union of
// variables, maximum of times); a multi-stage child takes over the shape;
// two multi-stage shapes merge first and last stages pairwise and collapse
// everything between into an anonymous middle stage.
func logicalSequenceInfo(children []Node, defaultMin time.Duration) []SequenceStage {
	seqInfo := []SequenceStage{{Variables: make(core.VariableSet), MinTime: defaultMin}}

	for _, child := range children {
		childInfo := child.SequenceInfo(defaultMin)

		switch {
		case len(seqInfo) == 1 && len(childInfo) == 1:
			seqInfo = []SequenceStage{{
				Variables: seqInfo[0].Variables.Union(childInfo[0].Variables),
				MinTime:   maxDuration(seqInfo[0].MinTime, childInfo[0].MinTime),
			}}

		case len(seqInfo) == 1:
			selfVars := seqInfo[0].Variables
			merged := make([]SequenceStage, len(childInfo))
			for i, stage := range childInfo {
				merged[i] = SequenceStage{
					Variables: selfVars.Union(stage.Variables),
					MinTime:   stage.MinTime,
				}
			}
			seqInfo = merged

		default:
			selfFirst, selfLast := seqInfo[0], seqInfo[len(seqInfo)-1]
			childFirst, childLast := childInfo[0], childInfo[len(childInfo)-1]

			selfTotal := time.Duration(0)
			for _, stage := range seqInfo {
				selfTotal += stage.MinTime
			}
			childTotal := time.Duration(0)
			for _, stage := range childInfo {
				childTotal += stage.MinTime
			}

			firstTime := minDurationOf(selfFirst.MinTime, childFirst.MinTime)
			lastTime := minDurationOf(selfLast.MinTime, childLast.MinTime)
			midTime := maxDuration(selfTotal, childTotal) - firstTime - lastTime

			seqInfo = []SequenceStage{
				{Variables: selfFirst.Variables.Union(childFirst.Variables), MinTime: firstTime},
				{Variables: make(core.VariableSet), MinTime: midTime},
				{Variables: selfLast.Variables.Union(childLast.Variables), MinTime: lastTime},
			}
		}
	}

	return seqInfo
}

// logicalVariables merges the children's variable constraints: single-phase
// lists union crosswise; two sequential shapes keep first and last unions.
func logicalVariables(children []Node) []core.VariableSet {
	selfVars := []core.VariableSet{make(core.VariableSet)}

	for _, child := range children {
		childVars := child.Variables()

		switch {
		case len(selfVars) == 1 && len(childVars) == 1:
			selfVars = []core.VariableSet{selfVars[0].Union(childVars[0])}
		case len(selfVars) == 1 || len(childVars) == 1:
			crossed := make([]core.VariableSet, 0, len(selfVars)*len(childVars))
			for _, v1 := range selfVars {
				for _, v2 := range childVars {
					crossed = append(crossed, v1.Union(v2))
				}
			}
			selfVars = crossed
		default:
			selfVars = []core.VariableSet{
				selfVars[0].Union(childVars[0]),
				selfVars[len(selfVars)-1].Union(childVars[len(childVars)-1]),
			}
		}
	}

	return selfVars
}

// logicalTimeRequirement intersects the children's time requirements.
func logicalTimeRequirement(children []Node, defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	timeReq := children[0].TimeRequirement(defaultMin, defaultMax)
	for _, child := range children[1:] {
		timeReq = timeReq.Intersect(child.TimeRequirement(defaultMin, defaultMax))
	}

	return timeReq
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}

	return b
}

func minDurationOf(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}

	return b
}

// joinChildren renders "(A) SEP (B) SEP (C)" for composite descriptions.
func joinChildren(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}

	return "(" + strings.Join(parts, ") "+sep+" (") + ")"
}

// Conjunction requires all children to hold simultaneously. How their
// confidences combine depends on the configured strategy: MIN keeps the
// least conforming child per span, AVG averages components across children.
type Conjunction struct {
	children []Node
	name     string
}

// NewConjunction builds a conjunction over the given children.
func NewConjunction(children []Node) *Conjunction {
	return &Conjunction{children: children}
}

// BuildLayer combines the child layers on demand.
func (n *Conjunction) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	childLayers := make([]timegraph.Layer, len(n.children))
	for i, child := range n.children {
		childLayers[i] = child.BuildLayer(vars, windows, cfg)
	}

	comparer := cfg.Comparer()
	count := float64(len(n.children))

	var weighting func(i, j int) core.Confidence
	if cfg.Strategy == core.StrategyMin {
		weighting = func(i, j int) core.Confidence {
			best := childLayers[0].At(i, j)
			for _, layer := range childLayers[1:] {
				if conf := layer.At(i, j); comparer.CompareInt(conf, best) < 0 {
					best = conf
				}
			}

			return best
		}
	} else {
		weighting = func(i, j int) core.Confidence {
			sum := core.Impartial()
			for _, layer := range childLayers {
				sum = sum.Add(layer.At(i, j))
			}

			return core.Confidence{Nom: sum.Nom / count, Denom: sum.Denom / count}
		}
	}

	return timegraph.NewLambda(weighting, len(windows), n.String(), debugSublayers(cfg, childLayers...))
}

// SequenceInfo merges the children's stages logically.
func (n *Conjunction) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return logicalSequenceInfo(n.children, defaultMin)
}

// Variables merges the children's variable constraints.
func (n *Conjunction) Variables() []core.VariableSet {
	return logicalVariables(n.children)
}

// TimeRequirement intersects the children's requirements.
func (n *Conjunction) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return logicalTimeRequirement(n.children, defaultMin, defaultMax)
}

// IsSymmetrical holds when every child is symmetrical.
func (n *Conjunction) IsSymmetrical(all core.VariableSet) bool {
	for _, child := range n.children {
		if !child.IsSymmetrical(all) {
			return false
		}
	}

	return true
}

// IsSubset is always false for composite nodes.
func (n *Conjunction) IsSubset(Node) bool { return false }

// Equal reports structural equality.
func (n *Conjunction) Equal(other Node) bool {
	o, ok := other.(*Conjunction)

	return ok && equalChildren(n.children, o.children)
}

// Children returns the conjuncts.
func (n *Conjunction) Children() []Node { return n.children }

// Name returns the explicit label.
func (n *Conjunction) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *Conjunction) SetName(name string) { n.name = name }

// String renders "(A) AND (B)".
func (n *Conjunction) String() string {
	if n.name != "" {
		return n.name
	}

	return joinChildren(n.children, "AND")
}

// Disjunction requires at least one child to hold: per window the best child
// confidence (by the configured comparer) wins, and a span sums the winners
// of its windows.
type Disjunction struct {
	children []Node
	name     string
}

// NewDisjunction builds a disjunction over the given children.
func NewDisjunction(children []Node) *Disjunction {
	return &Disjunction{children: children}
}

// BuildLayer combines the child layers on demand.
func (n *Disjunction) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	childLayers := make([]timegraph.Layer, len(n.children))
	for i, child := range n.children {
		childLayers[i] = child.BuildLayer(vars, windows, cfg)
	}

	comparer := cfg.Comparer()
	weighting := func(i, j int) core.Confidence {
		sum := core.Impartial()
		for k := i; k < j; k++ {
			best := childLayers[0].At(k, k+1)
			for _, layer := range childLayers[1:] {
				if conf := layer.At(k, k+1); comparer.CompareInt(conf, best) > 0 {
					best = conf
				}
			}
			sum = sum.Add(best)
		}

		return sum
	}

	return timegraph.NewLambda(weighting, len(windows), n.String(), debugSublayers(cfg, childLayers...))
}

// SequenceInfo merges the children's stages logically.
func (n *Disjunction) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return logicalSequenceInfo(n.children, defaultMin)
}

// Variables merges the children's variable constraints.
func (n *Disjunction) Variables() []core.VariableSet {
	return logicalVariables(n.children)
}

// TimeRequirement intersects the children's requirements.
func (n *Disjunction) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return logicalTimeRequirement(n.children, defaultMin, defaultMax)
}

// IsSymmetrical holds when every child is symmetrical.
func (n *Disjunction) IsSymmetrical(all core.VariableSet) bool {
	for _, child := range n.children {
		if !child.IsSymmetrical(all) {
			return false
		}
	}

	return true
}

// IsSubset is always false for composite nodes.
func (n *Disjunction) IsSubset(Node) bool { return false }

// Equal reports structural equality.
func (n *Disjunction) Equal(other Node) bool {
	o, ok := other.(*Disjunction)

	return ok && equalChildren(n.children, o.children)
}

// Children returns the disjuncts.
func (n *Disjunction) Children() []Node { return n.children }

// Name returns the explicit label.
func (n *Disjunction) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *Disjunction) SetName(name string) { n.name = name }

// String renders "(A) OR (B)".
func (n *Disjunction) String() string {
	if n.name != "" {
		return n.name
	}

	return joinChildren(n.children, "OR")
}

// Negation inverts its single child: the matched and unmatched shares of
// the evidence swap, (n, d) → (d−n, d).
type Negation struct {
	child Node
	name  string
}

// NewNegation builds a negation of the given child.
func NewNegation(child Node) *Negation {
	return &Negation{child: child}
}

// BuildLayer wraps the child layer on demand.
func (n *Negation) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	childLayer := n.child.BuildLayer(vars, windows, cfg)

	weighting := func(i, j int) core.Confidence {
		return childLayer.At(i, j).Negated()
	}

	return timegraph.NewLambda(weighting, len(windows), n.String(), debugSublayers(cfg, childLayer))
}

// SequenceInfo merges like a logical node with one child.
func (n *Negation) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return logicalSequenceInfo([]Node{n.child}, defaultMin)
}

// Variables returns the child's variable constraints.
func (n *Negation) Variables() []core.VariableSet {
	return logicalVariables([]Node{n.child})
}

// TimeRequirement returns the child's requirement.
func (n *Negation) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return logicalTimeRequirement([]Node{n.child}, defaultMin, defaultMax)
}

// IsSymmetrical defers to the child.
func (n *Negation) IsSymmetrical(all core.VariableSet) bool {
	return n.child.IsSymmetrical(all)
}

// IsSubset is always false for composite nodes.
func (n *Negation) IsSubset(Node) bool { return false }

// Equal reports structural equality.
func (n *Negation) Equal(other Node) bool {
	o, ok := other.(*Negation)

	return ok && n.child.Equal(o.child)
}

// Children returns the single negated child.
func (n *Negation) Children() []Node { return []Node{n.child} }

// Name returns the explicit label.
func (n *Negation) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *Negation) SetName(name string) { n.name = name }

// String renders "NOT (A)".
func (n *Negation) String() string {
	if n.name != "" {
		return n.name
	}

	return fmt.Sprintf("NOT (%s)", n.child)
}
