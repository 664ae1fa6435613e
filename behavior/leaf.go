package behavior

import (
	"fmt"
	"strings"
	"time"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

// partialConfidence scores a set of observed feature values against an
// expectation, over the one-second abstraction (the caller scales by the
// window duration afterwards). A nil expectation, or no values at all,
// contributes Impartial. A nil value marks an absent block and never
// matches.
func partialConfidence[T comparable](values []*T, expected *T, strategy core.Strategy) core.Confidence {
	if expected == nil || len(values) == 0 {
		return core.Impartial()
	}

	if strategy == core.StrategyMin {
		for _, v := range values {
			if v == nil || *v != *expected {
				return core.Confidence{Nom: 0, Denom: 1}
			}
		}

		return core.Confidence{Nom: 1, Denom: 1}
	}

	matched := 0
	for _, v := range values {
		if v != nil && *v == *expected {
			matched++
		}
	}

	return core.Confidence{Nom: float64(matched) / float64(len(values)), Denom: 1}
}

// combinePartials merges per-feature partial confidences according to the
// strategy and scales the result to the window duration.
//
//   - MIN: the partial with the smallest conformity wins (tight conformity
//     comparer); Impartial partials are excluded, and all-Impartial input
//     stays Impartial.
//   - AVG: partials sum componentwise and are averaged over the number of
//     contributing features.
func combinePartials(partials []core.Confidence, contributing int, duration time.Duration, strategy core.Strategy) core.Confidence {
	seconds := duration.Seconds()

	if strategy == core.StrategyMin {
		tight := core.ConformityBased()
		best := core.Impartial()
		found := false
		for _, p := range partials {
			if p == core.Impartial() {
				continue
			}
			if !found || tight.CompareInt(p, best) < 0 {
				best = p
				found = true
			}
		}
		if !found {
			return core.Impartial()
		}

		return best.Scale(seconds)
	}

	sum := core.Impartial()
	for _, p := range partials {
		sum = sum.Add(p)
	}
	if contributing > 0 {
		sum = core.Confidence{Nom: sum.Nom / float64(contributing), Denom: sum.Denom / float64(contributing)}
	}

	return sum.Scale(seconds)
}

// variableList renders "(a, b, c)" for leaf descriptions.
func variableList(vars []core.Variable) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = string(v)
	}

	return "(" + strings.Join(names, ", ") + ")"
}

// equalVariables reports order-sensitive variable list equality.
func equalVariables(a, b []core.Variable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// indexOf returns v's position among the template variables, or −1.
func indexOf(vars []core.Variable, v core.Variable) int {
	for i, candidate := range vars {
		if candidate == v {
			return i
		}
	}

	return -1
}

// featureEqual reports the unset-or-equal relation used by subsumption:
// an unset expectation never adds information.
func featureEqual[T comparable](mine, other *T) bool {
	return mine == nil || (other != nil && *mine == *other)
}

// ptrEqual reports strict equality of two optional features.
func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

// State is the elementary node matching unary features — speed and/or
// direction — of every listed agent.
type State struct {
	vars      []core.Variable
	speed     *core.Speed
	direction *core.Direction
	name      string
}

// StateOption configures a State leaf.
type StateOption func(*State)

// WithSpeed sets the expected speed.
func WithSpeed(s core.Speed) StateOption {
	return func(n *State) { n.speed = &s }
}

// WithDirection sets the expected direction.
func WithDirection(d core.Direction) StateOption {
	return func(n *State) { n.direction = &d }
}

// NewState builds a State leaf over the given agent variables.
func NewState(vars []core.Variable, opts ...StateOption) *State {
	node := &State{vars: vars}
	for _, opt := range opts {
		opt(node)
	}

	return node
}

// BuildLayer evaluates the leaf per window into a dense layer.
func (n *State) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	edges := make([]core.Confidence, len(windows))
	for i, w := range windows {
		edges[i] = n.confidence(vars, w, cfg)
	}

	return timegraph.NewDense(edges, n.String())
}

// confidence scores one window for this leaf.
func (n *State) confidence(vars []core.Variable, w block.Window, cfg core.Config) core.Confidence {
	mine := core.NewVariableSet(n.vars...)
	var blocks []*block.SingleBlock
	for k, v := range vars {
		if mine.Contains(v) {
			blocks = append(blocks, w.Singles[k])
		}
	}

	var speeds []*core.Speed
	if n.speed != nil {
		speeds = make([]*core.Speed, len(blocks))
		for i, b := range blocks {
			if b != nil {
				speeds[i] = &b.Speed
			}
		}
	}
	var directions []*core.Direction
	if n.direction != nil {
		directions = make([]*core.Direction, len(blocks))
		for i, b := range blocks {
			if b != nil {
				directions[i] = &b.Direction
			}
		}
	}

	contributing := 0
	if len(speeds) > 0 {
		contributing++
	}
	if len(directions) > 0 {
		contributing++
	}

	partials := []core.Confidence{
		partialConfidence(speeds, n.speed, cfg.Strategy),
		partialConfidence(directions, n.direction, cfg.Strategy),
	}

	return combinePartials(partials, contributing, w.Duration, cfg.Strategy)
}

// SequenceInfo returns the leaf's single stage.
func (n *State) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return []SequenceStage{{
		Variables: core.NewVariableSet(n.vars...),
		MinTime:   n.TimeRequirement(defaultMin, core.Unbounded).Minimal,
	}}
}

// Variables returns the leaf's variable set.
func (n *State) Variables() []core.VariableSet {
	return []core.VariableSet{core.NewVariableSet(n.vars...)}
}

// TimeRequirement returns the defaults: leaves impose no explicit timing.
func (n *State) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return core.RelativeTimeFrame{Minimal: defaultMin, Maximal: defaultMax}
}

// IsSymmetrical reports whether the leaf covers every template variable;
// State applies the same test to each, so any cover is order-free.
func (n *State) IsSymmetrical(all core.VariableSet) bool {
	return core.NewVariableSet(n.vars...).Equal(all)
}

// IsSubset reports informational subsumption against another State.
func (n *State) IsSubset(other Node) bool {
	o, ok := other.(*State)
	if !ok {
		return false
	}

	return core.NewVariableSet(n.vars...).SubsetOf(core.NewVariableSet(o.vars...)) &&
		featureEqual(n.speed, o.speed) &&
		featureEqual(n.direction, o.direction)
}

// Equal reports structural equality.
func (n *State) Equal(other Node) bool {
	o, ok := other.(*State)
	if !ok {
		return false
	}

	return equalVariables(n.vars, o.vars) &&
		ptrEqual(n.speed, o.speed) &&
		ptrEqual(n.direction, o.direction)
}

// Children returns nothing; leaves have no children.
func (n *State) Children() []Node { return nil }

// Name returns the explicit label.
func (n *State) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *State) SetName(name string) { n.name = name }

// leafVariables returns the declared variables in order.
func (n *State) leafVariables() []core.Variable { return n.vars }

// String renders e.g. "(Anna) Stand NotMoving".
func (n *State) String() string {
	if n.name != "" {
		return n.name
	}

	speedStr := ""
	if n.speed != nil {
		speedStr = n.speed.String()
	}
	dirStr := ""
	if n.direction != nil {
		dirStr = n.direction.String()
	}

	return fmt.Sprintf("%s %s %s", variableList(n.vars), speedStr, dirStr)
}
