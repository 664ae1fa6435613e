package behavior

import (
	"fmt"
	"time"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

// ActorTarget is the elementary node matching the asymmetric pair features —
// intended distance change and relative direction — of one ordered
// (actor, target) pair.
type ActorTarget struct {
	vars              []core.Variable // exactly actor, target
	intendedChange    *core.DistanceChange
	relativeDirection *core.Direction
	name              string
}

// ActorTargetOption configures an ActorTarget leaf.
type ActorTargetOption func(*ActorTarget)

// WithIntendedChange sets the expected intended distance change.
func WithIntendedChange(c core.DistanceChange) ActorTargetOption {
	return func(n *ActorTarget) { n.intendedChange = &c }
}

// WithRelativeDirection sets the expected relative direction.
func WithRelativeDirection(d core.Direction) ActorTargetOption {
	return func(n *ActorTarget) { n.relativeDirection = &d }
}

// NewActorTarget builds an ActorTarget leaf over the ordered pair
// (actor, target).
func NewActorTarget(actor, target core.Variable, opts ...ActorTargetOption) *ActorTarget {
	node := &ActorTarget{vars: []core.Variable{actor, target}}
	for _, opt := range opts {
		opt(node)
	}

	return node
}

// BuildLayer evaluates the leaf per window into a dense layer.
func (n *ActorTarget) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	edges := make([]core.Confidence, len(windows))
	for i, w := range windows {
		edges[i] = n.confidence(vars, w, cfg)
	}

	return timegraph.NewDense(edges, n.String())
}

// confidence scores one window for this leaf. A missing pair block yields
// Impartial: absence of pair data neither supports nor prunes.
func (n *ActorTarget) confidence(vars []core.Variable, w block.Window, cfg core.Config) core.Confidence {
	actorIdx := indexOf(vars, n.vars[0])
	targetIdx := indexOf(vars, n.vars[1])
	if actorIdx < 0 || targetIdx < 0 {
		return core.Impartial()
	}

	pair := w.Pairs[actorIdx][targetIdx]
	if pair == nil {
		return core.Impartial()
	}

	var changes []*core.DistanceChange
	if n.intendedChange != nil {
		changes = []*core.DistanceChange{&pair.IntendedDistanceChange}
	}
	var directions []*core.Direction
	if n.relativeDirection != nil {
		directions = []*core.Direction{&pair.RelativeDirection}
	}

	contributing := 0
	if len(changes) > 0 {
		contributing++
	}
	if len(directions) > 0 {
		contributing++
	}

	partials := []core.Confidence{
		partialConfidence(changes, n.intendedChange, cfg.Strategy),
		partialConfidence(directions, n.relativeDirection, cfg.Strategy),
	}

	return combinePartials(partials, contributing, w.Duration, cfg.Strategy)
}

// SequenceInfo returns the leaf's single stage.
func (n *ActorTarget) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return []SequenceStage{{
		Variables: core.NewVariableSet(n.vars...),
		MinTime:   n.TimeRequirement(defaultMin, core.Unbounded).Minimal,
	}}
}

// Variables returns the leaf's variable set.
func (n *ActorTarget) Variables() []core.VariableSet {
	return []core.VariableSet{core.NewVariableSet(n.vars...)}
}

// TimeRequirement returns the defaults: leaves impose no explicit timing.
func (n *ActorTarget) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return core.RelativeTimeFrame{Minimal: defaultMin, Maximal: defaultMax}
}

// IsSymmetrical is always false: actor and target are not interchangeable.
func (n *ActorTarget) IsSymmetrical(core.VariableSet) bool { return false }

// IsSubset reports informational subsumption against another ActorTarget.
func (n *ActorTarget) IsSubset(other Node) bool {
	o, ok := other.(*ActorTarget)
	if !ok {
		return false
	}

	return core.NewVariableSet(n.vars...).SubsetOf(core.NewVariableSet(o.vars...)) &&
		featureEqual(n.intendedChange, o.intendedChange) &&
		featureEqual(n.relativeDirection, o.relativeDirection)
}

// Equal reports structural equality.
func (n *ActorTarget) Equal(other Node) bool {
	o, ok := other.(*ActorTarget)
	if !ok {
		return false
	}

	return equalVariables(n.vars, o.vars) &&
		ptrEqual(n.intendedChange, o.intendedChange) &&
		ptrEqual(n.relativeDirection, o.relativeDirection)
}

// Children returns nothing; leaves have no children.
func (n *ActorTarget) Children() []Node { return nil }

// Name returns the explicit label.
func (n *ActorTarget) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *ActorTarget) SetName(name string) { n.name = name }

// leafVariables returns actor then target.
func (n *ActorTarget) leafVariables() []core.Variable { return n.vars }

// String renders e.g. "Anna Decreasing DISTANCE, Straight W.R.T. Bob".
func (n *ActorTarget) String() string {
	if n.name != "" {
		return n.name
	}

	distStr := ""
	if n.intendedChange != nil {
		distStr = n.intendedChange.String()
	}
	dirStr := ""
	if n.relativeDirection != nil {
		dirStr = n.relativeDirection.String()
	}

	return fmt.Sprintf("%s %s DISTANCE, %s W.R.T. %s", n.vars[0], distStr, dirStr, n.vars[1])
}

// Mutual is the elementary node matching the symmetric pair features —
// actual distance change, mutual direction and distance — over every
// ordered pair among its variables, falling back to the transposed matrix
// entry when the forward entry is absent.
type Mutual struct {
	vars            []core.Variable
	distanceChange  *core.DistanceChange
	mutualDirection *core.MutualDirection
	distance        *core.Distance
	name            string
}

// MutualOption configures a Mutual leaf.
type MutualOption func(*Mutual)

// WithDistanceChange sets the expected actual distance change.
func WithDistanceChange(c core.DistanceChange) MutualOption {
	return func(n *Mutual) { n.distanceChange = &c }
}

// WithMutualDirection sets the expected mutual direction.
func WithMutualDirection(d core.MutualDirection) MutualOption {
	return func(n *Mutual) { n.mutualDirection = &d }
}

// WithDistance sets the expected coarse distance.
func WithDistance(d core.Distance) MutualOption {
	return func(n *Mutual) { n.distance = &d }
}

// NewMutual builds a Mutual leaf over the given agent variables.
func NewMutual(vars []core.Variable, opts ...MutualOption) *Mutual {
	node := &Mutual{vars: vars}
	for _, opt := range opts {
		opt(node)
	}

	return node
}

// BuildLayer evaluates the leaf per window into a dense layer.
func (n *Mutual) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	edges := make([]core.Confidence, len(windows))
	for i, w := range windows {
		edges[i] = n.confidence(vars, w, cfg)
	}

	return timegraph.NewDense(edges, n.String())
}

// confidence scores one window for this leaf over every off-diagonal pair
// entry between its variables.
func (n *Mutual) confidence(vars []core.Variable, w block.Window, cfg core.Config) core.Confidence {
	mine := core.NewVariableSet(n.vars...)
	used := make([]bool, len(vars))
	for k, v := range vars {
		used[k] = mine.Contains(v)
	}

	var pairBlocks []*block.PairBlock
	for i := range w.Pairs {
		if i >= len(used) || !used[i] {
			continue
		}
		for j := range w.Pairs[i] {
			if i == j || j >= len(used) || !used[j] {
				continue
			}
			b := w.Pairs[i][j]
			if b == nil {
				b = w.Pairs[j][i]
			}
			pairBlocks = append(pairBlocks, b)
		}
	}

	var changes []*core.DistanceChange
	if n.distanceChange != nil {
		changes = make([]*core.DistanceChange, len(pairBlocks))
		for i, b := range pairBlocks {
			if b != nil {
				changes[i] = &b.ActualDistanceChange
			}
		}
	}
	var mutuals []*core.MutualDirection
	if n.mutualDirection != nil {
		mutuals = make([]*core.MutualDirection, len(pairBlocks))
		for i, b := range pairBlocks {
			if b != nil {
				mutuals[i] = &b.MutualDirection
			}
		}
	}
	var distances []*core.Distance
	if n.distance != nil {
		distances = make([]*core.Distance, len(pairBlocks))
		for i, b := range pairBlocks {
			if b != nil {
				distances[i] = &b.Distance
			}
		}
	}

	contributing := 0
	if n.distanceChange != nil {
		contributing++
	}
	if n.mutualDirection != nil {
		contributing++
	}
	if n.distance != nil {
		contributing++
	}
	if contributing == 0 {
		return core.Impartial()
	}

	partials := []core.Confidence{
		partialConfidence(changes, n.distanceChange, cfg.Strategy),
		partialConfidence(mutuals, n.mutualDirection, cfg.Strategy),
		partialConfidence(distances, n.distance, cfg.Strategy),
	}

	return combinePartials(partials, contributing, w.Duration, cfg.Strategy)
}

// SequenceInfo returns the leaf's single stage.
func (n *Mutual) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	return []SequenceStage{{
		Variables: core.NewVariableSet(n.vars...),
		MinTime:   n.TimeRequirement(defaultMin, core.Unbounded).Minimal,
	}}
}

// Variables returns the leaf's variable set.
func (n *Mutual) Variables() []core.VariableSet {
	return []core.VariableSet{core.NewVariableSet(n.vars...)}
}

// TimeRequirement returns the defaults: leaves impose no explicit timing.
func (n *Mutual) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	return core.RelativeTimeFrame{Minimal: defaultMin, Maximal: defaultMax}
}

// IsSymmetrical reports whether the leaf covers every template variable;
// Mutual features are symmetric by construction.
func (n *Mutual) IsSymmetrical(all core.VariableSet) bool {
	return core.NewVariableSet(n.vars...).Equal(all)
}

// IsSubset reports informational subsumption against another Mutual.
func (n *Mutual) IsSubset(other Node) bool {
	o, ok := other.(*Mutual)
	if !ok {
		return false
	}

	return core.NewVariableSet(n.vars...).SubsetOf(core.NewVariableSet(o.vars...)) &&
		featureEqual(n.distanceChange, o.distanceChange) &&
		featureEqual(n.mutualDirection, o.mutualDirection) &&
		featureEqual(n.distance, o.distance)
}

// Equal reports structural equality.
func (n *Mutual) Equal(other Node) bool {
	o, ok := other.(*Mutual)
	if !ok {
		return false
	}

	return equalVariables(n.vars, o.vars) &&
		ptrEqual(n.distanceChange, o.distanceChange) &&
		ptrEqual(n.mutualDirection, o.mutualDirection) &&
		ptrEqual(n.distance, o.distance)
}

// Children returns nothing; leaves have no children.
func (n *Mutual) Children() []Node { return nil }

// Name returns the explicit label.
func (n *Mutual) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *Mutual) SetName(name string) { n.name = name }

// leafVariables returns the declared variables in order.
func (n *Mutual) leafVariables() []core.Variable { return n.vars }

// String renders e.g. "(Anna, Bob) ORIENTED Decreasing, Opposite DISTANCE, Near".
func (n *Mutual) String() string {
	if n.name != "" {
		return n.name
	}

	changeStr := ""
	if n.distanceChange != nil {
		changeStr = fmt.Sprintf("ORIENTED %s,", n.distanceChange)
	}
	mutualStr := ""
	if n.mutualDirection != nil {
		mutualStr = fmt.Sprintf("%s DISTANCE,", n.mutualDirection)
	}
	distStr := ""
	if n.distance != nil {
		distStr = n.distance.String()
	}

	return fmt.Sprintf("%s %s %s %s", variableList(n.vars), changeStr, mutualStr, distStr)
}
