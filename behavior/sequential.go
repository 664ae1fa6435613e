package behavior

import (
	"time"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

// Sequential requires its children to match in chronological order, one
// after another. Building its layer constructs and solves a time graph; the
// result is the graph's contracted layer, so sequences compose under
// further logical or sequential nesting.
type Sequential struct {
	children []Node
	name     string
}

// NewSequential builds a sequential composition of the given children.
func NewSequential(children ...Node) *Sequential {
	return &Sequential{children: children}
}

// BuildGraph computes the children's layers over the windows and assembles
// the time graph. The reference time anchoring stage timestamps is the
// start of the first window.
func (n *Sequential) BuildGraph(vars []core.Variable, windows []block.Window, cfg core.Config) (*timegraph.TimeGraph, error) {
	layers := make([]timegraph.Layer, len(n.children))
	for i, child := range n.children {
		layers[i] = child.BuildLayer(vars, windows, cfg)
	}

	var refTime time.Time
	if len(windows) > 0 {
		refTime = windows[0].Start
	}

	return timegraph.New(layers, windowDurations(windows), refTime, cfg, n.String())
}

// BuildLayer solves the time graph and returns its contracted layer. With
// no windows to stand on the layer is empty, matching nothing.
func (n *Sequential) BuildLayer(vars []core.Variable, windows []block.Window, cfg core.Config) timegraph.Layer {
	graph, err := n.BuildGraph(vars, windows, cfg)
	if err != nil {
		return timegraph.NewContracted(nil, n.String(), nil)
	}

	return graph.Contracted()
}

// SequenceInfo concatenates the children's stage sequences chronologically.
func (n *Sequential) SequenceInfo(defaultMin time.Duration) []SequenceStage {
	var seqInfo []SequenceStage
	for _, child := range n.children {
		seqInfo = append(seqInfo, child.SequenceInfo(defaultMin)...)
	}

	return seqInfo
}

// Variables concatenates the children's variable constraints.
func (n *Sequential) Variables() []core.VariableSet {
	var vars []core.VariableSet
	for _, child := range n.children {
		vars = append(vars, child.Variables()...)
	}

	return vars
}

// TimeRequirement sums the children's bounds: minimal times always add;
// any unbounded child makes the maximum unbounded.
func (n *Sequential) TimeRequirement(defaultMin, defaultMax time.Duration) core.RelativeTimeFrame {
	total := core.RelativeTimeFrame{Minimal: 0, Maximal: 0}
	unboundedMax := false
	for _, child := range n.children {
		childReq := child.TimeRequirement(defaultMin, defaultMax)
		if childReq.Maximal == core.Unbounded {
			unboundedMax = true
		}
		total = total.Add(childReq)
	}
	if unboundedMax {
		total.Maximal = core.Unbounded
	}

	return total
}

// IsSymmetrical holds when every child is symmetrical.
func (n *Sequential) IsSymmetrical(all core.VariableSet) bool {
	for _, child := range n.children {
		if !child.IsSymmetrical(all) {
			return false
		}
	}

	return true
}

// IsSubset is always false for composite nodes.
func (n *Sequential) IsSubset(Node) bool { return false }

// Equal reports structural equality.
func (n *Sequential) Equal(other Node) bool {
	o, ok := other.(*Sequential)

	return ok && equalChildren(n.children, o.children)
}

// Children returns the stages in chronological order.
func (n *Sequential) Children() []Node { return n.children }

// Name returns the explicit label.
func (n *Sequential) Name() string { return n.name }

// SetName attaches an explicit label.
func (n *Sequential) SetName(name string) { n.name = name }

// String renders "(A) THEN (B)".
func (n *Sequential) String() string {
	if n.name != "" {
		return n.name
	}

	return joinChildren(n.children, "THEN")
}
