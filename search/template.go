// Package search: the behavior template wrapping an optimized tree.
package search

import (
	"errors"
	"time"

	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/core"
)

// DefaultSequenceMin is the fallback minimal stage duration used when a
// stage carries no explicit time requirement.
const DefaultSequenceMin = 3 * time.Second

// ErrNoVariables indicates a behavior tree without any agent variables;
// there is nothing to assign agents to.
var ErrNoVariables = errors.New("search: behavior tree references no variables")

// Template is a search-ready behavioral pattern: the optimized tree (root
// forced sequential), its variables in stable first-appearance order, and
// the precomputed stage constraints the viability check consumes.
type Template struct {
	// Root is the optimized tree; always sequential.
	Root *behavior.Sequential

	// Variables lists the template's agent variables; assignments map
	// concrete agents onto these positions.
	Variables []core.Variable

	cfg core.Config

	// stageVars and stageTimes are the parallel stage constraint lists:
	// which variables must be present, for how long at minimum.
	stageVars  []core.VariableSet
	stageTimes []time.Duration
}

// NewTemplate optimizes the tree, wraps it sequentially if needed, and
// precomputes the search metadata.
func NewTemplate(root behavior.Node, cfg core.Config) (*Template, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The root must be sequential so evaluation always goes through a time
	// graph; a bare tree becomes a one-stage sequence.
	if _, ok := root.(*behavior.Sequential); !ok {
		wrapped := behavior.NewSequential(root)
		wrapped.SetName(root.Name())
		root = wrapped
	}

	optimized := behavior.Optimize(root)
	seq, ok := optimized.(*behavior.Sequential)
	if !ok {
		seq = behavior.NewSequential(optimized)
	}

	stages := seq.SequenceInfo(DefaultSequenceMin)
	stageVars := make([]core.VariableSet, len(stages))
	stageTimes := make([]time.Duration, len(stages))
	for i, stage := range stages {
		stageVars[i] = stage.Variables
		stageTimes[i] = stage.MinTime
	}

	variables := behavior.LeafVariables(seq)
	if len(variables) == 0 {
		return nil, ErrNoVariables
	}

	return &Template{
		Root:       seq,
		Variables:  variables,
		cfg:        cfg,
		stageVars:  stageVars,
		stageTimes: stageTimes,
	}, nil
}

// Config returns the template's engine configuration.
func (t *Template) Config() core.Config { return t.cfg }

// Symmetrical reports whether every variable of the template is
// interchangeable, allowing the search to enumerate combinations instead of
// permutations.
func (t *Template) Symmetrical() bool {
	return t.Root.IsSymmetrical(core.NewVariableSet(t.Variables...))
}

// variableIndexes resolves a variable set to positions in t.Variables.
func (t *Template) variableIndexes(vars core.VariableSet) []int {
	indexes := make([]int, 0, len(vars))
	for i, v := range t.Variables {
		if vars.Contains(v) {
			indexes = append(indexes, i)
		}
	}

	return indexes
}
