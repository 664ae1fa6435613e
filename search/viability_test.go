package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/search"
)

// timedTemplate builds "A <speed> for at least min" over one variable.
func timedTemplate(t *testing.T, variable core.Variable, speed core.Speed, min time.Duration) *search.Template {
	t.Helper()

	tpl, err := search.NewTemplate(
		behavior.NewTimeRestricting(
			behavior.NewState([]core.Variable{variable}, behavior.WithSpeed(speed)),
			core.AtLeast(min),
		),
		core.DefaultConfig(),
	)
	require.NoError(t, err)

	return tpl
}

// TestViability_RejectsShortPresence verifies assignments whose agents
// cannot cover the stage minimums produce no results (and no evaluation).
func TestViability_RejectsShortPresence(t *testing.T) {
	// Anna is present for 10 s; the template needs 30 s.
	anna := block.NewAgent(1, []block.SingleBlock{single(0, 10, core.SpeedWalk, core.DirectionStraight)})
	tpl := timedTemplate(t, "Anna", core.SpeedWalk, 30*time.Second)

	results, err := tpl.Search(context.Background(), agentsByID(anna), nil, search.DefaultSearchOptions())
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestViability_RequiresJointPresence verifies a two-variable stage demands
// concurrent presence, not just individual coverage.
func TestViability_RequiresJointPresence(t *testing.T) {
	// Anna and Bob never overlap; together they span plenty of time.
	anna := block.NewAgent(1, []block.SingleBlock{single(0, 30, core.SpeedWalk, core.DirectionStraight)})
	bob := block.NewAgent(2, []block.SingleBlock{single(40, 70, core.SpeedWalk, core.DirectionStraight)})

	tpl, err := search.NewTemplate(
		behavior.NewTimeRestricting(
			behavior.NewState([]core.Variable{"A", "B"}, behavior.WithSpeed(core.SpeedWalk)),
			core.AtLeast(10*time.Second),
		),
		core.DefaultConfig(),
	)
	require.NoError(t, err)

	results, err := tpl.Search(context.Background(), agentsByID(anna, bob), nil, search.DefaultSearchOptions())
	require.NoError(t, err)
	assert.Empty(t, results, "disjoint presence can never satisfy a joint stage")
}

// TestViability_GapsAreForgiven verifies the deliberate approximation: an
// agent's presence is its outer span, so intra-agent gaps do not reject the
// assignment (the exact evaluation still scores them).
func TestViability_GapsAreForgiven(t *testing.T) {
	gappy := block.NewAgent(1, []block.SingleBlock{
		single(0, 5, core.SpeedWalk, core.DirectionStraight),
		single(55, 60, core.SpeedWalk, core.DirectionStraight), // 50 s gap
	})
	tpl := timedTemplate(t, "Anna", core.SpeedWalk, 30*time.Second)

	// The viability gate passes (outer span is 60 s); the evaluation then
	// finds no span satisfying the 30 s walk, so the result set is empty —
	// but through the expensive path, not the gate.
	results, err := tpl.Search(context.Background(), agentsByID(gappy), nil, search.DefaultSearchOptions())
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestViability_BoundsEvaluationRange verifies the reported range trims the
// lead-in before the first stage can start. Cora's early solo presence is
// outside any stage that requires both agents.
func TestViability_BoundsEvaluationRange(t *testing.T) {
	cora := block.NewAgent(1, []block.SingleBlock{single(0, 100, core.SpeedWalk, core.DirectionStraight)})
	dan := block.NewAgent(2, []block.SingleBlock{single(80, 100, core.SpeedWalk, core.DirectionStraight)})

	tpl, err := search.NewTemplate(
		behavior.NewState([]core.Variable{"C", "D"}, behavior.WithSpeed(core.SpeedWalk)),
		core.DefaultConfig(),
	)
	require.NoError(t, err)

	results, err := tpl.Search(context.Background(), agentsByID(cora, dan), nil, search.DefaultSearchOptions())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	assert.False(t, best.Timestamps[0].Before(at(80)), "nothing before the joint presence is evaluated")
	assert.Equal(t, core.Certain(20), best.Confidence)
}
