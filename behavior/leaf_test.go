package behavior_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
)

var leafBase = time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC)

// at converts seconds-from-base into an absolute instant.
func at(seconds float64) time.Time {
	return leafBase.Add(time.Duration(seconds * float64(time.Second)))
}

// single builds a feature-labelled block over [from, to) seconds.
func single(from, to float64, speed core.Speed, dir core.Direction) *block.SingleBlock {
	return &block.SingleBlock{Start: at(from), End: at(to), Speed: speed, Direction: dir}
}

// pair builds a pair block over [from, to) seconds.
func pair(from, to float64, intended core.DistanceChange, relDir core.Direction,
	actual core.DistanceChange, mutual core.MutualDirection, dist core.Distance) *block.PairBlock {
	return &block.PairBlock{
		Start: at(from), End: at(to),
		IntendedDistanceChange: intended,
		ActualDistanceChange:   actual,
		RelativeDirection:      relDir,
		MutualDirection:        mutual,
		Distance:               dist,
	}
}

// window assembles a Window over [from, to) seconds. pairs may be nil for an
// all-empty matrix sized to the singles.
func window(from, to float64, singles []*block.SingleBlock, pairs [][]*block.PairBlock) block.Window {
	if pairs == nil {
		pairs = make([][]*block.PairBlock, len(singles))
		for i := range pairs {
			pairs[i] = make([]*block.PairBlock, len(singles))
		}
	}

	return block.Window{
		Start:    at(from),
		End:      at(to),
		Singles:  singles,
		Pairs:    pairs,
		Duration: at(to).Sub(at(from)),
	}
}

// avgConfig / minConfig return configurations pinned to one strategy.
func avgConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.Strategy = core.StrategyAvg

	return cfg
}

func minConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.Strategy = core.StrategyMin

	return cfg
}

var twoVars = []core.Variable{"Anna", "Bob"}

// TestState_AvgStrategy verifies the AVG leaf formula: per-feature accuracy
// averaged over contributing features, scaled by the window seconds.
func TestState_AvgStrategy(t *testing.T) {
	windows := []block.Window{window(0, 10, []*block.SingleBlock{
		single(0, 10, core.SpeedWalk, core.DirectionStraight),
		single(0, 10, core.SpeedStand, core.DirectionNotMoving),
	}, nil)}

	t.Run("full match over one agent", func(t *testing.T) {
		leaf := behavior.NewState([]core.Variable{"Anna"}, behavior.WithSpeed(core.SpeedWalk))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Certain(10), layer.At(0, 1))
	})

	t.Run("half the agents match", func(t *testing.T) {
		leaf := behavior.NewState(twoVars, behavior.WithSpeed(core.SpeedWalk))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Confidence{Nom: 5, Denom: 10}, layer.At(0, 1))
	})

	t.Run("both features average", func(t *testing.T) {
		leaf := behavior.NewState([]core.Variable{"Anna"},
			behavior.WithSpeed(core.SpeedWalk), behavior.WithDirection(core.DirectionLeft))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		// Speed matches (1,1), direction does not (0,1); averaged over 2.
		assert.Equal(t, core.Confidence{Nom: 5, Denom: 10}, layer.At(0, 1))
	})

	t.Run("no expected features is impartial", func(t *testing.T) {
		leaf := behavior.NewState([]core.Variable{"Anna"})
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Impartial(), layer.At(0, 1))
	})
}

// TestState_MinStrategy verifies the MIN leaf formula: all-or-nothing per
// feature, the least conforming feature wins.
func TestState_MinStrategy(t *testing.T) {
	windows := []block.Window{window(0, 10, []*block.SingleBlock{
		single(0, 10, core.SpeedWalk, core.DirectionStraight),
		single(0, 10, core.SpeedStand, core.DirectionNotMoving),
	}, nil)}

	t.Run("any mismatch zeroes the feature", func(t *testing.T) {
		leaf := behavior.NewState(twoVars, behavior.WithSpeed(core.SpeedWalk))
		layer := leaf.BuildLayer(twoVars, windows, minConfig())
		assert.Equal(t, core.Confidence{Nom: 0, Denom: 10}, layer.At(0, 1))
	})

	t.Run("matching feature loses to mismatching one", func(t *testing.T) {
		leaf := behavior.NewState([]core.Variable{"Anna"},
			behavior.WithSpeed(core.SpeedWalk), behavior.WithDirection(core.DirectionRight))
		layer := leaf.BuildLayer(twoVars, windows, minConfig())
		assert.Equal(t, core.Confidence{Nom: 0, Denom: 10}, layer.At(0, 1))
	})

	t.Run("all features matching stays certain", func(t *testing.T) {
		leaf := behavior.NewState([]core.Variable{"Anna"},
			behavior.WithSpeed(core.SpeedWalk), behavior.WithDirection(core.DirectionStraight))
		layer := leaf.BuildLayer(twoVars, windows, minConfig())
		assert.Equal(t, core.Certain(10), layer.At(0, 1))
	})
}

// TestState_AbsentAgent verifies an absent block counts as a mismatch, not
// as missing evidence.
func TestState_AbsentAgent(t *testing.T) {
	windows := []block.Window{window(0, 10, []*block.SingleBlock{
		single(0, 10, core.SpeedWalk, core.DirectionStraight),
		nil, // Bob has no block here
	}, nil)}

	leaf := behavior.NewState(twoVars, behavior.WithSpeed(core.SpeedWalk))
	layer := leaf.BuildLayer(twoVars, windows, avgConfig())
	assert.Equal(t, core.Confidence{Nom: 5, Denom: 10}, layer.At(0, 1))
}

// TestState_DenseAccumulation verifies the leaf layer sums across windows.
func TestState_DenseAccumulation(t *testing.T) {
	windows := []block.Window{
		window(0, 10, []*block.SingleBlock{single(0, 10, core.SpeedWalk, core.DirectionStraight)}, nil),
		window(10, 15, []*block.SingleBlock{single(10, 15, core.SpeedStand, core.DirectionNotMoving)}, nil),
	}

	leaf := behavior.NewState([]core.Variable{"Anna"}, behavior.WithSpeed(core.SpeedWalk))
	layer := leaf.BuildLayer([]core.Variable{"Anna"}, windows, avgConfig())

	assert.Equal(t, core.Certain(10), layer.At(0, 1))
	assert.Equal(t, core.Confidence{Nom: 0, Denom: 5}, layer.At(1, 2))
	assert.Equal(t, core.Confidence{Nom: 10, Denom: 15}, layer.At(0, 2), "spans sum pairwise")
}

// TestActorTarget verifies the asymmetric pair leaf, including the missing
// pair-block fallback to Impartial.
func TestActorTarget(t *testing.T) {
	towards := pair(0, 10, core.DistanceDecreasing, core.DirectionStraight,
		core.DistanceDecreasing, core.MutualOpposite, core.DistanceNear)
	matrix := [][]*block.PairBlock{
		{nil, towards},
		{nil, nil},
	}
	windows := []block.Window{window(0, 10, []*block.SingleBlock{
		single(0, 10, core.SpeedWalk, core.DirectionStraight),
		single(0, 10, core.SpeedWalk, core.DirectionStraight),
	}, matrix)}

	t.Run("forward pair matches", func(t *testing.T) {
		leaf := behavior.NewActorTarget("Anna", "Bob",
			behavior.WithIntendedChange(core.DistanceDecreasing),
			behavior.WithRelativeDirection(core.DirectionStraight))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Certain(10), layer.At(0, 1))
	})

	t.Run("one of two features matches", func(t *testing.T) {
		leaf := behavior.NewActorTarget("Anna", "Bob",
			behavior.WithIntendedChange(core.DistanceIncreasing),
			behavior.WithRelativeDirection(core.DirectionStraight))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Confidence{Nom: 5, Denom: 10}, layer.At(0, 1))
	})

	t.Run("missing pair block is impartial", func(t *testing.T) {
		leaf := behavior.NewActorTarget("Bob", "Anna",
			behavior.WithIntendedChange(core.DistanceDecreasing))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Impartial(), layer.At(0, 1), "the reverse entry is empty and never falls back")
	})

	t.Run("asymmetric leaves are never symmetrical", func(t *testing.T) {
		leaf := behavior.NewActorTarget("Anna", "Bob")
		assert.False(t, leaf.IsSymmetrical(core.NewVariableSet("Anna", "Bob")))
	})
}

// TestMutual verifies the symmetric pair leaf: transposed-entry fallback and
// restriction to the leaf's own variables.
func TestMutual(t *testing.T) {
	near := pair(0, 10, core.DistanceDecreasing, core.DirectionStraight,
		core.DistanceDecreasing, core.MutualOpposite, core.DistanceNear)

	t.Run("reads both matrix orientations", func(t *testing.T) {
		matrix := [][]*block.PairBlock{
			{nil, near},
			{nil, nil}, // reverse entry missing: falls back to (0,1)
		}
		windows := []block.Window{window(0, 10, []*block.SingleBlock{
			single(0, 10, core.SpeedRun, core.DirectionStraight),
			single(0, 10, core.SpeedRun, core.DirectionStraight),
		}, matrix)}

		leaf := behavior.NewMutual(twoVars, behavior.WithDistance(core.DistanceNear))
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		assert.Equal(t, core.Certain(10), layer.At(0, 1),
			"both ordered pairs resolve to the same block via the transposed fallback")
	})

	t.Run("ignores pairs outside its variables", func(t *testing.T) {
		far := pair(0, 10, core.DistanceConstant, core.DirectionStraight,
			core.DistanceConstant, core.MutualParallel, core.DistanceFar)
		threeVars := []core.Variable{"Anna", "Bob", "Cora"}
		matrix := [][]*block.PairBlock{
			{nil, near, far},
			{nil, nil, nil},
			{far, nil, nil},
		}
		windows := []block.Window{window(0, 10, []*block.SingleBlock{
			single(0, 10, core.SpeedRun, core.DirectionStraight),
			single(0, 10, core.SpeedRun, core.DirectionStraight),
			single(0, 10, core.SpeedWalk, core.DirectionStraight),
		}, matrix)}

		leaf := behavior.NewMutual(twoVars, behavior.WithDistance(core.DistanceNear))
		layer := leaf.BuildLayer(threeVars, windows, avgConfig())
		assert.Equal(t, core.Certain(10), layer.At(0, 1),
			"Cora's Far pairs must not dilute the Anna–Bob confidence")
	})

	t.Run("multiple features average", func(t *testing.T) {
		matrix := [][]*block.PairBlock{
			{nil, near},
			{nil, nil},
		}
		windows := []block.Window{window(0, 10, []*block.SingleBlock{
			single(0, 10, core.SpeedRun, core.DirectionStraight),
			single(0, 10, core.SpeedRun, core.DirectionStraight),
		}, matrix)}

		leaf := behavior.NewMutual(twoVars,
			behavior.WithDistanceChange(core.DistanceDecreasing), // matches
			behavior.WithMutualDirection(core.MutualParallel),    // does not
			behavior.WithDistance(core.DistanceNear))             // matches
		layer := leaf.BuildLayer(twoVars, windows, avgConfig())
		third := 2.0 / 3.0
		assert.InDelta(t, third*10, layer.At(0, 1).Nom, 1e-9)
		assert.InDelta(t, 10, layer.At(0, 1).Denom, 1e-9)
	})
}

// TestLeaf_Subsumption verifies the informational-subset relation driving
// optimizer rule 6.
func TestLeaf_Subsumption(t *testing.T) {
	walk := behavior.NewState([]core.Variable{"Anna"}, behavior.WithSpeed(core.SpeedWalk))
	walkStraight := behavior.NewState([]core.Variable{"Anna"},
		behavior.WithSpeed(core.SpeedWalk), behavior.WithDirection(core.DirectionStraight))
	run := behavior.NewState([]core.Variable{"Anna"}, behavior.WithSpeed(core.SpeedRun))

	assert.True(t, walk.IsSubset(walkStraight), "fewer expectations carry less information")
	assert.False(t, walkStraight.IsSubset(walk))
	assert.False(t, walk.IsSubset(run), "differing expectations never subsume")
	assert.False(t, walk.IsSubset(behavior.NewMutual([]core.Variable{"Anna"})), "different variants never subsume")
}

// TestLeaf_Metadata verifies sequence info, time requirements and symmetry.
func TestLeaf_Metadata(t *testing.T) {
	leaf := behavior.NewState(twoVars, behavior.WithSpeed(core.SpeedRun))

	stages := leaf.SequenceInfo(3 * time.Second)
	assert.Len(t, stages, 1)
	assert.True(t, stages[0].Variables.Equal(core.NewVariableSet("Anna", "Bob")))
	assert.Equal(t, 3*time.Second, stages[0].MinTime)

	req := leaf.TimeRequirement(2*time.Second, core.Unbounded)
	assert.Equal(t, core.AtLeast(2*time.Second), req)

	assert.True(t, leaf.IsSymmetrical(core.NewVariableSet("Anna", "Bob")))
	assert.False(t, leaf.IsSymmetrical(core.NewVariableSet("Anna", "Bob", "Cora")))
}
