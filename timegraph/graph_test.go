package timegraph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/timegraph"
)

var graphBase = time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC)

// tenSeconds builds n equal 10-second window durations.
func tenSeconds(n int) []time.Duration {
	durations := make([]time.Duration, n)
	for i := range durations {
		durations[i] = 10 * time.Second
	}

	return durations
}

// certainEdges builds a dense layer of fully matched 10-second windows.
func certainEdges(n int) *timegraph.Dense {
	edges := make([]core.Confidence, n)
	for i := range edges {
		edges[i] = core.Certain(10)
	}

	return timegraph.NewDense(edges, "certain")
}

// TestTimeGraph_Validation verifies construction rejects bad input.
func TestTimeGraph_Validation(t *testing.T) {
	_, err := timegraph.New(nil, tenSeconds(2), graphBase, core.DefaultConfig(), "g")
	assert.ErrorIs(t, err, timegraph.ErrNoLayers)

	bad := core.DefaultConfig()
	bad.MaxMemory = 0
	_, err = timegraph.New([]timegraph.Layer{certainEdges(2)}, tenSeconds(2), graphBase, bad, "g")
	assert.ErrorIs(t, err, core.ErrBadMaxMemory)
}

// TestTimeGraph_SingleLayerBestPath verifies the DP finds the full-range
// path on a perfectly matching single-stage graph and converts vertices to
// wall-clock timestamps via the timetable.
func TestTimeGraph_SingleLayerBestPath(t *testing.T) {
	graph, err := timegraph.New(
		[]timegraph.Layer{certainEdges(3)},
		tenSeconds(3), graphBase, core.DefaultConfig(), "g",
	)
	require.NoError(t, err)

	best := graph.BestPaths(1)
	require.Len(t, best, 1)

	assert.Equal(t, core.Certain(30), best[0].Confidence, "the longest certain span wins")
	require.Len(t, best[0].Times, 2, "one stage start plus the final end")
	assert.Equal(t, graphBase, best[0].Times[0])
	assert.Equal(t, graphBase.Add(30*time.Second), best[0].Times[1])
}

// TestTimeGraph_TwoStagePath verifies a two-layer graph splits the range at
// the boundary where the better combination lies.
func TestTimeGraph_TwoStagePath(t *testing.T) {
	// Stage 1 matches only the first two windows, stage 2 only the last two.
	stage1 := timegraph.NewDense([]core.Confidence{
		core.Certain(10), core.Certain(10), {Nom: 0, Denom: 10}, {Nom: 0, Denom: 10},
	}, "stage1")
	stage2 := timegraph.NewDense([]core.Confidence{
		{Nom: 0, Denom: 10}, {Nom: 0, Denom: 10}, core.Certain(10), core.Certain(10),
	}, "stage2")

	graph, err := timegraph.New(
		[]timegraph.Layer{stage1, stage2},
		tenSeconds(4), graphBase, core.DefaultConfig(), "g",
	)
	require.NoError(t, err)

	best := graph.BestPaths(1)
	require.Len(t, best, 1)

	assert.Equal(t, core.Certain(40), best[0].Confidence)
	require.Len(t, best[0].Times, 3)
	assert.Equal(t, graphBase, best[0].Times[0], "stage 1 starts at the range start")
	assert.Equal(t, graphBase.Add(20*time.Second), best[0].Times[1], "stage 2 starts at the midpoint")
	assert.Equal(t, graphBase.Add(40*time.Second), best[0].Times[2])
}

// TestTimeGraph_PruningBelowMinConfidence verifies steps under the
// conformity threshold never enter the DP.
func TestTimeGraph_PruningBelowMinConfidence(t *testing.T) {
	weak := timegraph.NewDense([]core.Confidence{{Nom: 3, Denom: 10}}, "weak")

	graph, err := timegraph.New([]timegraph.Layer{weak}, tenSeconds(1), graphBase, core.DefaultConfig(), "g")
	require.NoError(t, err)

	assert.Empty(t, graph.BestPaths(0), "a 30 % match cannot form any path at a 65 % threshold")
}

// TestTimeGraph_BoundedMemory verifies each vertex keeps at most MaxMemory
// incoming paths.
func TestTimeGraph_BoundedMemory(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.MaxMemory = 1

	graph, err := timegraph.New([]timegraph.Layer{certainEdges(4)}, tenSeconds(4), graphBase, cfg, "g")
	require.NoError(t, err)

	paths := graph.BestPaths(0)
	require.NotEmpty(t, paths)

	// With one slot per vertex, every end boundary reports exactly one path;
	// spans ending at the last boundary keep only the longest.
	seen := make(map[time.Time]int)
	for _, p := range paths {
		seen[p.Times[len(p.Times)-1]]++
	}
	for end, count := range seen {
		assert.Equal(t, 1, count, "end %v must hold a single path", end)
	}

	assert.Equal(t, core.Certain(40), paths[0].Confidence, "the longest certain path still ranks first")
}

// TestTimeGraph_ContractedComposes verifies the contracted view answers
// exactly the stored endpoint spans, making the graph reusable as a layer.
func TestTimeGraph_ContractedComposes(t *testing.T) {
	graph, err := timegraph.New([]timegraph.Layer{certainEdges(2)}, tenSeconds(2), graphBase, core.DefaultConfig(), "g")
	require.NoError(t, err)

	contracted := graph.Contracted()

	assert.Equal(t, core.Certain(20), contracted.At(0, 2))
	assert.Equal(t, core.Certain(10), contracted.At(0, 1))
	assert.Equal(t, core.Certain(10), contracted.At(1, 2))
	assert.Equal(t, core.Impartial(), contracted.At(2, 0), "reversed spans are unknown")
}
