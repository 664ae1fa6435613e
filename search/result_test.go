package search_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/search"
)

// TestResults_CSVRoundTrip verifies the persisted layout: header columns,
// microsecond timestamps, and value fidelity through write-then-read.
func TestResults_CSVRoundTrip(t *testing.T) {
	seq := behavior.NewSequential(
		behavior.NewState([]core.Variable{"Anna"}, behavior.WithSpeed(core.SpeedWalk)),
		behavior.NewState([]core.Variable{"Bob"}, behavior.WithSpeed(core.SpeedStand)),
	)
	seq.Children()[0].SetName("approach")
	seq.Children()[1].SetName("wait")

	tpl, err := search.NewTemplate(seq, core.DefaultConfig())
	require.NoError(t, err)

	results := []search.Result{
		{
			AgentIDs:   []int{7, 9},
			Timestamps: []time.Time{at(0), at(20), at(55.5)},
			Confidence: core.Confidence{Nom: 50.5, Denom: 55.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, search.WriteResults(&buf, tpl, results))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t,
		"Agent Anna,Agent Bob,Node approach,Node wait,Behavior end,Confidence nom,Confidence denom",
		strings.TrimRight(header, "\r"))
	assert.Contains(t, buf.String(), "2021-05-01 10:00:55.500000")

	read, agentLabels, nodeLabels, err := search.ReadResults(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna", "Bob"}, agentLabels)
	assert.Equal(t, []string{"approach", "wait"}, nodeLabels)
	require.Len(t, read, 1)
	assert.Equal(t, results[0].AgentIDs, read[0].AgentIDs)
	assert.Equal(t, results[0].Confidence, read[0].Confidence)
	require.Len(t, read[0].Timestamps, 3)
	for i := range read[0].Timestamps {
		assert.True(t, read[0].Timestamps[i].Equal(results[0].Timestamps[i]), "timestamp %d", i)
	}
}

// TestReadResults_Malformed verifies the sentinel on broken files.
func TestReadResults_Malformed(t *testing.T) {
	_, _, _, err := search.ReadResults(strings.NewReader(""))
	assert.ErrorIs(t, err, search.ErrBadResultFile)

	broken := "Agent A,Node x,Behavior end,Confidence nom,Confidence denom\nnot-a-number,2021-05-01 10:00:00.000000,2021-05-01 10:00:10.000000,10,10\n"
	_, _, _, err = search.ReadResults(strings.NewReader(broken))
	assert.ErrorIs(t, err, search.ErrBadResultFile)
}
