package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/loader"
)

const validDataset = `
agents:
  - id: 1
    blocks:
      - start: 2021-05-01T10:00:00Z
        end: 2021-05-01T10:00:30Z
        speed: Walk
        direction: Straight
      - start: 2021-05-01T10:00:30Z
        end: 2021-05-01T10:01:00Z
        speed: Stand
        direction: NotMoving
  - id: 2
    blocks:
      - start: 2021-05-01T10:00:00Z
        end: 2021-05-01T10:01:00Z
        speed: Run
        direction: Left
pairs:
  - actor: 1
    target: 2
    blocks:
      - start: 2021-05-01T10:00:00Z
        end: 2021-05-01T10:00:30Z
        intended_distance_change: Decreasing
        actual_distance_change: Decreasing
        relative_direction: Straight
        mutual_direction: Opposite
        distance: Near
`

// TestParse_ValidDataset verifies decoding, enum mapping and dictionary
// keys.
func TestParse_ValidDataset(t *testing.T) {
	dataset, err := loader.Parse([]byte(validDataset))
	require.NoError(t, err)

	require.Len(t, dataset.Agents, 2)
	require.Len(t, dataset.Pairs, 1)

	anna := dataset.Agents[1]
	require.Len(t, anna.Blocks, 2)
	assert.Equal(t, core.SpeedWalk, anna.Blocks[0].Speed)
	assert.Equal(t, core.DirectionNotMoving, anna.Blocks[1].Direction)
	assert.Equal(t, 30.0, anna.Blocks[0].Duration().Seconds())

	pair := dataset.Pairs[block.PairKey{Actor: 1, Target: 2}]
	require.NotNil(t, pair)
	assert.Equal(t, core.DistanceNear, pair.Blocks[0].Distance)
	assert.Equal(t, core.MutualOpposite, pair.Blocks[0].MutualDirection)
}

// TestLoad_FromFile verifies the file entry point.
func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDataset), 0o644))

	dataset, err := loader.Load(path)
	require.NoError(t, err)
	assert.Len(t, dataset.Agents, 2)

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestParse_Rejections verifies the validation sentinels.
func TestParse_Rejections(t *testing.T) {
	t.Run("unknown feature label", func(t *testing.T) {
		_, err := loader.Parse([]byte(`
agents:
  - id: 1
    blocks:
      - start: 2021-05-01T10:00:00Z
        end: 2021-05-01T10:00:30Z
        speed: Sprint
        direction: Straight
`))
		assert.ErrorIs(t, err, core.ErrUnknownFeature)
	})

	t.Run("overlapping blocks", func(t *testing.T) {
		_, err := loader.Parse([]byte(`
agents:
  - id: 1
    blocks:
      - start: 2021-05-01T10:00:00Z
        end: 2021-05-01T10:00:30Z
        speed: Walk
        direction: Straight
      - start: 2021-05-01T10:00:20Z
        end: 2021-05-01T10:00:40Z
        speed: Stand
        direction: NotMoving
`))
		assert.ErrorIs(t, err, block.ErrOutOfOrder)
	})

	t.Run("pair referencing unknown agent", func(t *testing.T) {
		_, err := loader.Parse([]byte(`
agents:
  - id: 1
    blocks:
      - start: 2021-05-01T10:00:00Z
        end: 2021-05-01T10:00:30Z
        speed: Walk
        direction: Straight
pairs:
  - actor: 1
    target: 9
    blocks: []
`))
		assert.ErrorIs(t, err, loader.ErrUnknownAgent)
	})

	t.Run("duplicate agent id", func(t *testing.T) {
		_, err := loader.Parse([]byte(`
agents:
  - id: 1
    blocks: []
  - id: 1
    blocks: []
`))
		assert.ErrorIs(t, err, loader.ErrDuplicateAgent)
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := loader.Parse([]byte("{{nope"))
		assert.Error(t, err)
	})
}
