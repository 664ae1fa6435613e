// Package loader: YAML dataset loading and validation.
package loader

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
)

// Sentinel errors for dataset loading.
var (
	// ErrDuplicateAgent indicates two agents sharing an id.
	ErrDuplicateAgent = errors.New("loader: duplicate agent id")

	// ErrDuplicatePair indicates two pairs sharing an (actor, target) key.
	ErrDuplicatePair = errors.New("loader: duplicate pair")

	// ErrUnknownAgent indicates a pair referencing an id no agent carries.
	ErrUnknownAgent = errors.New("loader: pair references unknown agent")
)

// Dataset holds the loaded dictionaries the search consumes.
type Dataset struct {
	Agents map[int]*block.Agent
	Pairs  map[block.PairKey]*block.AgentPair
}

// singleBlockDoc mirrors one single-agent block in the file.
type singleBlockDoc struct {
	Start     time.Time `yaml:"start"`
	End       time.Time `yaml:"end"`
	Speed     string    `yaml:"speed"`
	Direction string    `yaml:"direction"`
}

// agentDoc mirrors one agent entry in the file.
type agentDoc struct {
	ID     int              `yaml:"id"`
	Blocks []singleBlockDoc `yaml:"blocks"`
}

// pairBlockDoc mirrors one pair block in the file.
type pairBlockDoc struct {
	Start                  time.Time `yaml:"start"`
	End                    time.Time `yaml:"end"`
	IntendedDistanceChange string    `yaml:"intended_distance_change"`
	ActualDistanceChange   string    `yaml:"actual_distance_change"`
	RelativeDirection      string    `yaml:"relative_direction"`
	MutualDirection        string    `yaml:"mutual_direction"`
	Distance               string    `yaml:"distance"`
}

// pairDoc mirrors one pair entry in the file.
type pairDoc struct {
	Actor  int            `yaml:"actor"`
	Target int            `yaml:"target"`
	Blocks []pairBlockDoc `yaml:"blocks"`
}

// datasetDoc mirrors the whole file.
type datasetDoc struct {
	Agents []agentDoc `yaml:"agents"`
	Pairs  []pairDoc  `yaml:"pairs"`
}

// Load reads and validates a dataset file.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading dataset: %w", err)
	}

	return Parse(raw)
}

// Parse decodes and validates dataset YAML.
func Parse(raw []byte) (*Dataset, error) {
	var doc datasetDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("loader: decoding dataset: %w", err)
	}

	dataset := &Dataset{
		Agents: make(map[int]*block.Agent, len(doc.Agents)),
		Pairs:  make(map[block.PairKey]*block.AgentPair, len(doc.Pairs)),
	}

	for _, entry := range doc.Agents {
		if _, exists := dataset.Agents[entry.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateAgent, entry.ID)
		}

		blocks := make([]block.SingleBlock, len(entry.Blocks))
		for i, b := range entry.Blocks {
			speed, err := core.ParseSpeed(b.Speed)
			if err != nil {
				return nil, fmt.Errorf("loader: agent %d block %d: %w", entry.ID, i, err)
			}
			direction, err := core.ParseDirection(b.Direction)
			if err != nil {
				return nil, fmt.Errorf("loader: agent %d block %d: %w", entry.ID, i, err)
			}
			blocks[i] = block.SingleBlock{Start: b.Start, End: b.End, Speed: speed, Direction: direction}
		}

		agent := block.NewAgent(entry.ID, blocks)
		if err := agent.Validate(); err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		dataset.Agents[entry.ID] = agent
	}

	for _, entry := range doc.Pairs {
		key := block.PairKey{Actor: entry.Actor, Target: entry.Target}
		if _, exists := dataset.Pairs[key]; exists {
			return nil, fmt.Errorf("%w: (%d, %d)", ErrDuplicatePair, entry.Actor, entry.Target)
		}
		if _, ok := dataset.Agents[entry.Actor]; !ok {
			return nil, fmt.Errorf("%w: actor %d", ErrUnknownAgent, entry.Actor)
		}
		if _, ok := dataset.Agents[entry.Target]; !ok {
			return nil, fmt.Errorf("%w: target %d", ErrUnknownAgent, entry.Target)
		}

		blocks := make([]block.PairBlock, len(entry.Blocks))
		for i, b := range entry.Blocks {
			parsed, err := parsePairBlock(b)
			if err != nil {
				return nil, fmt.Errorf("loader: pair (%d, %d) block %d: %w", entry.Actor, entry.Target, i, err)
			}
			blocks[i] = parsed
		}

		pair := block.NewAgentPair(entry.Actor, entry.Target, blocks)
		if err := pair.Validate(); err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		dataset.Pairs[key] = pair
	}

	return dataset, nil
}

// parsePairBlock converts one YAML pair block into the engine type.
func parsePairBlock(b pairBlockDoc) (block.PairBlock, error) {
	intended, err := core.ParseDistanceChange(b.IntendedDistanceChange)
	if err != nil {
		return block.PairBlock{}, err
	}
	actual, err := core.ParseDistanceChange(b.ActualDistanceChange)
	if err != nil {
		return block.PairBlock{}, err
	}
	relative, err := core.ParseDirection(b.RelativeDirection)
	if err != nil {
		return block.PairBlock{}, err
	}
	mutual, err := core.ParseMutualDirection(b.MutualDirection)
	if err != nil {
		return block.PairBlock{}, err
	}
	distance, err := core.ParseDistance(b.Distance)
	if err != nil {
		return block.PairBlock{}, err
	}

	return block.PairBlock{
		Start:                  b.Start,
		End:                    b.End,
		IntendedDistanceChange: intended,
		ActualDistanceChange:   actual,
		RelativeDirection:      relative,
		MutualDirection:        mutual,
		Distance:               distance,
	}, nil
}
