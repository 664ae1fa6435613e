package behavior

import "github.com/traceq/traceq/core"

// MovingState builds the node matching any of the given speeds (with an
// optional direction): a single State for one speed, a disjunction of
// States otherwise. The query language's "moves" maps to Walk-or-Run this
// way.
func MovingState(vars []core.Variable, speeds []core.Speed, direction *core.Direction) Node {
	stateFor := func(speed core.Speed) *State {
		opts := []StateOption{WithSpeed(speed)}
		if direction != nil {
			opts = append(opts, WithDirection(*direction))
		}

		return NewState(vars, opts...)
	}

	if len(speeds) == 1 {
		return stateFor(speeds[0])
	}

	children := make([]Node, len(speeds))
	for i, speed := range speeds {
		children[i] = stateFor(speed)
	}

	return NewDisjunction(children)
}
