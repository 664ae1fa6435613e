package query

import (
	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/core"
)

// parseAction parses one action clause: the actor list, optional "must" and
// negation markers, the verb and its complements.
func (p *parser) parseAction() (behavior.Node, error) {
	actors, err := p.parseActors()
	if err != nil {
		return nil, err
	}

	must := p.accept(tokenMust)
	negated := p.accept(tokenNot)

	var node behavior.Node
	switch p.current().kind {
	case tokenStand:
		p.advance()
		node, err = p.parseStandAction(actors)

	case tokenIs:
		p.advance()
		if !negated {
			negated = p.accept(tokenNot)
		}
		node, err = p.parseDistanceAction(actors)

	case tokenWalk, tokenRun, tokenMove:
		node, err = p.parseMovingAction(actors)

	default:
		return nil, p.errorf("expected an action verb, found %q", p.describe(p.current()))
	}
	if err != nil {
		return nil, err
	}

	if negated {
		node = behavior.NewNegation(node)
	}
	if must {
		node = behavior.NewConfidenceRestricting(node)
	}

	return node, nil
}

// parseActors collects "A", "A and B", "A B and C" actor lists.
func (p *parser) parseActors() ([]core.Variable, error) {
	first, err := p.expect(tokenActor, "an actor")
	if err != nil {
		return nil, err
	}

	actors := []core.Variable{core.Variable(first.text)}
	for {
		if p.current().kind == tokenActor {
			actors = append(actors, core.Variable(p.advance().text))

			continue
		}
		if p.current().kind == tokenAnd && p.peek().kind == tokenActor {
			p.advance()
			actors = append(actors, core.Variable(p.advance().text))

			continue
		}

		break
	}

	return actors, nil
}

// parseStandAction handles "stand" with an optional distance complement:
// "A stands", "A stands near B", "A and B stand adjacent to each other".
func (p *parser) parseStandAction(actors []core.Variable) (behavior.Node, error) {
	standing := behavior.NewState(actors, behavior.WithSpeed(core.SpeedStand))

	distance, hasDistance := p.acceptDistance()
	if !hasDistance {
		return standing, nil
	}

	mutualVars, err := p.parseDistanceTarget(actors)
	if err != nil {
		return nil, err
	}

	return behavior.NewConjunction([]behavior.Node{
		standing,
		behavior.NewMutual(mutualVars, behavior.WithDistance(distance)),
	}), nil
}

// parseDistanceAction handles "is near X", "are far from each other".
func (p *parser) parseDistanceAction(actors []core.Variable) (behavior.Node, error) {
	distance, hasDistance := p.acceptDistance()
	if !hasDistance {
		return nil, p.errorf("expected a distance relation, found %q", p.describe(p.current()))
	}

	mutualVars, err := p.parseDistanceTarget(actors)
	if err != nil {
		return nil, err
	}

	return behavior.NewMutual(mutualVars, behavior.WithDistance(distance)), nil
}

// acceptDistance consumes a relative-distance keyword if present.
func (p *parser) acceptDistance() (core.Distance, bool) {
	switch p.current().kind {
	case tokenFar:
		p.advance()

		return core.DistanceFar, true
	case tokenNear:
		p.advance()

		return core.DistanceNear, true
	case tokenAdjacent:
		p.advance()

		return core.DistanceAdjacent, true
	default:
		return 0, false
	}
}

// parseDistanceTarget resolves the complement of a distance relation:
// an explicit actor extends the variable list, "each other" closes it over
// the (at least two) listed actors.
func (p *parser) parseDistanceTarget(actors []core.Variable) ([]core.Variable, error) {
	switch p.current().kind {
	case tokenActor:
		target := core.Variable(p.advance().text)

		return append(append([]core.Variable{}, actors...), target), nil

	case tokenEachOther:
		if len(actors) <= 1 {
			return nil, p.errorf(`multiple actors required in an "each other" action`)
		}
		p.advance()

		return actors, nil

	default:
		return nil, p.errorf(`expected an actor or "each other", found %q`, p.describe(p.current()))
	}
}

// parseMovingAction handles walking, running and moving with the optional
// directional complements.
func (p *parser) parseMovingAction(actors []core.Variable) (behavior.Node, error) {
	var speeds []core.Speed
	switch p.advance().kind {
	case tokenWalk:
		speeds = []core.Speed{core.SpeedWalk}
	case tokenRun:
		speeds = []core.Speed{core.SpeedRun}
	default: // tokenMove
		speeds = []core.Speed{core.SpeedWalk, core.SpeedRun}
	}

	// Absolute direction: "walks straight", "runs to the left of Bob".
	if direction, ok := p.acceptAbsoluteDirection(); ok {
		if p.current().kind != tokenActor {
			return behavior.MovingState(actors, speeds, &direction), nil
		}

		target := core.Variable(p.advance().text)
		children := []behavior.Node{behavior.MovingState(actors, speeds, nil)}
		for _, actor := range actors {
			children = append(children, behavior.NewActorTarget(actor, target,
				behavior.WithRelativeDirection(direction)))
		}

		return behavior.NewConjunction(children), nil
	}

	// Mutual direction: "walk in parallel", "move independently".
	if mutual, ok := p.acceptMutualDirection(); ok {
		if len(actors) <= 1 {
			return nil, p.errorf("multiple actors required in a mutual-direction action")
		}

		return behavior.NewConjunction([]behavior.Node{
			behavior.MovingState(actors, speeds, nil),
			behavior.NewMutual(actors, behavior.WithMutualDirection(mutual)),
		}), nil
	}

	// Relative direction: "towards X", "away from X", "alongside X".
	if change, relDir, ok := p.acceptRelativeDirection(); ok {
		switch p.current().kind {
		case tokenEachOther:
			if len(actors) <= 1 {
				return nil, p.errorf(`multiple actors required in an "each other" action`)
			}
			p.advance()

			return behavior.NewConjunction([]behavior.Node{
				behavior.MovingState(actors, speeds, nil),
				behavior.NewMutual(actors, behavior.WithDistanceChange(change)),
			}), nil

		case tokenActor:
			target := core.Variable(p.advance().text)
			children := []behavior.Node{behavior.MovingState(actors, speeds, nil)}
			for _, actor := range actors {
				opts := []behavior.ActorTargetOption{behavior.WithIntendedChange(change)}
				if relDir != nil {
					opts = append(opts, behavior.WithRelativeDirection(*relDir))
				}
				children = append(children, behavior.NewActorTarget(actor, target, opts...))
			}

			return behavior.NewConjunction(children), nil

		default:
			return nil, p.errorf(`expected an actor or "each other", found %q`, p.describe(p.current()))
		}
	}

	return behavior.MovingState(actors, speeds, nil), nil
}

// acceptAbsoluteDirection consumes an absolute-direction keyword if present.
func (p *parser) acceptAbsoluteDirection() (core.Direction, bool) {
	switch p.current().kind {
	case tokenStraight:
		p.advance()

		return core.DirectionStraight, true
	case tokenLeft:
		p.advance()

		return core.DirectionLeft, true
	case tokenRight:
		p.advance()

		return core.DirectionRight, true
	case tokenOpposite:
		p.advance()

		return core.DirectionOpposite, true
	default:
		return 0, false
	}
}

// acceptMutualDirection consumes a mutual-direction keyword if present.
func (p *parser) acceptMutualDirection() (core.MutualDirection, bool) {
	switch p.current().kind {
	case tokenMutParallel:
		p.advance()

		return core.MutualParallel, true
	case tokenMutIndependent:
		p.advance()

		return core.MutualIndependent, true
	case tokenMutOpposite:
		p.advance()

		return core.MutualOpposite, true
	default:
		return 0, false
	}
}

// acceptRelativeDirection consumes a relative-direction keyword if present,
// returning the implied intended distance change and relative direction:
// towards = (Decreasing, Straight), away from = (Increasing, Opposite),
// alongside = (Constant, none).
func (p *parser) acceptRelativeDirection() (core.DistanceChange, *core.Direction, bool) {
	switch p.current().kind {
	case tokenTowards:
		p.advance()
		straight := core.DirectionStraight

		return core.DistanceDecreasing, &straight, true
	case tokenFrom:
		p.advance()
		opposite := core.DirectionOpposite

		return core.DistanceIncreasing, &opposite, true
	case tokenWith:
		p.advance()

		return core.DistanceConstant, nil, true
	default:
		return 0, nil, false
	}
}
