package query

import (
	"fmt"
	"strconv"
	"time"

	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/core"
)

// Operator precedence, loose to tight. Labels bind tighter than THEN but
// looser than OR, so "[meet] A and B then C" labels the conjunction only.
const (
	precThen = iota + 1
	precLabel
	precOr
	precAnd
	precNot
)

// Parse converts a textual query into a behavior tree. Malformed input is
// rejected with a *QueryError carrying the offending token position.
func Parse(input string) (behavior.Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	node, err := p.parseBehavior(0)
	if err != nil {
		return nil, err
	}
	if p.current().kind != tokenEOF {
		return nil, p.errorf("unexpected token %q", p.describe(p.current()))
	}

	return node, nil
}

// parser is a recursive-descent, precedence-climbing parser over the token
// stream.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) current() token { return p.tokens[p.pos] }

func (p *parser) peek() token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) accept(kind tokenKind) bool {
	if p.current().kind == kind {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.current().kind != kind {
		return token{}, p.errorf("expected %s, found %q", what, p.describe(p.current()))
	}

	return p.advance(), nil
}

// errorf builds a QueryError at the current token.
func (p *parser) errorf(format string, args ...any) error {
	tok := p.current()
	if tok.kind == tokenEOF {
		return &QueryError{Message: "unexpected end of query", Line: tok.line, Column: tok.column}
	}

	return &QueryError{Message: fmt.Sprintf(format, args...), Line: tok.line, Column: tok.column}
}

// describe renders a token for error messages.
func (p *parser) describe(tok token) string {
	if tok.text != "" {
		return tok.text
	}

	switch tok.kind {
	case tokenEOF:
		return "end of query"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	default:
		return "keyword"
	}
}

// parseBehavior parses an expression whose binary operators all bind at
// least as tightly as minPrec.
func (p *parser) parseBehavior(minPrec int) (behavior.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current().kind {
		case tokenThen:
			if precThen < minPrec {
				return left, nil
			}
			p.advance()
			right, err := p.parseBehavior(precThen + 1)
			if err != nil {
				return nil, err
			}
			left = behavior.NewSequential(left, right)

		case tokenAnd:
			if precAnd < minPrec {
				return left, nil
			}
			p.advance()
			right, err := p.parseBehavior(precAnd + 1)
			if err != nil {
				return nil, err
			}
			left = behavior.NewConjunction([]behavior.Node{left, right})

		case tokenOr:
			if precOr < minPrec {
				return left, nil
			}
			p.advance()
			right, err := p.parseBehavior(precOr + 1)
			if err != nil {
				return nil, err
			}
			left = behavior.NewDisjunction([]behavior.Node{left, right})

		default:
			return left, nil
		}
	}
}

// parsePrefix parses labels, negations, parenthesized groups and actions.
func (p *parser) parsePrefix() (behavior.Node, error) {
	switch p.current().kind {
	case tokenLabel:
		label := p.advance()
		node, err := p.parseBehavior(precLabel)
		if err != nil {
			return nil, err
		}
		node.SetName(label.text)

		return node, nil

	case tokenNot:
		p.advance()
		operand, err := p.parseBehavior(precNot)
		if err != nil {
			return nil, err
		}

		return behavior.NewNegation(operand), nil

	case tokenLParen:
		p.advance()
		node, err := p.parseBehavior(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, `")"`); err != nil {
			return nil, err
		}

		return p.wrapTimeBounds(node)

	case tokenActor:
		action, err := p.parseAction()
		if err != nil {
			return nil, err
		}

		return p.wrapTimeBounds(action)

	default:
		return nil, p.errorf("expected an actor, group or negation, found %q", p.describe(p.current()))
	}
}

// wrapTimeBounds applies an optional trailing "for …" constraint.
func (p *parser) wrapTimeBounds(node behavior.Node) (behavior.Node, error) {
	if !p.accept(tokenFor) {
		return node, nil
	}

	frame, err := p.parseTimeBounds()
	if err != nil {
		return nil, err
	}

	return behavior.NewTimeRestricting(node, frame), nil
}

// parseTimeBounds parses the bound forms following "for".
func (p *parser) parseTimeBounds() (core.RelativeTimeFrame, error) {
	switch {
	case p.accept(tokenAtLeast):
		d, err := p.parseTimespan()
		if err != nil {
			return core.RelativeTimeFrame{}, err
		}

		return core.AtLeast(d), nil

	case p.accept(tokenAtMost):
		d, err := p.parseTimespan()
		if err != nil {
			return core.RelativeTimeFrame{}, err
		}

		return core.AtMost(d), nil

	case p.accept(tokenApprox):
		d, err := p.parseTimespan()
		if err != nil {
			return core.RelativeTimeFrame{}, err
		}

		return core.Between(
			time.Duration(0.8*float64(d)),
			time.Duration(1.2*float64(d)),
		), nil

	case p.accept(tokenBetween):
		number, err := p.expect(tokenNumber, "a number")
		if err != nil {
			return core.RelativeTimeFrame{}, err
		}

		// Either "between 5 seconds and 8 seconds" or "between 5 and 8 seconds".
		if p.current().kind == tokenTimeUnit {
			unit := p.advance()
			minBound, err := spanDuration(number.text, unit.text)
			if err != nil {
				return core.RelativeTimeFrame{}, p.errorf("%v", err)
			}
			if _, err := p.expect(tokenAnd, `"and"`); err != nil {
				return core.RelativeTimeFrame{}, err
			}
			maxBound, err := p.parseTimespan()
			if err != nil {
				return core.RelativeTimeFrame{}, err
			}

			return core.Between(minBound, maxBound), nil
		}

		if _, err := p.expect(tokenAnd, `"and"`); err != nil {
			return core.RelativeTimeFrame{}, err
		}
		upper, err := p.expect(tokenNumber, "a number")
		if err != nil {
			return core.RelativeTimeFrame{}, err
		}
		unit, err := p.expect(tokenTimeUnit, "a time unit")
		if err != nil {
			return core.RelativeTimeFrame{}, err
		}
		minBound, err := spanDuration(number.text, unit.text)
		if err != nil {
			return core.RelativeTimeFrame{}, p.errorf("%v", err)
		}
		maxBound, err := spanDuration(upper.text, unit.text)
		if err != nil {
			return core.RelativeTimeFrame{}, p.errorf("%v", err)
		}

		return core.Between(minBound, maxBound), nil

	default:
		return core.RelativeTimeFrame{}, p.errorf("expected a time bound, found %q", p.describe(p.current()))
	}
}

// parseTimespan parses "N seconds|minutes|hours".
func (p *parser) parseTimespan() (time.Duration, error) {
	number, err := p.expect(tokenNumber, "a number")
	if err != nil {
		return 0, err
	}
	unit, err := p.expect(tokenTimeUnit, "a time unit")
	if err != nil {
		return 0, err
	}

	d, convErr := spanDuration(number.text, unit.text)
	if convErr != nil {
		return 0, p.errorf("%v", convErr)
	}

	return d, nil
}

// spanDuration converts a digit string and unit into a duration.
func spanDuration(digits, unit string) (time.Duration, error) {
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", digits)
	}

	switch unit {
	case "seconds":
		return time.Duration(value) * time.Second, nil
	case "minutes":
		return time.Duration(value) * time.Minute, nil
	case "hours":
		return time.Duration(value) * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid time unit %q", unit)
	}
}
