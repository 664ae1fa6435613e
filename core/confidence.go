// Package core implements the confidence fraction: the unit of evidence
// every layer, graph edge and search result is measured in.
package core

import (
	"fmt"
	"math"
)

// Category is a coarse classification of a confidence value, ordered from
// the least to the most favourable.
type Category int

const (
	// CategoryImpossible is 0 / +∞: a pruned branch.
	CategoryImpossible Category = iota

	// CategoryImprobable is 0 / C with C finite and positive.
	CategoryImprobable

	// CategoryImpartial is 0 / 0: no contribution.
	CategoryImpartial

	// CategoryUncertain is C / (C + D): a partial match.
	CategoryUncertain

	// CategoryCertain is C / C: a full match over amount C.
	CategoryCertain

	// CategoryAbsolute is +∞ / +∞: unconditional truth.
	CategoryAbsolute
)

// String returns the human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryImpossible:
		return "Impossible"
	case CategoryImprobable:
		return "Improbable"
	case CategoryImpartial:
		return "Impartial"
	case CategoryUncertain:
		return "Uncertain"
	case CategoryCertain:
		return "Certain"
	case CategoryAbsolute:
		return "Absolute"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Confidence is a fraction Nom/Denom measuring how well (and for how long)
// observed behavior matched an expectation.
//
//	Nom   — reliability: amount of matched time, in seconds.
//	Denom — evidence: amount of considered time, in seconds.
//
// Both components are non-negative and may be +∞. The zero value equals
// Impartial().
type Confidence struct {
	Nom   float64
	Denom float64
}

// Impossible returns the pruning confidence 0 / +∞.
func Impossible() Confidence {
	return Confidence{Nom: 0, Denom: math.Inf(1)}
}

// Impartial returns the neutral confidence 0 / 0.
func Impartial() Confidence {
	return Confidence{Nom: 0, Denom: 0}
}

// Certain returns the fully matched confidence amount / amount.
func Certain(amount float64) Confidence {
	return Confidence{Nom: amount, Denom: amount}
}

// Absolute returns the unconditional confidence +∞ / +∞.
func Absolute() Confidence {
	return Confidence{Nom: math.Inf(1), Denom: math.Inf(1)}
}

// Float converts the fraction to a plain real value in [0, 1].
// Both components infinite yields 1; an all-zero fraction yields 0.
func (c Confidence) Float() float64 {
	// ∞/∞ is unconditional truth, not NaN.
	if math.IsInf(c.Nom, 1) && math.IsInf(c.Denom, 1) {
		return 1.0
	}
	// 0/0 carries no information; treat as zero conformity.
	if c.Nom == 0 && c.Denom == 0 {
		return 0.0
	}

	return c.Nom / c.Denom
}

// Add returns the pairwise sum of both components (∞ saturates).
func (c Confidence) Add(other Confidence) Confidence {
	return Confidence{Nom: c.Nom + other.Nom, Denom: c.Denom + other.Denom}
}

// Scale multiplies both components by factor.
// Scaling by zero always yields Impartial: 0·∞ = 0 here, never NaN.
func (c Confidence) Scale(factor float64) Confidence {
	return Confidence{Nom: safeMul(c.Nom, factor), Denom: safeMul(c.Denom, factor)}
}

// Negated returns the complementary confidence (Denom−Nom, Denom):
// the amount of considered time that did NOT match.
// Impossible negates to Absolute and Absolute negates to Impossible
// (∞ − ∞ is taken as 0).
func (c Confidence) Negated() Confidence {
	return Confidence{Nom: safeSub(c.Denom, c.Nom), Denom: c.Denom}
}

// Category classifies the confidence value.
func (c Confidence) Category() Category {
	switch {
	case c.Nom == 0 && math.IsInf(c.Denom, 1):
		return CategoryImpossible
	case c.Nom == 0 && c.Denom == 0:
		return CategoryImpartial
	case c.Nom == 0:
		return CategoryImprobable
	case math.IsInf(c.Nom, 1) && math.IsInf(c.Denom, 1):
		return CategoryAbsolute
	case c.Nom == c.Denom:
		return CategoryCertain
	default:
		return CategoryUncertain
	}
}

// String renders the fraction with two decimals, e.g. "Confidence(10.00/20.00)".
func (c Confidence) String() string {
	return fmt.Sprintf("Confidence(%.2f/%.2f)", c.Nom, c.Denom)
}

// safeMul multiplies with the 0·∞ = 0 convention.
func safeMul(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}

	return a * b
}

// safeSub subtracts with the ∞ − ∞ = 0 convention.
func safeSub(a, b float64) float64 {
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return 0
	}

	return a - b
}
