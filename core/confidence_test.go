package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/traceq/traceq/core"
)

// TestConfidence_DistinguishedValues verifies the four anchor constructors
// and their classification.
func TestConfidence_DistinguishedValues(t *testing.T) {
	assert.Equal(t, core.CategoryImpossible, core.Impossible().Category(), "0/∞ is Impossible")
	assert.Equal(t, core.CategoryImpartial, core.Impartial().Category(), "0/0 is Impartial")
	assert.Equal(t, core.CategoryCertain, core.Certain(5).Category(), "a/a is Certain")
	assert.Equal(t, core.CategoryAbsolute, core.Absolute().Category(), "∞/∞ is Absolute")
	assert.Equal(t, core.CategoryImprobable, core.Confidence{Nom: 0, Denom: 4}.Category(), "0/C is Improbable")
	assert.Equal(t, core.CategoryUncertain, core.Confidence{Nom: 2, Denom: 4}.Category(), "C/(C+D) is Uncertain")
}

// TestConfidence_Float verifies conversion to a plain real value, including
// both guarded corner cases.
func TestConfidence_Float(t *testing.T) {
	assert.Equal(t, 0.5, core.Confidence{Nom: 5, Denom: 10}.Float())
	assert.Equal(t, 1.0, core.Absolute().Float(), "∞/∞ converts to 1")
	assert.Equal(t, 0.0, core.Impartial().Float(), "0/0 converts to 0")
	assert.Equal(t, 0.0, core.Impossible().Float(), "0/∞ converts to 0")
}

// TestConfidence_AddIsPairwise verifies componentwise addition with ∞
// saturation.
func TestConfidence_AddIsPairwise(t *testing.T) {
	sum := core.Confidence{Nom: 1, Denom: 2}.Add(core.Confidence{Nom: 3, Denom: 4})
	assert.Equal(t, core.Confidence{Nom: 4, Denom: 6}, sum)

	infSum := core.Impossible().Add(core.Certain(3))
	assert.Equal(t, 3.0, infSum.Nom)
	assert.True(t, math.IsInf(infSum.Denom, 1), "∞ + finite = ∞")
}

// TestConfidence_ScaleGuards verifies that scaling never produces NaN:
// 0·∞ must collapse to 0, so scaling Impartial yields Impartial.
func TestConfidence_ScaleGuards(t *testing.T) {
	assert.Equal(t, core.Certain(15), core.Certain(1).Scale(15))
	assert.Equal(t, core.Impartial(), core.Impartial().Scale(30), "scaling Impartial stays Impartial")
	assert.Equal(t, core.Impartial(), core.Impossible().Scale(0), "0·∞ = 0, not NaN")
	assert.Equal(t, core.CategoryImpossible, core.Impossible().Scale(2).Category())
}

// TestConfidence_Negated verifies (n,d) → (d−n, d), including the guarded
// ∞ − ∞ case.
func TestConfidence_Negated(t *testing.T) {
	assert.Equal(t, core.Confidence{Nom: 10, Denom: 20}, core.Confidence{Nom: 10, Denom: 20}.Negated())
	assert.Equal(t, core.Confidence{Nom: 15, Denom: 20}, core.Confidence{Nom: 5, Denom: 20}.Negated())
	assert.Equal(t, core.CategoryAbsolute, core.Impossible().Negated().Category(), "Impossible negates to Absolute")
	assert.Equal(t, core.CategoryImpossible, core.Absolute().Negated().Category(), "Absolute negates to Impossible")
	assert.Equal(t, core.Impartial(), core.Impartial().Negated())
}

// TestComparer_Order verifies the global comparator-order invariant:
// Impossible ≤ anything ≤ Absolute for every coefficient, and the
// zero-nominator equivalence class.
func TestComparer_Order(t *testing.T) {
	samples := []core.Confidence{
		core.Impossible(),
		core.Impartial(),
		{Nom: 0, Denom: 7},
		{Nom: 3, Denom: 10},
		core.Certain(4),
		core.Absolute(),
	}

	for _, param := range []float64{0.0, 0.01, 0.05, 0.5, 0.99, 1.0} {
		cmp := core.Comparer{Param: param}
		for _, c := range samples {
			assert.LessOrEqual(t, cmp.CompareInt(core.Impossible(), c), 0,
				"t=%v: Impossible must not exceed %v", param, c)
			assert.GreaterOrEqual(t, cmp.CompareInt(core.Absolute(), c), 0,
				"t=%v: Absolute must not fall below %v", param, c)
		}

		// All zero-nominator confidences are equivalent, whatever the denominator.
		assert.Zero(t, cmp.CompareInt(core.Impossible(), core.Impartial()))
		assert.Zero(t, cmp.CompareInt(core.Impartial(), core.Confidence{Nom: 0, Denom: 12}))
		assert.Zero(t, cmp.CompareInt(core.Impossible(), core.Confidence{Nom: 0, Denom: 3}))
	}
}

// TestComparer_ConformityVsReliability verifies that the coefficient shifts
// the preference between an accurate short match and a long sloppy one.
func TestComparer_ConformityVsReliability(t *testing.T) {
	accurate := core.Confidence{Nom: 5, Denom: 5}     // 100 % over 5s
	reliable := core.Confidence{Nom: 50, Denom: 100}  // 50 % over 100s

	assert.Equal(t, 1, core.ConformityBased().CompareInt(accurate, reliable),
		"conformity-based prefers the accurate match")
	assert.Equal(t, -1, core.ReliabilityBased().CompareInt(accurate, reliable),
		"reliability-based prefers the long match")
}

// TestComparer_EqualNominators verifies the reliability term treats equal
// nominators as equal regardless of denominators.
func TestComparer_EqualNominators(t *testing.T) {
	cmp := core.ReliabilityBased()
	diff := cmp.Compare(core.Confidence{Nom: 5, Denom: 10}, core.Confidence{Nom: 5, Denom: 50})
	// Only the 1 % conformity weight remains.
	assert.InDelta(t, 0.01*(0.5-0.1), diff, 1e-12)
}
