// Package core defines the temporal and confidence primitives shared by the
// whole engine: confidence fractions and their parametric comparer, absolute
// and relative time frames, the categorical trajectory features, behavior
// variables, and the engine configuration bundle.
//
// 🚀 Confidence in a nutshell:
//
//	A confidence is a fraction (nom/denom) where the nominator measures
//	reliability (seconds of matched behavior) and the denominator measures
//	evidence (seconds of considered behavior). Four distinguished values
//	anchor the scale:
//
//	  Impossible  (0, +∞)  — pruned, can never be part of a result
//	  Impartial   (0, 0)   — contributes nothing either way
//	  Certain(a)  (a, a)   — fully matched over amount a
//	  Absolute    (+∞, +∞) — unconditional truth
//
// ✨ Ordering:
//
//	Comparer ranks confidences by mixing two views, weighted by a
//	coefficient t in [0,1]:
//	  - conformity  — the fraction value nom/denom (accuracy of the match)
//	  - reliability — the nominator magnitude (amount of matched time)
//	t = 0 compares purely by conformity, t = 1 purely by reliability.
//
// ⚙️ Arithmetic is explicitly saturating and guarded:
//
//	∞ + finite = ∞, 0·∞ = 0 (scaling Impartial stays Impartial) and
//	∞ − ∞ = 0 (negating Absolute yields Impossible), so no NaN ever
//	escapes a confidence operation.
//
// All types in this package are small immutable values, safe to copy and
// share between goroutines.
package core
