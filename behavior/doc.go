// Package behavior defines the behavior tree: the algebraic representation
// of a parsed query, and the machinery turning it into time-graph layers.
//
// 🚀 The algebra:
//
//	Leaves test categorical features of the windowed data:
//
//	  State       — speed and/or direction of one or more agents
//	  ActorTarget — asymmetric pair features (intended distance change,
//	                relative direction) of an ordered (actor, target) pair
//	  Mutual      — symmetric pair features (actual distance change,
//	                mutual direction, distance) over any subset of pairs
//
//	Internal nodes compose confidences:
//
//	  Conjunction / Disjunction / Negation   — logical composition
//	  TimeRestricting / ConfidenceRestricting — admissibility filters
//	  Sequential                              — chronological composition,
//	                                            solved by a time graph
//
// ✨ Metadata:
//
//	Every node answers structural queries the search driver relies on:
//	its variables, its sequence of (required variables, minimal time)
//	stages, its aggregate time requirement, whether variable order
//	matters (symmetry), and informational subsumption between leaves.
//
// ⚙️ Optimization:
//
//	Optimize rewrites a tree into a cheaper equivalent: nested sequences,
//	conjunctions and disjunctions are flattened, stacked time restrictions
//	intersect, time restrictions lift out of conjunctions, duplicate and
//	subsumed children drop, and double negations cancel. Rewrites repeat
//	until a fixed point (bounded at eight passes); the optimized tree is
//	confidence-equivalent to the original under both strategies.
//
// Trees are immutable after optimization; layers are built per
// (template, agent assignment) and discarded with it.
package behavior
