// Package traceq searches semantically enriched surveillance trajectories
// for occurrences of a user-described behavioral pattern.
//
// 🚀 What is traceq?
//
//	A library (plus a small CLI) that takes pedestrian trajectories
//	pre-segmented into categorical feature blocks, a textual behavioral
//	query such as
//
//	    "Anna and Bob run towards each other for at least 10 seconds,
//	     then Bob walks away from Anna"
//
//	and returns, for every plausible assignment of real agents to query
//	variables, the time intervals that best match the pattern together
//	with a confidence score.
//
// ✨ Key ingredients:
//   - confidence fractions (reliability / evidence) with a parametric
//     comparer mixing conformity and reliability
//   - time-aligned window granulation over multiple block streams
//   - a behavior-tree algebra (leaves, AND/OR/NOT, time and confidence
//     restrictions, sequential composition) with structural optimization
//   - a layered time graph solved by a bounded best-K dynamic program
//   - a search driver enumerating agent assignments with cheap viability
//     pruning and a global top-K ranking
//
// Under the hood, everything is organized into focused subpackages:
//
//	core/       — confidence arithmetic, comparer, time frames, features
//	block/      — single/pair blocks, agents, window granulation
//	timegraph/  — confidence layers and the best-K layered DP
//	behavior/   — behavior-tree nodes, leaf evaluation, optimizer
//	search/     — template driver: viability, enumeration, ranking, CSV
//	query/      — the textual query language parser
//	loader/     — YAML dataset loading
//
// See the package docs and example tests for detailed walkthroughs.
package traceq
