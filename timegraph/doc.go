// Package timegraph turns behavior-node confidences into a layered DAG and
// solves it with a bounded best-K dynamic program.
//
// 🚀 Layers:
//
//	A Layer is a function C(i, j) assigning a confidence to every window
//	span [i, j) — i and j index window boundaries, not windows. Three
//	concrete flavours exist:
//
//	  Dense      — built from per-window confidences; C(i,j) is their sum,
//	               memoized. Leaf nodes produce these.
//	  Lambda     — computed on demand from child layers. Logical and
//	               restriction nodes produce these.
//	  Contracted — explicit best paths keyed by (first, last) vertex;
//	               anything else is Impartial. Sequential nodes produce
//	               these, which makes whole time graphs composable as
//	               layers of an outer graph.
//
// ✨ The time graph:
//
//	A sequential node with h children over W windows becomes a DAG with
//	h+1 rows of W+1 vertices (one per window boundary). An edge from
//	(i, row d) to (j, row d+1) carries the d+1-th child's confidence over
//	[i, j); a virtual START feeds every vertex of row 0. Each vertex
//	stores at most MaxMemory best incoming paths; extending a row merges
//	candidates into the stored slots, pruning everything whose conformity
//	falls below MinConfidence. These two knobs bound the otherwise
//	quadratic blow-up per layer and set the accuracy/cost trade-off.
//
//	Backtracking walks stored parent links to recover complete paths;
//	the timetable (prefix sums of window durations added to a reference
//	time) converts vertex indices into wall-clock stage timestamps.
//
// ⚙️ Complexity:
//
//	Time:   O(h · W² · M log M) worst case, sharply reduced by pruning.
//	Memory: O(h · W · M) for the backtrack map.
package timegraph
