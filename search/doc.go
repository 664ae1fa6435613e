// Package search drives the matching engine: it maps query variables onto
// concrete agents, prunes hopeless assignments cheaply, evaluates the rest
// through the time graph, and keeps a global ranking of the best matches.
//
// 🚀 The pipeline per assignment:
//
//	1. Viability — walk the template's stage sequence against the agents'
//	   joint presence timeline; an assignment whose agents cannot cover
//	   the stage minimums is skipped without touching the heavy machinery.
//	   The surviving range bounds the data considered next.
//	2. Slice — clip the selected agents and their pairs to that range and
//	   granulate them into windows.
//	3. Evaluate — build the root sequence's time graph and take its best
//	   path, tagged with the assignment's agent ids.
//	4. Rank — merge into the running top-K under the configured comparer
//	   (stable, earlier results win ties); results whose evidence remained
//	   +∞ are dropped at the end.
//
// ✨ Enumeration:
//
//	Symmetrical templates (every variable interchangeable) enumerate
//	combinations of agents; everything else enumerates permutations.
//
// ⚙️ Concurrency:
//
//	Assignments are independent; SearchOptions.Workers fans them out over
//	an errgroup. The only shared state is the mutex-guarded top-K list
//	and an atomic progress counter. Cancellation is cooperative through
//	the context, checked between assignments. One worker (the default)
//	reproduces the strictly sequential reference behavior.
//
// Results can be persisted to CSV and read back; the layout is stable and
// consumed by downstream previewers.
package search
