// Package block models semantically enriched trajectories and their
// time-aligned windowing.
//
// 🚀 The data model:
//
//	A trajectory arrives pre-segmented into chronological, non-overlapping
//	(but possibly gapped) blocks, each labelled with coarse categorical
//	features:
//
//	  SingleBlock — one agent:  speed, direction
//	  PairBlock   — one ordered agent pair:  intended/actual distance
//	                change, relative direction, mutual direction, distance
//
//	An Agent (or AgentPair) is an id plus its ordered block list, with
//	point lookup (AtTime) and interval slicing (DuringTime).
//
// ✨ Window granulation:
//
//	Granulation interleaves N block streams into maximal windows during
//	which every stream's active block is constant, additionally capped at
//	a maximum window size. CutToWindows wraps this for the matching
//	engine: each emitted Window carries the clipped single blocks (one
//	per agent), an N×N matrix of clipped pair blocks indexed by
//	(actor, target) position, and the window duration. Coverage granulates
//	whole presence spans instead, for the cheap viability pre-check.
//
// Windows shorter than 200 ms are dropped as numeric noise; windows where
// no stream is active are always skipped.
package block
