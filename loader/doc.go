// Package loader reads agent and pair dictionaries from YAML dataset files.
//
// 🚀 The file shape:
//
//	agents:
//	  - id: 1
//	    blocks:
//	      - start: 2021-05-01T10:00:00Z
//	        end: 2021-05-01T10:00:30Z
//	        speed: Walk
//	        direction: Straight
//	pairs:
//	  - actor: 1
//	    target: 2
//	    blocks:
//	      - start: 2021-05-01T10:00:00Z
//	        end: 2021-05-01T10:00:30Z
//	        intended_distance_change: Decreasing
//	        actual_distance_change: Decreasing
//	        relative_direction: Straight
//	        mutual_direction: Opposite
//	        distance: Near
//
// Feature labels are the canonical enum names from package core. Load
// validates the monotonic-time invariant up front — overlapping or
// out-of-order blocks are a data inconsistency the engine is entitled to
// assume away, so they are rejected here, at the boundary.
package loader
