package timegraph

import (
	"errors"
	"sort"
	"time"

	"github.com/traceq/traceq/core"
)

// ErrNoLayers indicates a time graph constructed without any layer.
var ErrNoLayers = errors.New("timegraph: at least one layer is required")

// backtrackEntry is one stored incoming path of a vertex: the parent vertex
// in the previous row, the slot index within the parent's stored paths, and
// the confidence accumulated up to this vertex. The virtual START parent is
// (−1, −1, Impartial).
type backtrackEntry struct {
	parent  int
	pathIdx int
	conf    core.Confidence
}

// BestPath is one ranked result of a time graph: the wall-clock start of
// every stage plus the final end, and the total path confidence.
type BestPath struct {
	Times      []time.Time
	Confidence core.Confidence
}

// DebugPath is BestPath with the raw vertex indices retained, for
// breakpoint inspection.
type DebugPath struct {
	Times      []time.Time
	Vertices   []int
	Confidence core.Confidence
}

// TimeGraph is the layered DAG of a sequential composition: one row of
// vertices per stage boundary, one vertex column per window boundary.
// Construction is cheap; Compute runs the best-K DP on first demand.
type TimeGraph struct {
	layers []Layer
	width  int // vertex columns = windows + 1

	// timetable[v] is the accumulated duration of windows [0, v); adding it
	// to refTime converts a vertex index into a wall-clock instant.
	timetable []time.Duration
	refTime   time.Time

	cfg      core.Config
	comparer core.Comparer
	name     string

	computed   bool
	rows       [][][]backtrackEntry // [row][vertex][slot]
	contracted *Contracted
	scratch    []backtrackEntry // merge workspace, capacity 2·MaxMemory
}

// New builds a time graph from the sequential node's child layers and the
// processed windows' durations. refTime anchors the timetable; name labels
// the contracted layer.
func New(layers []Layer, durations []time.Duration, refTime time.Time, cfg core.Config, name string) (*TimeGraph, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timetable := make([]time.Duration, len(durations)+1)
	acc := time.Duration(0)
	for i, d := range durations {
		timetable[i] = acc
		acc += d
	}
	timetable[len(durations)] = acc

	return &TimeGraph{
		layers:    layers,
		width:     len(durations) + 1,
		timetable: timetable,
		refTime:   refTime,
		cfg:       cfg,
		comparer:  cfg.Comparer(),
		name:      name,
		scratch:   make([]backtrackEntry, 0, 2*cfg.MaxMemory),
	}, nil
}

// Height returns the number of stages (layers).
func (g *TimeGraph) Height() int { return len(g.layers) }

// Width returns the number of vertex columns (window boundaries).
func (g *TimeGraph) Width() int { return g.width }

// Compute runs the best-K dynamic program once; subsequent calls are no-ops.
//
// For every stored path at (timeStart, row d) and every later boundary
// timeEnd, the d+1-th layer's confidence over [timeStart, timeEnd) extends
// the path; steps whose conformity falls below MinConfidence are pruned
// outright, and the surviving candidates are merged into the at-most
// MaxMemory slots stored at (timeEnd, row d+1).
func (g *TimeGraph) Compute() {
	if g.computed {
		return
	}

	tight := core.ConformityBased()
	minConf := g.cfg.MinPathConfidence()

	rows := make([][][]backtrackEntry, len(g.layers)+1)

	// Row 0: the virtual START node reaches every boundary with no evidence.
	rows[0] = make([][]backtrackEntry, g.width)
	for v := 0; v < g.width; v++ {
		rows[0][v] = []backtrackEntry{{parent: -1, pathIdx: -1, conf: core.Impartial()}}
	}
	for d := 1; d <= len(g.layers); d++ {
		rows[d] = make([][]backtrackEntry, g.width)
	}

	for d, layer := range g.layers {
		for timeStart := 0; timeStart < g.width-1; timeStart++ {
			source := rows[d][timeStart]
			if len(source) == 0 {
				continue
			}

			for timeEnd := timeStart + 1; timeEnd < g.width; timeEnd++ {
				step := layer.At(timeStart, timeEnd)
				if tight.CompareInt(step, minConf) < 0 {
					continue
				}

				candidates := make([]backtrackEntry, len(source))
				for slot, entry := range source {
					candidates[slot] = backtrackEntry{
						parent:  timeStart,
						pathIdx: slot,
						conf:    entry.conf.Add(step),
					}
				}

				if existing := rows[d+1][timeEnd]; len(existing) > 0 {
					rows[d+1][timeEnd] = g.merge(candidates, existing, minConf)
				} else {
					rows[d+1][timeEnd] = candidates
				}
			}
		}
	}

	g.rows = rows
	g.computed = true
}

// merge combines fresh candidates with a vertex's stored paths: stable sort
// descending by the configured comparer (fresh candidates win ties), drop
// everything below the pruning threshold, keep the best MaxMemory. The
// preallocated scratch is reused as the merge workspace across calls.
func (g *TimeGraph) merge(candidates, existing []backtrackEntry, minConf core.Confidence) []backtrackEntry {
	g.scratch = g.scratch[:0]
	g.scratch = append(g.scratch, candidates...)
	g.scratch = append(g.scratch, existing...)

	sort.SliceStable(g.scratch, func(i, j int) bool {
		return g.comparer.CompareInt(g.scratch[i].conf, g.scratch[j].conf) > 0
	})

	kept := make([]backtrackEntry, 0, g.cfg.MaxMemory)
	for _, entry := range g.scratch {
		if g.comparer.Compare(entry.conf, minConf) < 0 {
			continue
		}
		kept = append(kept, entry)
		if len(kept) == g.cfg.MaxMemory {
			break
		}
	}

	return kept
}

// backtrack reconstructs one complete vertex path ending in the given slot
// of the final row by walking stored parent links back to row 0.
func (g *TimeGraph) backtrack(vertex, slot int) []int {
	depth := len(g.rows) - 1
	entry := g.rows[depth][vertex][slot]

	path := make([]int, 0, len(g.rows))
	path = append(path, vertex)
	for depth > 0 {
		parent := entry.parent
		depth--
		entry = g.rows[depth][parent][entry.pathIdx]
		path = append(path, parent)
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path
}

// buildContracted packages the final row's stored paths as a contracted
// layer, keyed by (first, last) vertex. Of several paths with the same
// endpoints only the best by the configured comparer is kept (earlier wins
// ties).
func (g *TimeGraph) buildContracted() {
	if g.contracted != nil {
		return
	}

	var paths []PathEntry
	index := make(map[[2]int]int)
	last := g.rows[len(g.rows)-1]
	for vertex := 0; vertex < g.width; vertex++ {
		for slot := range last[vertex] {
			entry := PathEntry{
				Vertices:   g.backtrack(vertex, slot),
				Confidence: last[vertex][slot].conf,
			}
			key := [2]int{entry.Vertices[0], vertex}
			if at, ok := index[key]; ok {
				if g.comparer.CompareInt(entry.Confidence, paths[at].Confidence) > 0 {
					paths[at] = entry
				}

				continue
			}
			index[key] = len(paths)
			paths = append(paths, entry)
		}
	}

	g.contracted = NewContracted(paths, g.name, nil)
}

// Contracted computes the graph on demand and returns its best paths as a
// reusable layer for outer composition.
func (g *TimeGraph) Contracted() *Contracted {
	g.Compute()
	g.buildContracted()

	return g.contracted
}

// times converts a vertex path into wall-clock instants via the timetable.
func (g *TimeGraph) times(path []int) []time.Time {
	out := make([]time.Time, len(path))
	for i, v := range path {
		out[i] = g.refTime.Add(g.timetable[v])
	}

	return out
}

// BestPaths returns up to n best complete paths, ranked descending by the
// configured comparer (stable; earlier-found paths win ties). n ≤ 0 returns
// all paths.
func (g *TimeGraph) BestPaths(n int) []BestPath {
	contracted := g.Contracted()

	ranked := make([]PathEntry, len(contracted.Paths()))
	copy(ranked, contracted.Paths())
	sort.SliceStable(ranked, func(i, j int) bool {
		return g.comparer.CompareInt(ranked[i].Confidence, ranked[j].Confidence) > 0
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	out := make([]BestPath, len(ranked))
	for i, entry := range ranked {
		out[i] = BestPath{Times: g.times(entry.Vertices), Confidence: entry.Confidence}
	}

	return out
}

// BestPathsDebug is BestPaths with the raw vertex indices retained.
func (g *TimeGraph) BestPathsDebug(n int) []DebugPath {
	contracted := g.Contracted()

	ranked := make([]PathEntry, len(contracted.Paths()))
	copy(ranked, contracted.Paths())
	sort.SliceStable(ranked, func(i, j int) bool {
		return g.comparer.CompareInt(ranked[i].Confidence, ranked[j].Confidence) > 0
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	out := make([]DebugPath, len(ranked))
	for i, entry := range ranked {
		out[i] = DebugPath{
			Times:      g.times(entry.Vertices),
			Vertices:   entry.Vertices,
			Confidence: entry.Confidence,
		}
	}

	return out
}
