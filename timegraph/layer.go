// Package timegraph: confidence layers over window spans.
package timegraph

import (
	"github.com/traceq/traceq/core"
)

// Layer assigns a confidence to every window span [i, j), where i < j are
// indices into the window boundary list. Implementations are read-only once
// built and safe for repeated queries.
type Layer interface {
	// At returns the confidence of the span [i, j).
	At(i, j int) core.Confidence

	// Name returns the display name of the owning behavior node.
	Name() string
}

// Dense is a layer built from per-window confidences: the confidence of a
// span is the pairwise sum of its windows' confidences, memoized per span.
type Dense struct {
	name  string
	edges []core.Confidence
	memo  map[[2]int]core.Confidence
}

// NewDense builds a dense layer from one confidence per window.
func NewDense(edges []core.Confidence, name string) *Dense {
	return &Dense{
		name:  name,
		edges: edges,
		memo:  make(map[[2]int]core.Confidence),
	}
}

// At returns Σ edges[i..j−1]; spans with i ≥ j are Impossible.
func (l *Dense) At(i, j int) core.Confidence {
	if i >= j {
		return core.Impossible()
	}

	key := [2]int{i, j}
	if conf, ok := l.memo[key]; ok {
		return conf
	}

	conf := core.Impartial()
	for k := i; k < j && k < len(l.edges); k++ {
		conf = conf.Add(l.edges[k])
	}
	l.memo[key] = conf

	return conf
}

// Name returns the layer's display name.
func (l *Dense) Name() string { return l.name }

// Width returns the number of windows the layer covers.
func (l *Dense) Width() int { return len(l.edges) }

// Lambda is a layer computed on demand by a weighting function, typically
// combining child layers. Sublayers is populated only in debug mode, for
// inspection.
type Lambda struct {
	name      string
	width     int
	weighting func(i, j int) core.Confidence

	Sublayers []Layer
}

// NewLambda builds an on-demand layer over width windows.
func NewLambda(weighting func(i, j int) core.Confidence, width int, name string, sublayers []Layer) *Lambda {
	return &Lambda{
		name:      name,
		width:     width,
		weighting: weighting,
		Sublayers: sublayers,
	}
}

// At evaluates the weighting function for the span [i, j).
func (l *Lambda) At(i, j int) core.Confidence {
	return l.weighting(i, j)
}

// Name returns the layer's display name.
func (l *Lambda) Name() string { return l.name }

// Width returns the number of windows the layer covers.
func (l *Lambda) Width() int { return l.width }

// PathEntry is one known best path of a contracted layer: the visited vertex
// sequence and its total confidence.
type PathEntry struct {
	Vertices   []int
	Confidence core.Confidence
}

// Contracted is a layer holding explicit best paths. At(i, j) answers with
// the stored confidence when a path runs from i to j and Impartial
// otherwise. Insertion order is preserved so ranked listings are
// deterministic; inserting a second path with the same endpoints replaces
// the first in place.
type Contracted struct {
	name    string
	index   map[[2]int]int
	entries []PathEntry

	Sublayers []Layer
}

// NewContracted builds a contracted layer from the given paths, in order.
func NewContracted(paths []PathEntry, name string, sublayers []Layer) *Contracted {
	layer := &Contracted{
		name:      name,
		index:     make(map[[2]int]int, len(paths)),
		Sublayers: sublayers,
	}
	for _, p := range paths {
		layer.add(p)
	}

	return layer
}

// add inserts a path, replacing any existing path with the same endpoints.
func (l *Contracted) add(p PathEntry) {
	if len(p.Vertices) == 0 {
		return
	}

	key := [2]int{p.Vertices[0], p.Vertices[len(p.Vertices)-1]}
	if at, ok := l.index[key]; ok {
		l.entries[at] = p

		return
	}

	l.index[key] = len(l.entries)
	l.entries = append(l.entries, p)
}

// At returns the stored confidence of a path from i to j, or Impartial when
// no such path is known.
func (l *Contracted) At(i, j int) core.Confidence {
	at, ok := l.index[[2]int{i, j}]
	if !ok {
		return core.Impartial()
	}

	return l.entries[at].Confidence
}

// Name returns the layer's display name.
func (l *Contracted) Name() string { return l.name }

// Paths returns the stored paths in insertion order. The slice is shared;
// callers must not mutate it.
func (l *Contracted) Paths() []PathEntry { return l.entries }
