package behavior

import (
	"github.com/traceq/traceq/core"
)

// maxOptimizePasses bounds the fixed-point iteration; real queries converge
// in two or three passes.
const maxOptimizePasses = 8

// Optimize rewrites a behavior tree into a structurally cheaper equivalent.
// Every rule preserves the confidence assigned by the tree's root under both
// conjunction strategies:
//
//  1. nested sequences flatten:    Seq(Seq(A…), B…)   → Seq(A…, B…)
//  2. stacked time limits merge:   Time(Time(X,f₁),f₂) → Time(X, f₁∩f₂)
//  3. time limits lift out of conjunctions:
//     Conj(Time(xᵢ,fᵢ), yⱼ)       → Time(Conj(xᵢ,yⱼ), ∩fᵢ)
//  4. nested conjunctions and disjunctions flatten
//  5. structurally equal siblings of a logical node deduplicate
//  6. subsumed siblings drop: a conjunction keeps the more informative
//     child, a disjunction the looser alternative
//  7. double negation cancels:    Neg(Neg(X)) → X
//
// Rewrites repeat bottom-up until the tree stops changing, bounded at
// maxOptimizePasses.
func Optimize(root Node) Node {
	current := root
	for pass := 0; pass < maxOptimizePasses; pass++ {
		next := optimizeNode(current)
		if next.Equal(current) {
			return next
		}
		current = next
	}

	return current
}

// optimizeNode applies one bottom-up rewrite pass.
func optimizeNode(node Node) Node {
	switch n := node.(type) {
	case *Sequential:
		return optimizeSequential(n)
	case *TimeRestricting:
		return optimizeTimeRestricting(n)
	case *ConfidenceRestricting:
		out := NewConfidenceRestricting(optimizeNode(n.child))
		out.min = n.min
		out.SetName(n.name)

		return out
	case *Conjunction:
		return optimizeConjunction(n)
	case *Disjunction:
		return optimizeDisjunction(n)
	case *Negation:
		return optimizeNegation(n)
	default:
		return node
	}
}

// optimizeSequential flattens nested sequences, inheriting the first nested
// name when the parent is unnamed.
func optimizeSequential(n *Sequential) Node {
	name := n.name
	children := make([]Node, 0, len(n.children))
	for _, child := range n.children {
		optimized := optimizeNode(child)
		if seq, ok := optimized.(*Sequential); ok {
			if name == "" {
				name = seq.Name()
			}
			children = append(children, seq.children...)

			continue
		}
		children = append(children, optimized)
	}

	out := NewSequential(children...)
	out.SetName(name)

	return out
}

// optimizeTimeRestricting collapses stacked time restrictions into their
// intersection.
func optimizeTimeRestricting(n *TimeRestricting) Node {
	child := optimizeNode(n.child)

	if tr, ok := child.(*TimeRestricting); ok {
		name := n.name
		if name == "" {
			name = tr.Name()
		}
		out := NewTimeRestricting(tr.child, n.requirement.Intersect(tr.requirement))
		out.SetName(name)

		return out
	}

	out := NewTimeRestricting(child, n.requirement)
	out.SetName(n.name)

	return out
}

// optimizeConjunction lifts time restrictions out of the conjunction,
// flattens nested conjunctions, and — when nothing was lifted — drops
// duplicate and subsumed children.
func optimizeConjunction(n *Conjunction) Node {
	intersected := core.AnyDuration()
	children := make([]Node, 0, len(n.children))
	for _, child := range n.children {
		optimized := optimizeNode(child)
		switch typed := optimized.(type) {
		case *TimeRestricting:
			intersected = intersected.Intersect(typed.requirement)
			children = append(children, typed.child)
		case *Conjunction:
			children = append(children, typed.children...)
		default:
			children = append(children, optimized)
		}
	}

	if intersected != core.AnyDuration() {
		conj := NewConjunction(children)
		conj.SetName(n.name)
		wrapped := NewTimeRestricting(conj, intersected)
		wrapped.SetName(n.name)

		return wrapped
	}

	children = dropDuplicates(children)
	children = dropSubsumed(children, true)

	out := NewConjunction(children)
	out.SetName(n.name)

	return out
}

// optimizeDisjunction flattens nested disjunctions (inheriting a nested
// name when unnamed) and drops duplicate and subsumed children.
func optimizeDisjunction(n *Disjunction) Node {
	name := n.name
	children := make([]Node, 0, len(n.children))
	for _, child := range n.children {
		optimized := optimizeNode(child)
		if disj, ok := optimized.(*Disjunction); ok {
			if name == "" {
				name = disj.Name()
			}
			children = append(children, disj.children...)

			continue
		}
		children = append(children, optimized)
	}

	children = dropDuplicates(children)
	children = dropSubsumed(children, false)

	out := NewDisjunction(children)
	out.SetName(name)

	return out
}

// optimizeNegation cancels double negation, handing the outer name down to
// the surviving node when it has none of its own.
func optimizeNegation(n *Negation) Node {
	child := optimizeNode(n.child)

	if inner, ok := child.(*Negation); ok {
		grandchild := inner.child
		if grandchild.Name() == "" {
			grandchild.SetName(n.name)
		}

		return grandchild
	}

	out := NewNegation(child)
	out.SetName(n.name)

	return out
}

// dropDuplicates removes structurally equal later siblings.
func dropDuplicates(children []Node) []Node {
	kept := make([]Node, 0, len(children))
	for _, child := range children {
		duplicate := false
		for _, existing := range kept {
			if existing.Equal(child) {
				duplicate = true

				break
			}
		}
		if !duplicate {
			kept = append(kept, child)
		}
	}

	return kept
}

// dropSubsumed removes informationally redundant siblings: in a conjunction
// the subset child (it adds nothing to its superset sibling), in a
// disjunction the superset child (the looser alternative already covers it).
func dropSubsumed(children []Node, conjunction bool) []Node {
	doomed := make(map[int]bool)
	for i := range children {
		for j := range children {
			if i == j || doomed[i] || doomed[j] {
				continue
			}
			if children[i].IsSubset(children[j]) {
				if conjunction {
					doomed[i] = true
				} else {
					doomed[j] = true
				}
			}
		}
	}

	if len(doomed) == 0 {
		return children
	}

	kept := make([]Node, 0, len(children)-len(doomed))
	for i, child := range children {
		if !doomed[i] {
			kept = append(kept, child)
		}
	}

	return kept
}
