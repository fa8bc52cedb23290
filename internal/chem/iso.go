// File: iso.go
package chem

import (
	"iter"
	"maps"
)

// NodeMatch compares a target atom with a pattern atom.
type NodeMatch func(target, pattern *Atom) bool

// EdgeMatch compares a target bond with a pattern bond.
type EdgeMatch func(target, pattern *Bond) bool

// Embedding maps pattern atom ids to target atom ids.
type Embedding map[int]int

// Inverse returns the target-to-pattern view.
func (e Embedding) Inverse() map[int]int {
	inv := make(map[int]int, len(e))
	for p, t := range e {
		inv[t] = p
	}
	return inv
}

// SubgraphIsomorphisms enumerates every embedding of pattern as a
// node-induced subgraph of target: matched target atoms are bonded exactly
// where the pattern atoms are. A nil predicate accepts everything.
//
// Enumeration order is deterministic. Neither graph may change while the
// sequence is being consumed.
func SubgraphIsomorphisms(target, pattern *Graph, nm NodeMatch, em EdgeMatch) iter.Seq[Embedding] {
	return func(yield func(Embedding) bool) {
		if pattern.Order() == 0 || pattern.Order() > target.Order() {
			return
		}
		m := &matcher{
			target:  target,
			pattern: pattern,
			nm:      nm,
			em:      em,
			core:    make(Embedding, pattern.Order()),
			used:    make(map[int]bool, pattern.Order()),
			targets: target.AtomIDs(),
		}
		m.plan()
		m.extend(0, yield)
	}
}

type matcher struct {
	target, pattern *Graph
	nm              NodeMatch
	em              EdgeMatch

	order   []int // pattern ids in visiting order
	parent  []int // already visited neighbor of order[i], or 0
	core    Embedding
	used    map[int]bool
	targets []int
}

// plan visits pattern components breadth first so every atom after the
// first of its component has a mapped neighbor to draw candidates from.
func (m *matcher) plan() {
	seen := make(map[int]bool, m.pattern.Order())
	for _, root := range m.pattern.AtomIDs() {
		if seen[root] {
			continue
		}
		seen[root] = true
		m.order = append(m.order, root)
		m.parent = append(m.parent, 0)
		for i := len(m.order) - 1; i < len(m.order); i++ {
			n := m.order[i]
			for _, nb := range m.pattern.Neighbors(n) {
				if !seen[nb] {
					seen[nb] = true
					m.order = append(m.order, nb)
					m.parent = append(m.parent, n)
				}
			}
		}
	}
}

func (m *matcher) extend(depth int, yield func(Embedding) bool) bool {
	if depth == len(m.order) {
		return yield(maps.Clone(m.core))
	}
	p := m.order[depth]
	candidates := m.targets
	if parent := m.parent[depth]; parent != 0 {
		candidates = m.target.Neighbors(m.core[parent])
	}
	for _, t := range candidates {
		if m.used[t] || !m.feasible(depth, p, t) {
			continue
		}
		m.core[p] = t
		m.used[t] = true
		more := m.extend(depth+1, yield)
		delete(m.core, p)
		delete(m.used, t)
		if !more {
			return false
		}
	}
	return true
}

func (m *matcher) feasible(depth, p, t int) bool {
	if m.target.Degree(t) < m.pattern.Degree(p) {
		return false
	}
	if m.nm != nil && !m.nm(m.target.Atom(t), m.pattern.Atom(p)) {
		return false
	}
	for _, q := range m.order[:depth] {
		pb := m.pattern.Bond(p, q)
		tb := m.target.Bond(t, m.core[q])
		if (pb == nil) != (tb == nil) {
			return false
		}
		if pb != nil && m.em != nil && !m.em(tb, pb) {
			return false
		}
	}
	return true
}
