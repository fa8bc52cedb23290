// File: bondbreak.go
package reactor

import (
	"slices"

	"cgrCore/internal/chem"
)

// LostBond is a bond broken next to a forming bond: Pivot keeps reacting,
// Terminal is the atom that left it.
type LostBond struct {
	Pivot    int
	Terminal int
	Bond     *chem.Bond
}

// LostBonds are recorded in the order they were found.
type LostBonds []LostBond

// ByPivot indexes the lost bonds by pivot atom. A later bond on the same
// pivot replaces an earlier one.
func (lb LostBonds) ByPivot() map[int]LostBond {
	m := make(map[int]LostBond, len(lb))
	for _, b := range lb {
		m[b.Pivot] = b
	}
	return m
}

// endpoints returns every atom touching a lost bond.
func (lb LostBonds) endpoints() []int {
	ids := make([]int, 0, 2*len(lb))
	for _, b := range lb {
		ids = append(ids, b.Pivot, b.Terminal)
	}
	return ids
}

// BondBrokenGraph cuts the bonds matched by patterns out of a copy of g and
// returns the resulting connected components.
//
// Patterns are applied in order. All embeddings of a pattern are collected
// first and then applied in enumeration order; an embedding whose bonds are
// already gone is skipped. A three-atom match 1-2-3 records bond 1-2 as lost
// (pivot 2, terminal 1) and removes both matched bonds. A two-atom match is
// removed only when no atom of an already lost bond is still connected to
// either matched atom. g is not modified.
func BondBrokenGraph(g *chem.Graph, patterns []*chem.Graph, em chem.EdgeMatch) ([]*chem.Graph, LostBonds) {
	w := g.Clone()
	var lost LostBonds
	for _, pattern := range patterns {
		matches := slices.Collect(chem.SubgraphIsomorphisms(w, pattern, nil, em))
		for _, m := range matches {
			if _, ok := m[3]; ok {
				bond := w.Bond(m[1], m[2])
				if bond == nil || w.Bond(m[2], m[3]) == nil {
					continue
				}
				lost = append(lost, LostBond{Pivot: m[2], Terminal: m[1], Bond: bond.Clone()})
				w.RemoveBond(m[2], m[3])
				w.RemoveBond(m[1], m[2])
				continue
			}
			if w.Bond(m[1], m[2]) == nil || guarded(w, lost, m) {
				continue
			}
			w.RemoveBond(m[1], m[2])
		}
	}
	return w.Components(), lost
}

// guarded reports whether some lost-bond atom still reaches a matched atom.
func guarded(w *chem.Graph, lost LostBonds, m chem.Embedding) bool {
	for _, a := range lost.endpoints() {
		for _, b := range []int{m[1], m[2]} {
			if w.HasPath(a, b) {
				return true
			}
		}
	}
	return false
}
