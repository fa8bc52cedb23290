// File: relocate.go
package reactor

import (
	"cgrCore/internal/chem"
)

type rGroup struct {
	pivots []int
	g      *chem.Graph
}

type rClone struct {
	pivots []int
	// R-group atom id -> fragment atom id
	mapping map[int]int
}

// CloneSubgraphs rebuilds substituents whose attachment point moved.
//
// The reaction-center patterns split g at its lost bonds. Components
// holding the leaving end of a lost bond are X-groups, components holding
// a pivot are R-groups, everything else is a free fragment. Each free
// fragment that occurs, in its product state, inside an R-group with a
// pivot among the matched atoms takes that R-group's structure. Every
// pivot of such a copy then receives a fresh copy of its X-group, joined
// by a bond carrying the lost bond's slots. g is not modified.
func (r *Reactor) CloneSubgraphs(g *chem.Graph) *chem.Graph {
	parts, lost := BondBrokenGraph(g, r.centers, BondOnly)
	byPivot := lost.ByPivot()

	terminals := make(map[int]bool)
	for _, b := range byPivot {
		terminals[b.Terminal] = true
	}

	xGroups := make(map[int]*chem.Graph)
	var rGroups []rGroup
	var free []*chem.Graph
	for _, part := range parts {
		var xs, pivots []int
		for _, id := range part.AtomIDs() {
			if terminals[id] {
				xs = append(xs, id)
			}
			if _, ok := byPivot[id]; ok {
				pivots = append(pivots, id)
			}
		}
		switch {
		case len(xs) > 0:
			xGroups[xs[0]] = part
		case len(pivots) > 0:
			rGroups = append(rGroups, rGroup{pivots: pivots, g: part})
		default:
			free = append(free, part)
		}
	}

	out := g.Clone()
	var clones []rClone
	for _, f := range free {
		for _, rg := range rGroups {
			mapping := r.pivotEmbedding(rg, f)
			if mapping == nil {
				continue
			}
			moved, _ := remapWith(rg.g, out, mapping)
			out = chem.Compose(out, moved)
			clones = append(clones, rClone{pivots: rg.pivots, mapping: mapping})
			break
		}
	}

	for _, cl := range clones {
		for _, pivot := range cl.pivots {
			lb := byPivot[pivot]
			x := xGroups[lb.Terminal]
			at, ok := cl.mapping[pivot]
			if x == nil || !ok {
				continue
			}
			moved, ids := remapWith(x, out, nil)
			out = chem.Compose(out, moved)
			out.AddBond(at, ids[lb.Terminal], lb.Bond.Clone())
		}
	}
	return out
}

// pivotEmbedding finds f inside the R-group under product-state equality
// with at least one pivot matched, and returns the R-group to fragment
// mapping.
func (r *Reactor) pivotEmbedding(rg rGroup, f *chem.Graph) map[int]int {
	for m := range chem.SubgraphIsomorphisms(rg.g, f, r.productNodeMatch, r.productEdgeMatch) {
		inv := m.Inverse()
		for _, p := range rg.pivots {
			if _, ok := inv[p]; ok {
				return inv
			}
		}
	}
	return nil
}
