// File: labels.go
package cgr

import "cgrCore/internal/chem"

// Hybridization classes inferred by SetLabels.
const (
	HybSP3 = 1 + iota
	HybSP2
	HybSP
	HybAromatic
)

// SetLabels infers per state the heavy-atom neighbor count and the
// hybridization class of every atom from its bonds, and fills the
// neighbors and hyb triples. A state whose charge slot is explicitly None
// holds no such atom and gets None labels. Slots that already hold a
// value are left alone, so a second call changes nothing. g is modified
// in place.
func SetLabels(g *chem.Graph) {
	bondKeys := [2]chem.Key{chem.SBond, chem.PBond}
	chargeKeys := [2]chem.Key{chem.SCharge, chem.PCharge}
	for _, id := range g.AtomIDs() {
		attrs := g.Atom(id).Attrs
		var hyb, nbs [2]chem.Value
		for state, bk := range bondKeys {
			if attrs.Has(chargeKeys[state]) && attrs.Get(chargeKeys[state]).IsNone() {
				hyb[state], nbs[state] = chem.None, chem.None
				continue
			}
			h, n := label(g, id, bk)
			hyb[state], nbs[state] = chem.Int(h), chem.Int(n)
		}

		labels := chem.Attrs{
			chem.SHyb:        hyb[0],
			chem.PHyb:        hyb[1],
			chem.SPHyb:       combined(hyb),
			chem.SNeighbors:  nbs[0],
			chem.PNeighbors:  nbs[1],
			chem.SPNeighbors: combined(nbs),
		}
		for k, v := range labels {
			if attrs.Get(k).IsNone() {
				attrs[k] = v
			}
		}
	}
}

// label returns the hybridization class and heavy-atom neighbor count of
// atom id in the state read from bond slot bk.
func label(g *chem.Graph, id int, bk chem.Key) (hyb, nbs int) {
	hyb = HybSP3
	for _, m := range g.Neighbors(id) {
		order := g.Bond(id, m).Attrs.Get(bk)
		if g.Atom(m).Element != "H" && bonded(order) {
			nbs++
		}
		n, ok := order.Int()
		if !ok {
			continue
		}
		switch {
		case n == 4:
			hyb = HybAromatic
		case n == 3, n == 2 && hyb == HybSP2:
			hyb = HybSP
		case n == 2 && hyb == HybSP3:
			hyb = HybSP2
		}
	}
	return hyb, nbs
}

func combined(v [2]chem.Value) chem.Value {
	if v[0].Equal(v[1]) {
		return v[0]
	}
	return chem.Pair(v[0], v[1])
}

// bonded reports whether a bond slot describes an existing bond.
func bonded(v chem.Value) bool {
	switch v.Kind() {
	case chem.KindScalar:
		return v.Truthy()
	case chem.KindNone:
		return false
	}
	return true
}
