// File: patch.go
package reactor

import (
	"cgrCore/internal/chem"
)

// Patch writes a candidate's product pattern into a copy of its target.
//
// Lookup tables on shared atoms and bonds are resolved with the target's
// value of the same slot; a value the table does not know drops the slot,
// so the target's value stays. Bonds among shared atoms are removed from
// the target copy, then the product pattern is laid over it. The candidate
// is not modified.
func Patch(c Candidate) *chem.Graph {
	s := c.Target.Clone()
	p := c.Products.Clone()

	common := make(map[int]bool)
	for _, id := range p.AtomIDs() {
		if s.Has(id) {
			common[id] = true
			resolve(p.Atom(id).Attrs, s.Atom(id).Attrs, familyAtomKeys)
		}
	}
	for _, e := range p.Edges() {
		if !common[e.N] || !common[e.M] {
			continue
		}
		var seen chem.Attrs
		if sb := s.Bond(e.N, e.M); sb != nil {
			seen = sb.Attrs
		}
		resolve(e.Bond.Attrs, seen, familyBondKeys)
	}

	ids := sortedKeys(common)
	for i, n := range ids {
		for _, m := range ids[i+1:] {
			s.RemoveBond(n, m)
		}
	}
	return chem.Compose(s, p)
}

func resolve(attrs, seen chem.Attrs, keys []chem.Key) {
	for _, k := range keys {
		v := attrs.Get(k)
		if v.Kind() != chem.KindFamily {
			continue
		}
		if to, ok := v.Lookup(seen.Get(k)); ok {
			attrs[k] = to
		} else {
			delete(attrs, k)
		}
	}
}
