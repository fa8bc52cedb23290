// File: decompose.go
package cgr

import (
	"maps"

	"cgrCore/internal/chem"
	"cgrCore/internal/reactor"
)

var decomposeRoles = []chem.Role{chem.Substrate, chem.Product}

// Decompose splits a condensed graph back into substrate and product
// molecules. For each role the bonds absent in that role are broken, and in
// every remaining fragment the role's slots are copied onto the other role
// and the combined slot. Fragments made only of atoms that do not exist in
// the role are dropped. g is not modified.
func (c *Core) Decompose(g *chem.Graph) (*chem.Reaction, error) {
	r := chem.NewReaction()
	maps.Copy(r.Meta, g.Meta)

	for _, role := range decomposeRoles {
		bk := EdgeTriples[0].Role(role)
		pattern := chem.NewGraph()
		pattern.AddAtom(1, chem.NewAtom(""))
		pattern.AddAtom(2, chem.NewAtom(""))
		pattern.AddBond(1, 2, chem.NewBond(chem.Attrs{bk: chem.None}))
		absent := func(target, pattern *chem.Bond) bool {
			return target.Attrs.Get(bk).Equal(pattern.Attrs.Get(bk))
		}

		parts, _ := reactor.BondBrokenGraph(g, []*chem.Graph{pattern}, absent)
		for _, mol := range parts {
			if !inRole(mol, role) {
				continue
			}
			for _, id := range mol.AtomIDs() {
				restoreRole(mol.Atom(id).Attrs, NodeTriples, role)
			}
			for _, e := range mol.Edges() {
				restoreRole(e.Bond.Attrs, EdgeTriples, role)
			}
			maps.Copy(mol.Meta, g.Meta)
			r.Append(role, mol)
		}
		c.log.Debug("cgr decomposed", "role", role, "molecules", len(r.Molecules(role)))
	}
	return r, nil
}

// inRole reports whether some atom of mol exists in the role. Atoms that
// only exist in the other role carry an explicit None charge for it.
func inRole(mol *chem.Graph, role chem.Role) bool {
	key := NodeTriples[3].Role(role)
	for _, id := range mol.AtomIDs() {
		attrs := mol.Atom(id).Attrs
		if !attrs.Has(key) || !attrs.Get(key).IsNone() {
			return true
		}
	}
	return false
}

func restoreRole(attrs chem.Attrs, triples []chem.Triple, role chem.Role) {
	for _, t := range triples {
		v, ok := attrs[t.Role(role)]
		if !ok {
			continue
		}
		attrs[t.Role(role.Other())] = v
		if v.IsNone() {
			delete(attrs, t.SP)
		} else {
			attrs[t.SP] = v
		}
	}
}
