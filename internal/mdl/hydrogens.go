// File: hydrogens.go
package mdl

import "cgrCore/internal/chem"

// defaultValence covers the organic subset; other elements get no implicit
// hydrogens.
var defaultValence = map[string]int{
	"B": 3, "C": 4, "N": 3, "O": 2, "P": 3, "S": 2,
	"F": 1, "Cl": 1, "Br": 1, "I": 1,
}

// ImplicitHydrogens fills each atom of the organic subset up to its default
// valence in the given role's state. Aromatic bonds count 1.5, charges
// shift the valence of N, O, P and S by one per unit.
func ImplicitHydrogens(g *chem.Graph, role chem.Role) map[int]int {
	bondKey, chargeKey := chem.SBond, chem.SCharge
	if role == chem.Product {
		bondKey, chargeKey = chem.PBond, chem.PCharge
	}
	out := make(map[int]int, g.Order())
	for _, id := range g.AtomIDs() {
		a := g.Atom(id)
		valence, ok := defaultValence[a.Element]
		if !ok {
			continue
		}
		if c, ok := a.Attrs.Get(chargeKey).Int(); ok && c != 0 {
			switch a.Element {
			case "N", "O", "P", "S":
				valence += c
			case "C", "B":
				valence -= abs(c)
			}
		}
		total := 0.0
		for _, m := range g.Neighbors(id) {
			order, ok := g.Bond(id, m).Attrs.Get(bondKey).Int()
			if !ok {
				continue
			}
			if order == 4 {
				total += 1.5
			} else {
				total += float64(order)
			}
		}
		out[id] = max(0, valence-int(total+0.5))
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
