// File: write.go
package mdl

import (
	"bufio"
	"fmt"
	"io"

	"cgrCore/internal/chem"
)

var chargeColumn = map[int]int{3: 1, 2: 2, 1: 3, -1: 5, -2: 6, -3: 7}

// WriteMol writes g as a V2000 molfile in the given role's state. Atoms are
// renumbered in id order and keep their id as mapping number. Bonds absent
// in the role are left out; list-valued orders are written as "any" (8).
func WriteMol(w io.Writer, g *chem.Graph, role chem.Role) error {
	bw := bufio.NewWriter(w)
	ids := g.AtomIDs()
	index := make(map[int]int, len(ids))
	for i, id := range ids {
		index[id] = i + 1
	}

	type row struct{ n, m, order, stereo int }
	var bonds []row
	bondKey, stereoKey := chem.SBond, chem.SStereo
	chargeKey := chem.SCharge
	if role == chem.Product {
		bondKey, stereoKey, chargeKey = chem.PBond, chem.PStereo, chem.PCharge
	}
	for _, e := range g.Edges() {
		v := e.Bond.Attrs.Get(bondKey)
		order := 8
		switch {
		case v.IsNone():
			continue
		case v.Kind() == chem.KindScalar:
			order, _ = v.Int()
		}
		stereo, _ := e.Bond.Attrs.Get(stereoKey).Int()
		bonds = append(bonds, row{index[e.N], index[e.M], order, stereo})
	}

	fmt.Fprintln(bw, g.Meta["name"])
	fmt.Fprintln(bw, "  cgrCore")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(ids), len(bonds))

	var charges, isotopes [][2]int
	for _, id := range ids {
		a := g.Atom(id)
		charge, _ := a.Attrs.Get(chargeKey).Int()
		if charge != 0 {
			charges = append(charges, [2]int{index[id], charge})
		}
		if a.Isotope != 0 {
			isotopes = append(isotopes, [2]int{index[id], a.Isotope})
		}
		fmt.Fprintf(bw, "%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0%3d  0  0\n",
			a.X, a.Y, 0.0, a.Element, chargeColumn[charge], id)
	}
	for _, b := range bonds {
		fmt.Fprintf(bw, "%3d%3d%3d%3d  0  0  0\n", b.n, b.m, b.order, b.stereo)
	}
	writeProperty(bw, "CHG", charges)
	writeProperty(bw, "ISO", isotopes)
	fmt.Fprintln(bw, "M  END")
	return bw.Flush()
}

// writeProperty writes "M  XXX" lines, eight entries per line.
func writeProperty(w io.Writer, tag string, entries [][2]int) {
	for len(entries) > 0 {
		n := min(len(entries), 8)
		fmt.Fprintf(w, "M  %s%3d", tag, n)
		for _, e := range entries[:n] {
			fmt.Fprintf(w, " %3d %3d", e[0], e[1])
		}
		fmt.Fprintln(w)
		entries = entries[n:]
	}
}
