// File: fingerprint.go
package reactor

import (
	"strconv"

	"cgrCore/internal/chem"
)

// Fingerprint counts structural features a match has to preserve. If a
// pattern embeds in a target, the target's fingerprint contains the
// pattern's.
type Fingerprint map[string]int

// NewFingerprint counts atoms by element (and isotope, when the policy
// matches on it) and bonds by concrete combined order. Wildcard
// properties are only counted in the totals.
func NewFingerprint(g *chem.Graph, p Policy) Fingerprint {
	fp := Fingerprint{"atoms": g.Order(), "bonds": g.Size()}
	for _, id := range g.AtomIDs() {
		a := g.Atom(id)
		if a.Element == "" {
			continue
		}
		fp["A:"+a.Element]++
		if p.Isotope && a.Isotope != 0 {
			fp["I:"+strconv.Itoa(a.Isotope)+a.Element]++
		}
	}
	for _, e := range g.Edges() {
		switch v := e.Bond.Attrs.Get(chem.SPBond); v.Kind() {
		case chem.KindScalar, chem.KindPair:
			fp["B:"+v.String()]++
		}
	}
	return fp
}

// Contains reports whether every count of sub is covered by fp.
func (fp Fingerprint) Contains(sub Fingerprint) bool {
	for k, n := range sub {
		if fp[k] < n {
			return false
		}
	}
	return true
}
