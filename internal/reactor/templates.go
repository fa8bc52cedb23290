// File: templates.go
package reactor

import (
	"fmt"
	"maps"

	"cgrCore/internal/chem"
)

// TemplateOffset shifts template atom ids away from the ids of working
// graphs.
const TemplateOffset = 1000

// Template is a reaction center: the substrate pattern searched for and
// the product pattern written in its place. Both share atom ids.
type Template struct {
	Meta       map[string]string
	Substrates *chem.Graph
	Products   *chem.Graph
}

var (
	familyAtomKeys = []chem.Key{
		chem.SCharge, chem.SHyb, chem.SNeighbors, chem.SStereo,
		chem.PCharge, chem.PHyb, chem.PNeighbors, chem.PStereo,
	}
	familyBondKeys = []chem.Key{chem.SBond, chem.PBond, chem.SStereo, chem.PStereo}
)

// PrepareTemplates turns template reactions into search patterns. Each role
// is merged into one graph. On atoms and bonds present in both roles, a
// multi-valued product slot becomes a lookup table from the substrate's
// value at the same position to the product's. Atom ids are shifted by
// TemplateOffset. The reactions are not modified.
func PrepareTemplates(reactions []*chem.Reaction) ([]*Template, error) {
	out := make([]*Template, 0, len(reactions))
	for i, rx := range reactions {
		s, err := chem.Union(rx.Substrates...)
		if err != nil {
			return nil, fmt.Errorf("template %d substrates: %w", i, err)
		}
		p, err := chem.Union(rx.Products...)
		if err != nil {
			return nil, fmt.Errorf("template %d products: %w", i, err)
		}

		common := make(map[int]bool)
		for _, id := range p.AtomIDs() {
			if s.Has(id) {
				common[id] = true
				toFamilies(p.Atom(id).Attrs, s.Atom(id).Attrs, familyAtomKeys)
			}
		}
		for _, e := range p.Edges() {
			if !common[e.N] || !common[e.M] {
				continue
			}
			if sb := s.Bond(e.N, e.M); sb != nil {
				toFamilies(e.Bond.Attrs, sb.Attrs, familyBondKeys)
			}
		}

		meta := maps.Clone(rx.Meta)
		if meta == nil {
			meta = map[string]string{}
		}
		out = append(out, &Template{
			Meta:       meta,
			Substrates: s.Relabel(offset(s)),
			Products:   p.Relabel(offset(p)),
		})
	}
	return out, nil
}

func toFamilies(prod, sub chem.Attrs, keys []chem.Key) {
	for _, k := range keys {
		pv := prod.Get(k)
		if !pv.IsList() {
			continue
		}
		from := sub.Get(k).Items()
		if !sub.Get(k).IsList() {
			from = []chem.Value{sub.Get(k)}
		}
		to := pv.Items()
		rows := make([]chem.Transition, 0, len(to))
		for i := 0; i < len(from) && i < len(to); i++ {
			rows = append(rows, chem.Transition{From: from[i], To: to[i]})
		}
		prod[k] = chem.FamilyOf(rows...)
	}
}

func offset(g *chem.Graph) map[int]int {
	m := make(map[int]int, g.Order())
	for _, id := range g.AtomIDs() {
		m[id] = id + TemplateOffset
	}
	return m
}
