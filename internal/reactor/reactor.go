// File: reactor.go
package reactor

import (
	"cgrCore/internal/chem"
)

// Policy selects which atom and bond properties take part in matching.
type Policy struct {
	Stereo    bool
	Hyb       bool
	Neighbors bool
	Isotope   bool
	Element   bool
}

// DefaultPolicy matches on element, isotope, charge and bond order.
func DefaultPolicy() Policy {
	return Policy{Element: true}
}

// Reactor finds reaction templates inside condensed graphs and rewrites
// the matched regions. It is read-only after New.
type Reactor struct {
	policy  Policy
	centers []*chem.Graph
}

func New(p Policy) *Reactor {
	return &Reactor{policy: p, centers: reactionCenters()}
}

func (r *Reactor) Policy() Policy { return r.policy }

// reactionCenters returns the bond-change patterns: a bond that breaks
// next to a bond that forms one atom over, and a bond that forms.
func reactionCenters() []*chem.Graph {
	shift := chem.NewGraph()
	for id := 1; id <= 3; id++ {
		shift.AddAtom(id, chem.NewAtom(""))
	}
	shift.AddBond(1, 2, chem.NewBond(chem.Attrs{chem.SBond: chem.Int(1), chem.PBond: chem.None}))
	shift.AddBond(2, 3, chem.NewBond(chem.Attrs{chem.SBond: chem.None, chem.PBond: chem.Int(1)}))

	form := chem.NewGraph()
	form.AddAtom(1, chem.NewAtom(""))
	form.AddAtom(2, chem.NewAtom(""))
	form.AddBond(1, 2, chem.NewBond(chem.Attrs{chem.SBond: chem.None, chem.PBond: chem.Int(1)}))

	return []*chem.Graph{shift, form}
}

// listEq accepts a target value against a pattern value: a none pattern
// matches anything and a list pattern matches any of its items.
func listEq(target, pattern chem.Value) bool {
	switch {
	case pattern.IsNone():
		return true
	case pattern.IsList():
		return pattern.Contains(target)
	default:
		return target.Equal(pattern)
	}
}

// NodeMatch compares atoms on element, isotope and combined charge, plus
// combined stereo, hybridization and neighbor count when the policy asks.
// Unset pattern properties match anything.
func (r *Reactor) NodeMatch(target, pattern *chem.Atom) bool {
	if pattern.Element != "" && target.Element != pattern.Element {
		return false
	}
	if pattern.Isotope != 0 && target.Isotope != pattern.Isotope {
		return false
	}
	keys := []chem.Key{chem.SPCharge}
	if r.policy.Stereo {
		keys = append(keys, chem.SPStereo)
	}
	if r.policy.Neighbors {
		keys = append(keys, chem.SPNeighbors)
	}
	if r.policy.Hyb {
		keys = append(keys, chem.SPHyb)
	}
	for _, k := range keys {
		if !listEq(target.Attrs.Get(k), pattern.Attrs.Get(k)) {
			return false
		}
	}
	return true
}

// EdgeMatch compares bonds on combined order, plus combined stereo when the
// policy asks.
func (r *Reactor) EdgeMatch(target, pattern *chem.Bond) bool {
	if !listEq(target.Attrs.Get(chem.SPBond), pattern.Attrs.Get(chem.SPBond)) {
		return false
	}
	return !r.policy.Stereo || listEq(target.Attrs.Get(chem.SPStereo), pattern.Attrs.Get(chem.SPStereo))
}

// productNodeMatch compares atoms in their product state only.
func (r *Reactor) productNodeMatch(target, pattern *chem.Atom) bool {
	if target.Element != pattern.Element || target.Isotope != pattern.Isotope {
		return false
	}
	if !target.Attrs.Get(chem.PCharge).Equal(pattern.Attrs.Get(chem.PCharge)) {
		return false
	}
	return !r.policy.Stereo || target.Attrs.Get(chem.PStereo).Equal(pattern.Attrs.Get(chem.PStereo))
}

func (r *Reactor) productEdgeMatch(target, pattern *chem.Bond) bool {
	if !target.Attrs.Get(chem.PBond).Equal(pattern.Attrs.Get(chem.PBond)) {
		return false
	}
	return !r.policy.Stereo || target.Attrs.Get(chem.PStereo).Equal(pattern.Attrs.Get(chem.PStereo))
}

// BondOnly compares bonds on their substrate and product orders.
func BondOnly(target, pattern *chem.Bond) bool {
	return target.Attrs.Get(chem.SBond).Equal(pattern.Attrs.Get(chem.SBond)) &&
		target.Attrs.Get(chem.PBond).Equal(pattern.Attrs.Get(chem.PBond))
}
