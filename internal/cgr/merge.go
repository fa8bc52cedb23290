// File: merge.go
package cgr

import (
	"errors"
	"fmt"

	"cgrCore/internal/chem"
)

// ErrNestedValue is returned when a role slot already holds a pair or a
// family. Reconciling it would nest a pair inside a pair.
var ErrNestedValue = errors.New("cgr: role slot holds a composite value")

// NodeTriples are the dual atom properties merged after composition.
var NodeTriples = []chem.Triple{
	{S: chem.SNeighbors, P: chem.PNeighbors, SP: chem.SPNeighbors},
	{S: chem.SHyb, P: chem.PHyb, SP: chem.SPHyb},
	{S: chem.SStereo, P: chem.PStereo, SP: chem.SPStereo},
	{S: chem.SCharge, P: chem.PCharge, SP: chem.SPCharge},
}

// EdgeTriples are the dual bond properties merged after composition.
var EdgeTriples = []chem.Triple{
	{S: chem.SBond, P: chem.PBond, SP: chem.SPBond},
	{S: chem.SStereo, P: chem.PStereo, SP: chem.SPStereo},
}

// Reconcile derives the combined slot of every triple from its substrate
// and product slots:
//
//   - equal states give the scalar, different states the (s, p) pair;
//   - list states give a set of pairs (or the shared set when both lists
//     hold the same items) and the role slots are rewritten as its
//     projections;
//   - none in both states removes the combined slot.
//
// A role slot that is present only in one state gets an explicit None in
// the other. attrs is modified in place.
func Reconcile(attrs chem.Attrs, triples []chem.Triple) error {
	for _, t := range triples {
		if err := reconcile(attrs, t); err != nil {
			return err
		}
	}
	return nil
}

func reconcile(attrs chem.Attrs, t chem.Triple) error {
	hasS, hasP := attrs.Has(t.S), attrs.Has(t.P)
	if hasS != hasP {
		if !hasS {
			attrs[t.S] = chem.None
		} else {
			attrs[t.P] = chem.None
		}
	}
	ls, lp := attrs.Get(t.S), attrs.Get(t.P)
	if err := checkFlat(t.S, ls); err != nil {
		return err
	}
	if err := checkFlat(t.P, lp); err != nil {
		return err
	}

	switch {
	case ls.IsList() || lp.IsList():
		if ls.IsList() && lp.IsList() && ls.SameSet(lp) {
			set := chem.AnyOf(ls)
			attrs[t.S], attrs[t.P], attrs[t.SP] = set, set, set
			return nil
		}
		sp := chem.AnyOf(crossPairs(ls, lp)...)
		attrs[t.SP] = sp
		attrs[t.S], attrs[t.P] = project(sp)
	case !ls.Equal(lp):
		attrs[t.SP] = chem.Pair(ls, lp)
	case !ls.IsNone():
		attrs[t.SP] = ls
	default:
		delete(attrs, t.SP)
	}
	return nil
}

func checkFlat(k chem.Key, v chem.Value) error {
	switch v.Kind() {
	case chem.KindPair, chem.KindFamily:
		return fmt.Errorf("%w: %s = %s", ErrNestedValue, k, v)
	case chem.KindCandidates:
		for _, it := range v.Items() {
			if !it.IsSimple() {
				return fmt.Errorf("%w: %s = %s", ErrNestedValue, k, v)
			}
		}
	}
	return nil
}

// crossPairs pairs two states that are not both scalar. Two lists pair up
// positionally; a list against a scalar pairs every item with it. Equal
// halves are dropped.
func crossPairs(ls, lp chem.Value) []chem.Value {
	var pairs []chem.Value
	add := func(x, y chem.Value) {
		if !x.Equal(y) {
			pairs = append(pairs, chem.Pair(x, y))
		}
	}
	switch {
	case ls.IsList() && lp.IsList():
		xs, ys := ls.Items(), lp.Items()
		for i := 0; i < len(xs) && i < len(ys); i++ {
			add(xs[i], ys[i])
		}
	case ls.IsList():
		for _, x := range ls.Items() {
			add(x, lp)
		}
	default:
		for _, y := range lp.Items() {
			add(ls, y)
		}
	}
	return pairs
}

func project(set chem.Value) (s, p chem.Value) {
	items := set.Items()
	firsts := make([]chem.Value, 0, len(items))
	seconds := make([]chem.Value, 0, len(items))
	for _, it := range items {
		x, y, _ := it.Halves()
		firsts = append(firsts, x)
		seconds = append(seconds, y)
	}
	return chem.List(firsts...), chem.List(seconds...)
}

// StampRole turns a plain molecule, whose three slots agree, into a
// molecule of the given role: the role slot keeps the value, the other
// role slot becomes None and the combined slot is reconciled. g is
// modified in place.
func StampRole(g *chem.Graph, role chem.Role) error {
	stamp := func(attrs chem.Attrs, triples []chem.Triple) error {
		for _, t := range triples {
			own, other := t.Role(role), t.Role(role.Other())
			v, ok := attrs[own]
			if !ok {
				v, ok = attrs[t.SP]
			}
			if !ok {
				continue
			}
			attrs[own] = v
			attrs[other] = chem.None
		}
		return Reconcile(attrs, triples)
	}
	for _, id := range g.AtomIDs() {
		if err := stamp(g.Atom(id).Attrs, NodeTriples); err != nil {
			return fmt.Errorf("atom %d: %w", id, err)
		}
	}
	for _, e := range g.Edges() {
		if err := stamp(e.Bond.Attrs, EdgeTriples); err != nil {
			return fmt.Errorf("bond %d-%d: %w", e.N, e.M, err)
		}
	}
	return nil
}
