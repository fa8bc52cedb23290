// File: json.go
package chem

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes none as null, a scalar as a number, a pair as a
// two-element array, candidates as {"any": [...]} and a family as
// {"map": [[from, to], ...]}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNone:
		return []byte("null"), nil
	case KindScalar:
		return json.Marshal(v.n)
	case KindPair:
		return json.Marshal([2]Value{*v.s, *v.p})
	case KindCandidates:
		return json.Marshal(struct {
			Any []Value `json:"any"`
		}{v.items})
	case KindFamily:
		rows := make([][2]Value, len(v.table))
		for i, t := range v.table {
			rows[i] = [2]Value{t.From, t.To}
		}
		return json.Marshal(struct {
			Map [][2]Value `json:"map"`
		}{rows})
	}
	return nil, fmt.Errorf("chem: cannot encode value kind %s", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = None
	case len(data) > 0 && data[0] == '[':
		var halves []Value
		if err := json.Unmarshal(data, &halves); err != nil {
			return err
		}
		if len(halves) != 2 || !halves[0].IsSimple() || !halves[1].IsSimple() {
			return fmt.Errorf("chem: pair must hold two scalars or nulls: %s", data)
		}
		*v = Pair(halves[0], halves[1])
	case len(data) > 0 && data[0] == '{':
		var obj struct {
			Any []Value    `json:"any"`
			Map [][2]Value `json:"map"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Map != nil {
			rows := make([]Transition, len(obj.Map))
			for i, r := range obj.Map {
				rows[i] = Transition{From: r[0], To: r[1]}
			}
			*v = FamilyOf(rows...)
			return nil
		}
		for _, it := range obj.Any {
			if it.kind == KindCandidates || it.kind == KindFamily {
				return fmt.Errorf("chem: nested candidates: %s", data)
			}
		}
		*v = List(obj.Any...)
	default:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("chem: bad value %s: %w", data, err)
		}
		*v = Int(n)
	}
	return nil
}

type jsonAtom struct {
	ID      int     `json:"id"`
	Element string  `json:"element"`
	Isotope int     `json:"isotope,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Attrs   Attrs   `json:"attrs,omitempty"`
}

type jsonBond struct {
	N     int   `json:"n"`
	M     int   `json:"m"`
	Attrs Attrs `json:"attrs,omitempty"`
}

type jsonGraph struct {
	Atoms []jsonAtom        `json:"atoms"`
	Bonds []jsonBond        `json:"bonds"`
	Meta  map[string]string `json:"meta,omitempty"`
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	out := jsonGraph{Atoms: []jsonAtom{}, Bonds: []jsonBond{}, Meta: g.Meta}
	for _, id := range g.AtomIDs() {
		a := g.atoms[id]
		out.Atoms = append(out.Atoms, jsonAtom{ID: id, Element: a.Element, Isotope: a.Isotope, X: a.X, Y: a.Y, Attrs: a.Attrs})
	}
	for _, e := range g.Edges() {
		out.Bonds = append(out.Bonds, jsonBond{N: e.N, M: e.M, Attrs: e.Bond.Attrs})
	}
	return json.Marshal(out)
}

func (g *Graph) UnmarshalJSON(data []byte) error {
	var in jsonGraph
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*g = *NewGraph()
	for _, a := range in.Atoms {
		if a.ID <= 0 {
			return fmt.Errorf("chem: atom id must be positive, got %d", a.ID)
		}
		if g.Has(a.ID) {
			return fmt.Errorf("%w: %d", ErrDuplicateAtom, a.ID)
		}
		g.AddAtom(a.ID, &Atom{Element: a.Element, Isotope: a.Isotope, X: a.X, Y: a.Y, Attrs: a.Attrs})
	}
	for _, b := range in.Bonds {
		if !g.Has(b.N) || !g.Has(b.M) {
			return fmt.Errorf("chem: bond %d-%d references a missing atom", b.N, b.M)
		}
		g.AddBond(b.N, b.M, NewBond(b.Attrs))
	}
	for k, v := range in.Meta {
		g.Meta[k] = v
	}
	return nil
}
