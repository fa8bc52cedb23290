// File: value.go
package chem

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind tags the shape held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindScalar
	KindPair
	KindCandidates
	KindFamily
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindScalar:
		return "scalar"
	case KindPair:
		return "pair"
	case KindCandidates:
		return "candidates"
	case KindFamily:
		return "family"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one attribute slot of an atom or bond.
//
// The zero Value is None: "no property in this state" (for bonds: no bond).
// Scalar holds a single integer, Pair a (substrate, product) couple whose
// halves are scalar or none, Candidates a list of none/scalar/pair items
// accepted at one position, and Family a template lookup table from a
// substrate value to the product value.
type Value struct {
	kind  Kind
	n     int
	s, p  *Value
	items []Value
	table []Transition
}

// Transition is one row of a Family table.
type Transition struct {
	From Value
	To   Value
}

// None is the neutral value.
var None = Value{}

// Int returns a scalar.
func Int(n int) Value {
	return Value{kind: KindScalar, n: n}
}

// Pair returns the (s, p) couple. Both halves must be none or scalar.
func Pair(s, p Value) Value {
	if !s.IsSimple() || !p.IsSimple() {
		panic(fmt.Sprintf("chem: pair of composite values %s, %s", s, p))
	}
	return Value{kind: KindPair, s: &s, p: &p}
}

// List returns an ordered multi-valued slot. Order and repeats are kept:
// template role slots pair up positionally.
func List(items ...Value) Value {
	flat := make([]Value, 0, len(items))
	for _, it := range items {
		switch it.kind {
		case KindCandidates:
			flat = append(flat, it.items...)
		case KindFamily:
			panic("chem: family value inside candidates")
		default:
			flat = append(flat, it)
		}
	}
	return Value{kind: KindCandidates, items: flat}
}

// AnyOf returns the canonical candidate set of items: deduplicated and
// sorted.
func AnyOf(items ...Value) Value {
	v := List(items...)
	slices.SortFunc(v.items, Value.Compare)
	v.items = slices.CompactFunc(v.items, Value.Equal)
	return v
}

// FamilyOf returns a lookup table value. A later row with an already seen
// From value replaces the earlier target; the row keeps its first position.
func FamilyOf(rows ...Transition) Value {
	table := make([]Transition, 0, len(rows))
	for _, r := range rows {
		if i := slices.IndexFunc(table, func(t Transition) bool { return t.From.Equal(r.From) }); i >= 0 {
			table[i].To = r.To
			continue
		}
		table = append(table, r)
	}
	return Value{kind: KindFamily, table: table}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNone() bool { return v.kind == KindNone }

// IsSimple reports whether v is none or a scalar.
func (v Value) IsSimple() bool { return v.kind == KindNone || v.kind == KindScalar }

// IsList reports whether v is multi-valued.
func (v Value) IsList() bool { return v.kind == KindCandidates }

// Int returns the scalar and true, or 0 and false for other kinds.
func (v Value) Int() (int, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return v.n, true
}

// Halves returns the two states of a pair.
func (v Value) Halves() (s, p Value, ok bool) {
	if v.kind != KindPair {
		return None, None, false
	}
	return *v.s, *v.p, true
}

// Items returns the candidates of a list value.
func (v Value) Items() []Value {
	if v.kind != KindCandidates {
		return nil
	}
	return slices.Clone(v.items)
}

// Rows returns the table of a family value.
func (v Value) Rows() []Transition {
	if v.kind != KindFamily {
		return nil
	}
	return slices.Clone(v.table)
}

// Lookup resolves key through a family table.
func (v Value) Lookup(key Value) (Value, bool) {
	for _, t := range v.table {
		if t.From.Equal(key) {
			return t.To, true
		}
	}
	return None, false
}

// Contains reports whether x is one of the candidates of v.
func (v Value) Contains(x Value) bool {
	if v.kind != KindCandidates {
		return false
	}
	return slices.ContainsFunc(v.items, x.Equal)
}

// SameSet reports whether two lists hold the same distinct items.
func (v Value) SameSet(o Value) bool {
	if v.kind != KindCandidates || o.kind != KindCandidates {
		return false
	}
	return AnyOf(v).Equal(AnyOf(o))
}

// Equal reports structural equality.
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

// Compare orders values by kind, then by content.
func (v Value) Compare(o Value) int {
	if c := cmp.Compare(v.kind, o.kind); c != 0 {
		return c
	}
	switch v.kind {
	case KindScalar:
		return cmp.Compare(v.n, o.n)
	case KindPair:
		if c := v.s.Compare(*o.s); c != 0 {
			return c
		}
		return v.p.Compare(*o.p)
	case KindCandidates:
		return slices.CompareFunc(v.items, o.items, Value.Compare)
	case KindFamily:
		return slices.CompareFunc(v.table, o.table, func(a, b Transition) int {
			if c := a.From.Compare(b.From); c != 0 {
				return c
			}
			return a.To.Compare(b.To)
		})
	}
	return 0
}

// Truthy reports a scalar other than zero. Bond orders use it to tell a
// bond from none.
func (v Value) Truthy() bool {
	return v.kind == KindScalar && v.n != 0
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindScalar:
		return strconv.Itoa(v.n)
	case KindPair:
		return "(" + v.s.String() + ">" + v.p.String() + ")"
	case KindCandidates:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.String()
		}
		return "{" + strings.Join(parts, ",") + "}"
	case KindFamily:
		parts := make([]string, len(v.table))
		for i, t := range v.table {
			parts[i] = t.From.String() + ":" + t.To.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return "?"
}
