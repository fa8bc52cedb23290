// File: attrs.go
package chem

import (
	"maps"
	"slices"
)

// Key names an attribute slot.
type Key string

const (
	SCharge     Key = "s_charge"
	PCharge     Key = "p_charge"
	SPCharge    Key = "sp_charge"
	SStereo     Key = "s_stereo"
	PStereo     Key = "p_stereo"
	SPStereo    Key = "sp_stereo"
	SHyb        Key = "s_hyb"
	PHyb        Key = "p_hyb"
	SPHyb       Key = "sp_hyb"
	SNeighbors  Key = "s_neighbors"
	PNeighbors  Key = "p_neighbors"
	SPNeighbors Key = "sp_neighbors"
	SBond       Key = "s_bond"
	PBond       Key = "p_bond"
	SPBond      Key = "sp_bond"
)

// Triple groups the substrate, product and combined slot of one property.
type Triple struct {
	S, P, SP Key
}

// Role returns the slot holding the property in the given role.
func (t Triple) Role(r Role) Key {
	if r == Product {
		return t.P
	}
	return t.S
}

// Role is a side of a transformation.
type Role int

const (
	Substrate Role = iota
	Product
)

func (r Role) String() string {
	if r == Product {
		return "products"
	}
	return "substrates"
}

// Other returns the opposite role.
func (r Role) Other() Role {
	if r == Product {
		return Substrate
	}
	return Product
}

// Attrs is the slot map of an atom or bond. A missing key and an explicit
// None are different things: the first means the slot was never set.
type Attrs map[Key]Value

// Get returns the slot value, None when missing.
func (a Attrs) Get(k Key) Value {
	return a[k]
}

// Has reports whether the slot is set, even to None.
func (a Attrs) Has(k Key) bool {
	_, ok := a[k]
	return ok
}

// Clone returns a copy. Values are immutable and shared.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}

// Update copies every slot of o into a.
func (a Attrs) Update(o Attrs) {
	maps.Copy(a, o)
}

// Delete removes the given slots.
func (a Attrs) Delete(keys ...Key) {
	for _, k := range keys {
		delete(a, k)
	}
}

// Keys returns the set slot names in sorted order.
func (a Attrs) Keys() []Key {
	return slices.Sorted(maps.Keys(a))
}
