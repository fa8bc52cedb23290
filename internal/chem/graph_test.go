// File: graph_test.go
package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds a linear molecule of the given elements numbered from start.
func chain(start int, elements ...string) *Graph {
	g := NewGraph()
	for i, el := range elements {
		g.AddAtom(start+i, NewAtom(el))
		if i > 0 {
			g.AddBond(start+i-1, start+i, NewBond(Attrs{SBond: Int(1), PBond: Int(1), SPBond: Int(1)}))
		}
	}
	return g
}

func TestGraph_Basics(t *testing.T) {
	g := chain(1, "C", "C", "O")

	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, []int{1, 2, 3}, g.AtomIDs())
	assert.Equal(t, []int{1, 3}, g.Neighbors(2))
	assert.Same(t, g.Bond(1, 2), g.Bond(2, 1))
	assert.Nil(t, g.Bond(1, 3))

	assert.True(t, g.RemoveBond(2, 3))
	assert.False(t, g.RemoveBond(2, 3))
	assert.False(t, g.HasPath(1, 3))
	assert.True(t, g.HasPath(1, 2))

	g.RemoveAtom(2)
	assert.Equal(t, []int{1, 3}, g.AtomIDs())
	assert.Empty(t, g.Neighbors(1))
}

func TestGraph_Reserve(t *testing.T) {
	g := chain(5, "C", "N")

	ids := g.Reserve(2)
	assert.Equal(t, []int{7, 8}, ids)

	g.RemoveAtom(6)
	assert.Equal(t, []int{9}, g.Reserve(1), "arena never goes back")

	c := g.Clone()
	assert.Equal(t, []int{10}, c.Reserve(1))
}

func TestGraph_CloneIsDeep(t *testing.T) {
	g := chain(1, "C", "O")
	c := g.Clone()

	c.Atom(1).Attrs[SCharge] = Int(1)
	c.Bond(1, 2).Attrs[SBond] = Int(2)

	assert.False(t, g.Atom(1).Attrs.Has(SCharge))
	assert.Equal(t, Int(1), g.Bond(1, 2).Attrs.Get(SBond))
}

func TestGraph_Components(t *testing.T) {
	g, err := Union(chain(4, "O", "O"), chain(1, "C", "C", "C"))
	require.NoError(t, err)

	parts := g.Components()
	require.Len(t, parts, 2)
	assert.Equal(t, []int{1, 2, 3}, parts[0].AtomIDs())
	assert.Equal(t, []int{4, 5}, parts[1].AtomIDs())
	assert.Equal(t, 1, parts[1].Size())
}

func TestUnion_DuplicateAtom(t *testing.T) {
	_, err := Union(chain(1, "C"), chain(1, "O"))
	assert.ErrorIs(t, err, ErrDuplicateAtom)
}

func TestCompose(t *testing.T) {
	g := chain(1, "C", "C")
	g.Atom(1).X = 3.5
	g.Atom(1).Attrs[SCharge] = Int(0)

	h := NewGraph()
	a := NewAtom("N")
	a.Attrs[SCharge] = Int(1)
	h.AddAtom(1, a)
	h.AddAtom(3, NewAtom("O"))
	h.AddBond(1, 3, NewBond(Attrs{SBond: None, PBond: Int(1)}))

	c := Compose(g, h)

	assert.Equal(t, "N", c.Atom(1).Element)
	assert.Equal(t, 3.5, c.Atom(1).X)
	assert.Equal(t, Int(1), c.Atom(1).Attrs.Get(SCharge))
	assert.NotNil(t, c.Bond(1, 2))
	assert.Equal(t, Int(1), c.Bond(1, 3).Attrs.Get(PBond))
	assert.Equal(t, "C", g.Atom(1).Element, "inputs untouched")
}

func TestRelabel(t *testing.T) {
	g := chain(1, "C", "O")
	r := g.Relabel(map[int]int{1: 10})

	assert.Equal(t, []int{2, 10}, r.AtomIDs())
	assert.NotNil(t, r.Bond(10, 2))
	assert.Equal(t, "C", r.Atom(10).Element)
}
