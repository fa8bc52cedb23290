// File: labels_test.go
package cgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgrCore/internal/chem"
)

func setOrder(g *chem.Graph, n, m int, s, p chem.Value) {
	b := g.Bond(n, m)
	b.Attrs[chem.SBond], b.Attrs[chem.PBond] = s, p
}

func TestSetLabels(t *testing.T) {
	// H4-C1=C2-C3 turning into H4-C1-C2#C3
	g := molecule(1, "C", "C", "C")
	g.AddAtom(4, chem.NewAtom("H"))
	g.AddBond(1, 4, chem.NewBond(chem.Attrs{chem.SBond: chem.Int(1), chem.PBond: chem.Int(1)}))
	setOrder(g, 1, 2, chem.Int(2), chem.Int(1))
	setOrder(g, 2, 3, chem.Int(1), chem.Int(3))

	SetLabels(g)

	a1 := g.Atom(1).Attrs
	assert.Equal(t, chem.Int(HybSP2), a1.Get(chem.SHyb))
	assert.Equal(t, chem.Int(HybSP3), a1.Get(chem.PHyb))
	assert.True(t, chem.Pair(chem.Int(HybSP2), chem.Int(HybSP3)).Equal(a1.Get(chem.SPHyb)))
	assert.Equal(t, chem.Int(1), a1.Get(chem.SPNeighbors), "hydrogen is not counted")

	a2 := g.Atom(2).Attrs
	assert.True(t, chem.Pair(chem.Int(HybSP2), chem.Int(HybSP)).Equal(a2.Get(chem.SPHyb)))
	assert.Equal(t, chem.Int(2), a2.Get(chem.SPNeighbors))

	assert.Equal(t, chem.Int(HybSP3), g.Atom(4).Attrs.Get(chem.SPHyb))
}

func TestSetLabels_Priorities(t *testing.T) {
	tests := []struct {
		name   string
		orders []int
		want   int
	}{
		{"single", []int{1, 1}, HybSP3},
		{"double", []int{2, 1}, HybSP2},
		{"two doubles", []int{2, 2}, HybSP},
		{"triple", []int{3, 1}, HybSP},
		{"aromatic", []int{4, 4}, HybAromatic},
		{"aromatic then double", []int{4, 2}, HybAromatic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := molecule(1, "C", "C")
			g.AddAtom(3, chem.NewAtom("C"))
			g.AddBond(1, 3, chem.NewBond(nil))
			setOrder(g, 1, 2, chem.Int(tt.orders[0]), chem.Int(tt.orders[0]))
			setOrder(g, 1, 3, chem.Int(tt.orders[1]), chem.Int(tt.orders[1]))

			SetLabels(g)
			assert.Equal(t, chem.Int(tt.want), g.Atom(1).Attrs.Get(chem.SPHyb))
		})
	}
}

func TestSetLabels_KeepsGivenValues(t *testing.T) {
	g := molecule(1, "C", "O")
	g.Atom(1).Attrs[chem.SHyb] = chem.Int(HybAromatic)

	SetLabels(g)
	once := g.Clone()
	SetLabels(g)

	assert.Equal(t, chem.Int(HybAromatic), g.Atom(1).Attrs.Get(chem.SHyb))
	for _, id := range g.AtomIDs() {
		assert.Equal(t, once.Atom(id).Attrs, g.Atom(id).Attrs, "atom %d", id)
	}
}

func TestSetLabels_LeavingGroup(t *testing.T) {
	// C1-C2-O3-C4  >>  C1-C2
	r := chem.NewReaction()
	r.Substrates = []*chem.Graph{stamped(t, chem.Substrate, molecule(1, "C", "C", "O", "C"))}
	r.Products = []*chem.Graph{stamped(t, chem.Product, molecule(1, "C", "C"))}

	c, err := New(Options{ExtraLabels: true})
	require.NoError(t, err)
	g, err := c.Build(r)
	require.NoError(t, err)

	for _, id := range []int{3, 4} {
		a := g.Atom(id).Attrs
		assert.True(t, a.Get(chem.PHyb).IsNone(), "atom %d p_hyb", id)
		assert.True(t, a.Get(chem.PNeighbors).IsNone(), "atom %d p_neighbors", id)
		assert.True(t, chem.Pair(chem.Int(HybSP3), chem.None).Equal(a.Get(chem.SPHyb)), "atom %d sp_hyb %s", id, a.Get(chem.SPHyb))
	}
	assert.True(t, chem.Pair(chem.Int(2), chem.None).Equal(g.Atom(3).Attrs.Get(chem.SPNeighbors)))
	assert.True(t, chem.Pair(chem.Int(1), chem.None).Equal(g.Atom(4).Attrs.Get(chem.SPNeighbors)))

	a1 := g.Atom(1).Attrs
	assert.Equal(t, chem.Int(HybSP3), a1.Get(chem.SPHyb))
	assert.Equal(t, chem.Int(1), a1.Get(chem.SPNeighbors))
}

func TestSetLabels_AbsentState(t *testing.T) {
	g := stamped(t, chem.Substrate, molecule(1, "C", "O"))
	SetLabels(g)

	a := g.Atom(1).Attrs
	assert.Equal(t, chem.Int(1), a.Get(chem.SNeighbors))
	assert.True(t, a.Get(chem.PNeighbors).IsNone())
	assert.True(t, chem.Pair(chem.Int(1), chem.None).Equal(a.Get(chem.SPNeighbors)))
}
