// File: core_test.go
package cgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgrCore/internal/chem"
)

// molecule builds a plain linear molecule numbered from start: neutral
// atoms, single bonds, all three slots equal.
func molecule(start int, elements ...string) *chem.Graph {
	g := chem.NewGraph()
	for i, el := range elements {
		a := chem.NewAtom(el)
		a.Attrs[chem.SCharge], a.Attrs[chem.PCharge], a.Attrs[chem.SPCharge] = chem.Int(0), chem.Int(0), chem.Int(0)
		g.AddAtom(start+i, a)
		if i > 0 {
			g.AddBond(start+i-1, start+i, chem.NewBond(chem.Attrs{
				chem.SBond: chem.Int(1), chem.PBond: chem.Int(1), chem.SPBond: chem.Int(1),
			}))
		}
	}
	return g
}

func stamped(t *testing.T, role chem.Role, g *chem.Graph) *chem.Graph {
	t.Helper()
	require.NoError(t, StampRole(g, role))
	return g
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		code  string
		typ   int
		subs  []int
		prods []int
	}{
		{"", 0, nil, nil},
		{"0", 0, nil, nil},
		{"1", 1, nil, nil},
		{"2", 2, nil, nil},
		{"101", 3, []int{0}, nil},
		{"102,101,102", 3, []int{1, 0}, nil},
		{"201", 4, nil, []int{0}},
		{"-101", 5, []int{0}, nil},
		{"-202", 6, nil, []int{1}},
		{"101,201", 7, []int{0}, []int{0}},
		{"-101,-201", 8, []int{0}, []int{0}},
		{"-101,201", 9, []int{0}, []int{0}},
		{"101,-201", 10, []int{0}, []int{0}},
		{"3, 101", 3, []int{0}, nil},
		{"5,101", 5, []int{0}, nil},
		{"7,101,202", 7, []int{0}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			m, err := ParseMode(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, m.Type)
			assert.Equal(t, tt.subs, m.Substrates)
			assert.Equal(t, tt.prods, m.Products)
		})
	}
}

func TestParseMode_Invalid(t *testing.T) {
	for _, code := range []string{"x", "99", "101,350", "7,101", "9,-202", "4"} {
		t.Run(code, func(t *testing.T) {
			_, err := ParseMode(code)
			assert.ErrorIs(t, err, ErrInvalidMode)
		})
	}

	_, err := New(Options{Mode: "8,101"})
	assert.ErrorIs(t, err, ErrInvalidMode, "configuration errors surface at construction")
}

func twoSubstrates() *chem.Reaction {
	r := chem.NewReaction()
	r.Substrates = []*chem.Graph{molecule(1, "C", "O"), molecule(3, "N", "N")}
	r.Products = []*chem.Graph{molecule(1, "C", "O")}
	return r
}

func TestBuild_SelectIncluded(t *testing.T) {
	c, err := New(Options{Mode: "101"})
	require.NoError(t, err)

	g, err := c.Build(twoSubstrates())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, g.AtomIDs())
}

func TestBuild_SelectExcluded(t *testing.T) {
	c, err := New(Options{Mode: "-101"})
	require.NoError(t, err)

	g, err := c.Build(twoSubstrates())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, g.AtomIDs())
}

func TestBuild_OutOfRangeIgnored(t *testing.T) {
	c, err := New(Options{Mode: "101,109"})
	require.NoError(t, err)

	g, err := c.Build(twoSubstrates())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, g.AtomIDs())
}

func TestMergeMols(t *testing.T) {
	r := twoSubstrates()

	c, err := New(Options{Mode: "-101,201"})
	require.NoError(t, err)
	pair, err := c.MergeMols(r)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, pair.Substrates.AtomIDs())
	assert.Equal(t, []int{1, 2}, pair.Products.AtomIDs())

	c, err = New(Options{Mode: "1"})
	require.NoError(t, err)
	_, err = c.MergeMols(r)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestBuild_Condensed(t *testing.T) {
	// C1-C2-Cl3  >>  C1=C2 + Cl3(-)
	r := chem.NewReaction()
	r.Substrates = []*chem.Graph{stamped(t, chem.Substrate, molecule(1, "C", "C", "Cl"))}
	prod := molecule(1, "C", "C")
	prod.Bond(1, 2).Attrs[chem.SBond], prod.Bond(1, 2).Attrs[chem.PBond], prod.Bond(1, 2).Attrs[chem.SPBond] = chem.Int(2), chem.Int(2), chem.Int(2)
	cl := molecule(3, "Cl")
	cl.Atom(3).Attrs[chem.SCharge], cl.Atom(3).Attrs[chem.PCharge], cl.Atom(3).Attrs[chem.SPCharge] = chem.Int(-1), chem.Int(-1), chem.Int(-1)
	r.Products = []*chem.Graph{stamped(t, chem.Product, prod), stamped(t, chem.Product, cl)}
	r.Meta["id"] = "r1"

	c, err := New(Options{})
	require.NoError(t, err)
	g, err := c.Build(r)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, g.AtomIDs())
	assert.Equal(t, "r1", g.Meta["id"])

	assert.True(t, chem.Pair(chem.Int(1), chem.Int(2)).Equal(g.Bond(1, 2).Attrs.Get(chem.SPBond)))
	broken := g.Bond(2, 3).Attrs
	assert.True(t, chem.Pair(chem.Int(1), chem.None).Equal(broken.Get(chem.SPBond)), "got %s", broken.Get(chem.SPBond))
	assert.True(t, broken.Get(chem.PBond).IsNone())

	assert.Equal(t, chem.Int(0), g.Atom(1).Attrs.Get(chem.SPCharge))
	assert.True(t, chem.Pair(chem.Int(0), chem.Int(-1)).Equal(g.Atom(3).Attrs.Get(chem.SPCharge)))

	assert.True(t, r.Substrates[0].Bond(2, 3).Attrs.Has(chem.PBond), "inputs untouched")
	assert.True(t, r.Products[0].Atom(1).Attrs.Has(chem.SCharge))
}

func TestBuild_RoundTrip(t *testing.T) {
	r := chem.NewReaction()
	r.Substrates = []*chem.Graph{stamped(t, chem.Substrate, molecule(1, "C", "C", "O"))}
	r.Products = []*chem.Graph{stamped(t, chem.Product, molecule(4, "N", "N")), stamped(t, chem.Product, molecule(6, "S"))}

	c, err := New(Options{})
	require.NoError(t, err)
	g, err := c.Build(r)
	require.NoError(t, err)

	back, err := c.Decompose(g)
	require.NoError(t, err)

	require.Len(t, back.Substrates, 1)
	require.Len(t, back.Products, 2)
	assert.Equal(t, []int{1, 2, 3}, back.Substrates[0].AtomIDs())
	assert.Equal(t, 2, back.Substrates[0].Size())
	assert.Equal(t, []int{4, 5}, back.Products[0].AtomIDs())
	assert.Equal(t, []int{6}, back.Products[1].AtomIDs())

	b := back.Substrates[0].Bond(2, 3).Attrs
	assert.Equal(t, chem.Int(1), b.Get(chem.SBond))
	assert.Equal(t, chem.Int(1), b.Get(chem.PBond))
	assert.Equal(t, chem.Int(1), b.Get(chem.SPBond))
	assert.Equal(t, chem.Int(0), back.Products[0].Atom(4).Attrs.Get(chem.SPCharge))
	assert.Equal(t, "N", back.Products[0].Atom(4).Element)
}

func TestDecompose_SharedAtoms(t *testing.T) {
	// C1-C2-Cl3 >> C1=C2 + Cl3(-): substrate keeps the C-Cl bond, product
	// splits into the alkene and the chloride
	r := chem.NewReaction()
	r.Substrates = []*chem.Graph{stamped(t, chem.Substrate, molecule(1, "C", "C", "Cl"))}
	prod := molecule(1, "C", "C")
	prod.Bond(1, 2).Attrs[chem.SBond], prod.Bond(1, 2).Attrs[chem.PBond], prod.Bond(1, 2).Attrs[chem.SPBond] = chem.Int(2), chem.Int(2), chem.Int(2)
	r.Products = []*chem.Graph{stamped(t, chem.Product, prod), stamped(t, chem.Product, molecule(3, "Cl"))}

	c, err := New(Options{})
	require.NoError(t, err)
	g, err := c.Build(r)
	require.NoError(t, err)
	back, err := c.Decompose(g)
	require.NoError(t, err)

	require.Len(t, back.Substrates, 1)
	assert.Equal(t, chem.Int(1), back.Substrates[0].Bond(1, 2).Attrs.Get(chem.SPBond))
	require.Len(t, back.Products, 2)
	assert.Equal(t, chem.Int(2), back.Products[0].Bond(1, 2).Attrs.Get(chem.SPBond))
	assert.Equal(t, []int{3}, back.Products[1].AtomIDs())
}
