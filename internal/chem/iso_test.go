// File: iso_test.go
package chem

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byElement(target, pattern *Atom) bool {
	return pattern.Element == "" || target.Element == pattern.Element
}

func TestSubgraphIsomorphisms_Edge(t *testing.T) {
	target := chain(1, "C", "C", "O")
	pattern := chain(1, "C", "O")

	var found []Embedding
	for e := range SubgraphIsomorphisms(target, pattern, byElement, nil) {
		found = append(found, e)
	}

	require.Len(t, found, 1)
	assert.Equal(t, Embedding{1: 2, 2: 3}, found[0])
	assert.Equal(t, map[int]int{2: 1, 3: 2}, found[0].Inverse())
}

func TestSubgraphIsomorphisms_Induced(t *testing.T) {
	// triangle: no induced 3-chain exists
	tri := chain(1, "C", "C", "C")
	tri.AddBond(1, 3, NewBond(nil))
	pattern := chain(1, "C", "C", "C")

	n := 0
	for range SubgraphIsomorphisms(tri, pattern, nil, nil) {
		n++
	}
	assert.Zero(t, n)
}

func TestSubgraphIsomorphisms_AllAutomorphisms(t *testing.T) {
	target := chain(1, "C", "C", "C")
	pattern := chain(1, "", "")

	var found []Embedding
	for e := range SubgraphIsomorphisms(target, pattern, nil, nil) {
		found = append(found, e)
	}
	// two edges, both orientations
	assert.Len(t, found, 4)
}

func TestSubgraphIsomorphisms_EdgeMatch(t *testing.T) {
	target := chain(1, "C", "C", "C")
	target.Bond(2, 3).Attrs[SPBond] = Int(2)
	pattern := chain(1, "C", "C")
	pattern.Bond(1, 2).Attrs[SPBond] = Int(2)

	em := func(tb, pb *Bond) bool { return tb.Attrs.Get(SPBond).Equal(pb.Attrs.Get(SPBond)) }

	var targets [][]int
	for e := range SubgraphIsomorphisms(target, pattern, nil, em) {
		got := []int{e[1], e[2]}
		slices.Sort(got)
		targets = append(targets, got)
	}
	require.Len(t, targets, 2)
	assert.Equal(t, []int{2, 3}, targets[0])
	assert.Equal(t, []int{2, 3}, targets[1])
}

func TestSubgraphIsomorphisms_StopEarly(t *testing.T) {
	target := chain(1, "C", "C", "C", "C")
	pattern := chain(1, "C")

	n := 0
	for range SubgraphIsomorphisms(target, pattern, nil, nil) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSubgraphIsomorphisms_Disconnected(t *testing.T) {
	target := chain(1, "C", "C", "O")
	pattern, err := Union(chain(1, "C"), chain(2, "O"))
	require.NoError(t, err)

	var found []Embedding
	for e := range SubgraphIsomorphisms(target, pattern, byElement, nil) {
		found = append(found, e)
	}
	// C1 must not be bonded to O3 in the target
	require.Len(t, found, 1)
	assert.Equal(t, Embedding{1: 1, 2: 3}, found[0])
}
