// File: graph.go
package chem

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrDuplicateAtom is returned when a union meets the same atom id twice.
var ErrDuplicateAtom = errors.New("chem: duplicate atom id")

// Atom is a graph node.
type Atom struct {
	Element string
	Isotope int // 0 = unspecified
	X, Y    float64
	Attrs   Attrs
}

// NewAtom returns an atom with an empty slot map.
func NewAtom(element string) *Atom {
	return &Atom{Element: element, Attrs: Attrs{}}
}

func (a *Atom) Clone() *Atom {
	c := *a
	c.Attrs = a.Attrs.Clone()
	return &c
}

// Bond is an undirected graph edge.
type Bond struct {
	Attrs Attrs
}

// NewBond returns a bond carrying the given slots.
func NewBond(attrs Attrs) *Bond {
	if attrs == nil {
		attrs = Attrs{}
	}
	return &Bond{Attrs: attrs}
}

func (b *Bond) Clone() *Bond {
	return &Bond{Attrs: b.Attrs.Clone()}
}

// Edge is a bond seen from its endpoints, N < M.
type Edge struct {
	N, M int
	Bond *Bond
}

// Graph is a mutable attributed molecular graph.
//
// Ids are positive integers unique inside the graph. The graph owns an id
// arena: Reserve hands out ids above everything the graph has held.
type Graph struct {
	atoms map[int]*Atom
	adj   map[int]map[int]*Bond
	Meta  map[string]string
	next  int
}

func NewGraph() *Graph {
	return &Graph{
		atoms: make(map[int]*Atom),
		adj:   make(map[int]map[int]*Bond),
		Meta:  make(map[string]string),
	}
}

// AddAtom inserts or replaces the atom with the given id.
func (g *Graph) AddAtom(id int, a *Atom) {
	if a.Attrs == nil {
		a.Attrs = Attrs{}
	}
	g.atoms[id] = a
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[int]*Bond)
	}
	if id > g.next {
		g.next = id
	}
}

// Atom returns the atom or nil.
func (g *Graph) Atom(id int) *Atom {
	return g.atoms[id]
}

func (g *Graph) Has(id int) bool {
	_, ok := g.atoms[id]
	return ok
}

// Order is the number of atoms.
func (g *Graph) Order() int { return len(g.atoms) }

// Size is the number of bonds.
func (g *Graph) Size() int {
	n := 0
	for _, nb := range g.adj {
		n += len(nb)
	}
	return n / 2
}

// AtomIDs returns all ids in ascending order.
func (g *Graph) AtomIDs() []int {
	return slices.Sorted(maps.Keys(g.atoms))
}

// AddBond links n and m, creating bare atoms for missing endpoints.
// The same *Bond is stored for both directions. Self loops are ignored.
func (g *Graph) AddBond(n, m int, b *Bond) {
	if n == m {
		return
	}
	for _, id := range []int{n, m} {
		if !g.Has(id) {
			g.AddAtom(id, &Atom{Attrs: Attrs{}})
		}
	}
	g.adj[n][m] = b
	g.adj[m][n] = b
}

// Bond returns the bond between n and m or nil.
func (g *Graph) Bond(n, m int) *Bond {
	return g.adj[n][m]
}

// RemoveBond deletes the bond and reports whether it existed.
func (g *Graph) RemoveBond(n, m int) bool {
	if g.adj[n][m] == nil {
		return false
	}
	delete(g.adj[n], m)
	delete(g.adj[m], n)
	return true
}

// RemoveAtom deletes the atom and its bonds.
func (g *Graph) RemoveAtom(id int) {
	for m := range g.adj[id] {
		delete(g.adj[m], id)
	}
	delete(g.adj, id)
	delete(g.atoms, id)
}

// Neighbors returns adjacent ids in ascending order.
func (g *Graph) Neighbors(id int) []int {
	return slices.Sorted(maps.Keys(g.adj[id]))
}

func (g *Graph) Degree(id int) int {
	return len(g.adj[id])
}

// Edges returns every bond once, ordered by (N, M).
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.AtomIDs() {
		for _, m := range g.Neighbors(n) {
			if n < m {
				edges = append(edges, Edge{N: n, M: m, Bond: g.adj[n][m]})
			}
		}
	}
	return edges
}

// IncidentEdges returns the bonds with at least one endpoint in ids.
func (g *Graph) IncidentEdges(ids map[int]bool) []Edge {
	var edges []Edge
	for _, e := range g.Edges() {
		if ids[e.N] || ids[e.M] {
			edges = append(edges, e)
		}
	}
	return edges
}

// Reserve returns n fresh ids and advances the arena past them.
func (g *Graph) Reserve(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		g.next++
		ids[i] = g.next
	}
	return ids
}

// Clone returns a deep copy, arena included.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for id, a := range g.atoms {
		c.AddAtom(id, a.Clone())
	}
	for _, e := range g.Edges() {
		c.AddBond(e.N, e.M, e.Bond.Clone())
	}
	maps.Copy(c.Meta, g.Meta)
	c.next = g.next
	return c
}

// Subgraph returns a deep copy induced by ids. Unknown ids are skipped.
func (g *Graph) Subgraph(ids []int) *Graph {
	c := NewGraph()
	keep := make(map[int]bool, len(ids))
	for _, id := range ids {
		if a := g.atoms[id]; a != nil {
			keep[id] = true
			c.AddAtom(id, a.Clone())
		}
	}
	for _, e := range g.Edges() {
		if keep[e.N] && keep[e.M] {
			c.AddBond(e.N, e.M, e.Bond.Clone())
		}
	}
	return c
}

// Components splits g into connected components ordered by their
// smallest id. Every component is a deep copy.
func (g *Graph) Components() []*Graph {
	seen := make(map[int]bool, len(g.atoms))
	var parts []*Graph
	for _, start := range g.AtomIDs() {
		if seen[start] {
			continue
		}
		var ids []int
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			ids = append(ids, n)
			for _, m := range g.Neighbors(n) {
				if !seen[m] {
					seen[m] = true
					queue = append(queue, m)
				}
			}
		}
		parts = append(parts, g.Subgraph(ids))
	}
	return parts
}

// HasPath reports whether a and b are connected.
func (g *Graph) HasPath(a, b int) bool {
	if !g.Has(a) || !g.Has(b) {
		return false
	}
	if a == b {
		return true
	}
	seen := map[int]bool{a: true}
	stack := []int{a}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for m := range g.adj[n] {
			if m == b {
				return true
			}
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}

// Relabel returns a deep copy with ids rewritten through mapping. Ids
// missing from mapping keep their value; the caller keeps the result
// injective.
func (g *Graph) Relabel(mapping map[int]int) *Graph {
	to := func(id int) int {
		if n, ok := mapping[id]; ok {
			return n
		}
		return id
	}
	c := NewGraph()
	for id, a := range g.atoms {
		c.AddAtom(to(id), a.Clone())
	}
	for _, e := range g.Edges() {
		c.AddBond(to(e.N), to(e.M), e.Bond.Clone())
	}
	maps.Copy(c.Meta, g.Meta)
	return c
}

// Union returns a deep copy of all graphs together. Atom ids must be
// disjoint.
func Union(graphs ...*Graph) (*Graph, error) {
	u := NewGraph()
	for _, g := range graphs {
		for _, id := range g.AtomIDs() {
			if u.Has(id) {
				return nil, fmt.Errorf("%w: %d", ErrDuplicateAtom, id)
			}
			u.AddAtom(id, g.atoms[id].Clone())
		}
		for _, e := range g.Edges() {
			u.AddBond(e.N, e.M, e.Bond.Clone())
		}
		maps.Copy(u.Meta, g.Meta)
	}
	return u, nil
}

// Compose returns a deep copy of g overlaid by h. Atoms and bonds present
// in both take h's slots key by key; element and isotope come from h when
// h sets them, coordinates stay g's.
func Compose(g, h *Graph) *Graph {
	c := g.Clone()
	for _, id := range h.AtomIDs() {
		ha := h.atoms[id]
		ca := c.atoms[id]
		if ca == nil {
			c.AddAtom(id, ha.Clone())
			continue
		}
		if ha.Element != "" {
			ca.Element = ha.Element
		}
		if ha.Isotope != 0 {
			ca.Isotope = ha.Isotope
		}
		ca.Attrs.Update(ha.Attrs)
	}
	for _, e := range h.Edges() {
		if cb := c.Bond(e.N, e.M); cb != nil {
			cb.Attrs.Update(e.Bond.Attrs)
			continue
		}
		c.AddBond(e.N, e.M, e.Bond.Clone())
	}
	maps.Copy(c.Meta, h.Meta)
	if h.next > c.next {
		c.next = h.next
	}
	return c
}
