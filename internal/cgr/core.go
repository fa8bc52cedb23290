// File: core.go
package cgr

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"cgrCore/internal/chem"
)

// Options configure a Core.
type Options struct {
	// Mode is the selection code, see ParseMode. Empty means "0".
	Mode string
	// ExtraLabels infers hybridization and neighbor counts before merging.
	ExtraLabels bool
	Logger      *slog.Logger
}

// Core builds condensed graphs from reactions and splits them back.
// A Core is immutable after New and safe for concurrent use.
type Core struct {
	mode        Mode
	extraLabels bool
	log         *slog.Logger
}

// RolePair holds the two role ensembles of a reaction before composition.
type RolePair struct {
	Substrates *chem.Graph
	Products   *chem.Graph
}

// New resolves the selection mode once. A bad code fails here, not at
// build time.
func New(opts Options) (*Core, error) {
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Core{mode: mode, extraLabels: opts.ExtraLabels, log: log}, nil
}

func (c *Core) Mode() Mode { return c.mode }

// Build returns the graph selected by the mode: the plain union of the
// chosen molecules for modes 1 to 6, the condensed graph otherwise. The
// reaction's metadata is attached to the result. r is not modified.
func (c *Core) Build(r *chem.Reaction) (*chem.Graph, error) {
	var g *chem.Graph
	if c.mode.Merges() {
		pair, err := c.MergeMols(r)
		if err != nil {
			return nil, err
		}
		if c.extraLabels {
			SetLabels(pair.Substrates)
			SetLabels(pair.Products)
		}
		if g, err = compose(pair); err != nil {
			return nil, err
		}
	} else {
		var err error
		if g, err = c.split(r); err != nil {
			return nil, err
		}
		if c.extraLabels {
			SetLabels(g)
		}
	}
	maps.Copy(g.Meta, r.Meta)
	c.log.Debug("cgr built", "mode", c.mode.Type, "atoms", g.Order(), "bonds", g.Size())
	return g, nil
}

func (c *Core) split(r *chem.Reaction) (*chem.Graph, error) {
	var mols []*chem.Graph
	switch c.mode.Type {
	case 1:
		mols = r.Substrates
	case 2:
		mols = r.Products
	case 3:
		mols = pick(r.Substrates, c.mode.Substrates)
	case 4:
		mols = pick(r.Products, c.mode.Products)
	case 5:
		mols = omit(r.Substrates, c.mode.Substrates)
	case 6:
		mols = omit(r.Products, c.mode.Products)
	default:
		return nil, fmt.Errorf("%w: mode %d does not split", ErrInvalidMode, c.mode.Type)
	}
	g, err := chem.Union(mols...)
	if err != nil {
		return nil, fmt.Errorf("union: %w", err)
	}
	return g, nil
}

// MergeMols returns the two role ensembles selected by a merging mode
// (0, 7 to 10) as independent graphs. Other modes fail with ErrInvalidMode.
func (c *Core) MergeMols(r *chem.Reaction) (*RolePair, error) {
	var subs, prods []*chem.Graph
	switch c.mode.Type {
	case 0:
		subs, prods = r.Substrates, r.Products
	case 7:
		subs, prods = pick(r.Substrates, c.mode.Substrates), pick(r.Products, c.mode.Products)
	case 8:
		subs, prods = omit(r.Substrates, c.mode.Substrates), omit(r.Products, c.mode.Products)
	case 9:
		subs, prods = omit(r.Substrates, c.mode.Substrates), pick(r.Products, c.mode.Products)
	case 10:
		subs, prods = pick(r.Substrates, c.mode.Substrates), omit(r.Products, c.mode.Products)
	default:
		return nil, fmt.Errorf("%w: merging needs substrates and products, mode is %d", ErrInvalidMode, c.mode.Type)
	}
	s, err := chem.Union(subs...)
	if err != nil {
		return nil, fmt.Errorf("substrates: %w", err)
	}
	p, err := chem.Union(prods...)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return &RolePair{Substrates: s, Products: p}, nil
}

// pick returns the molecules at the given indices; missing ones are skipped.
func pick(mols []*chem.Graph, ix []int) []*chem.Graph {
	var out []*chem.Graph
	for _, i := range ix {
		if i >= 0 && i < len(mols) {
			out = append(out, mols[i])
		}
	}
	return out
}

// omit returns the molecules without the given indices. ix is descending.
func omit(mols []*chem.Graph, ix []int) []*chem.Graph {
	out := slices.Clone(mols)
	for _, i := range ix {
		if i >= 0 && i < len(out) {
			out = slices.Delete(out, i, i+1)
		}
	}
	return out
}

// stale lists the slots one role's graph must drop before its atoms are
// overlaid by the other role's: they describe the other state and are
// rebuilt by the merge.
type stale struct {
	edge, node, frontier []chem.Key
}

var staleSlots = map[chem.Role]stale{
	chem.Substrate: {
		edge:     []chem.Key{chem.PBond, chem.PStereo},
		node:     []chem.Key{chem.PCharge, chem.PStereo, chem.PNeighbors, chem.PHyb},
		frontier: []chem.Key{chem.PNeighbors, chem.PHyb},
	},
	chem.Product: {
		edge:     []chem.Key{chem.SBond, chem.SStereo},
		node:     []chem.Key{chem.SCharge, chem.SStereo, chem.SNeighbors, chem.SHyb},
		frontier: []chem.Key{chem.SNeighbors, chem.SHyb},
	},
}

// compose overlays the product ensemble on the substrate ensemble and
// merges the dual slots around the shared atoms. Both graphs of pair are
// modified.
func compose(pair *RolePair) (*chem.Graph, error) {
	common := make(map[int]bool)
	for _, id := range pair.Substrates.AtomIDs() {
		if pair.Products.Has(id) {
			common[id] = true
		}
	}

	extended := make(map[int]bool)
	sides := []struct {
		g    *chem.Graph
		role chem.Role
	}{{pair.Substrates, chem.Substrate}, {pair.Products, chem.Product}}
	for _, side := range sides {
		drop := staleSlots[side.role]
		for _, e := range side.g.IncidentEdges(common) {
			extended[e.N], extended[e.M] = true, true
			e.Bond.Attrs.Delete(drop.edge...)
		}
		for id := range common {
			side.g.Atom(id).Attrs.Delete(drop.node...)
		}
	}
	for _, side := range sides {
		drop := staleSlots[side.role]
		for id := range extended {
			if !common[id] && side.g.Has(id) {
				side.g.Atom(id).Attrs.Delete(drop.frontier...)
			}
		}
	}

	g := chem.Compose(pair.Substrates, pair.Products)

	for _, e := range g.IncidentEdges(extended) {
		if e.Bond.Attrs.Get(chem.SBond).IsNone() && e.Bond.Attrs.Get(chem.PBond).IsNone() {
			g.RemoveBond(e.N, e.M)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(extended)) {
		if err := Reconcile(g.Atom(id).Attrs, NodeTriples); err != nil {
			return nil, fmt.Errorf("atom %d: %w", id, err)
		}
	}
	for _, e := range g.IncidentEdges(common) {
		if err := Reconcile(e.Bond.Attrs, EdgeTriples); err != nil {
			return nil, fmt.Errorf("bond %d-%d: %w", e.N, e.M, err)
		}
	}
	return g, nil
}
