// File: searcher.go
package reactor

import (
	"io"
	"iter"
	"log/slog"
	"slices"

	"cgrCore/internal/chem"
)

// Candidate is one template match: a private copy of the target graph and
// the template's product pattern moved onto the target's atom ids.
type Candidate struct {
	Target   *chem.Graph
	Meta     map[string]string
	Products *chem.Graph
	// Template is the index of the matched template.
	Template int
}

// Report is the outcome of a classification.
type Report struct {
	Hit bool
	// Templates lists the indices of all templates found in the graph.
	Templates []int
}

// Searcher looks for a fixed template set. It keeps no per-search state
// and never writes to the graphs it searches, so one searcher and one
// target can be used from several goroutines.
type Searcher struct {
	r         *Reactor
	templates []*Template
	prints    []Fingerprint
	patch     bool
	speed     bool
	log       *slog.Logger
}

// TemplateSearcher returns a searcher over templates. A searcher built
// without patch only classifies. With speed, templates whose fingerprint
// is not contained in the target's are skipped before the isomorphism
// search.
func (r *Reactor) TemplateSearcher(templates []*Template, patch, speed bool) *Searcher {
	s := &Searcher{
		r:         r,
		templates: templates,
		patch:     patch,
		speed:     speed,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if speed {
		s.prints = make([]Fingerprint, len(templates))
		for i, t := range templates {
			s.prints[i] = NewFingerprint(t.Substrates, r.policy)
		}
	}
	return s
}

// WithLogger sets the logger used for debug traces.
func (s *Searcher) WithLogger(l *slog.Logger) *Searcher {
	if l != nil {
		s.log = l
	}
	return s
}

// candidates returns the indices of templates worth an isomorphism search.
func (s *Searcher) candidates(g *chem.Graph) []int {
	var idx []int
	var fp Fingerprint
	if s.speed {
		fp = NewFingerprint(g, s.r.policy)
	}
	for i := range s.templates {
		if s.speed && !fp.Contains(s.prints[i]) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func (s *Searcher) embeddings(g *chem.Graph, t *Template) iter.Seq[chem.Embedding] {
	return chem.SubgraphIsomorphisms(g, t.Substrates, s.r.NodeMatch, s.r.EdgeMatch)
}

// Classify reports which templates occur in g.
func (s *Searcher) Classify(g *chem.Graph) Report {
	var rep Report
	for _, i := range s.candidates(g) {
		for range s.embeddings(g, s.templates[i]) {
			rep.Templates = append(rep.Templates, i)
			break
		}
	}
	rep.Hit = len(rep.Templates) > 0
	s.log.Debug("classified", "templates", rep.Templates)
	return rep
}

// Search yields a candidate for every embedding of every template in g.
// g is cloned once per iteration and the candidates share that clone as
// their target. Product atoms without a substrate counterpart get fresh
// ids reserved from the clone's arena, in ascending order of their
// template ids. A searcher built without patch yields nothing.
func (s *Searcher) Search(g *chem.Graph) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if !s.patch {
			return
		}
		target := g.Clone()
		for _, i := range s.candidates(g) {
			t := s.templates[i]
			for m := range s.embeddings(g, t) {
				c := Candidate{
					Target:   target,
					Meta:     t.Meta,
					Products: remap(t.Products, target, m),
					Template: i,
				}
				s.log.Debug("template matched", "template", i, "mapping", m)
				if !yield(c) {
					return
				}
			}
		}
	}
}

// remapWith relabels g through mapping; atoms missing from mapping get fresh
// ids reserved from arena. The returned map is the full relabeling.
func remapWith(g, arena *chem.Graph, mapping map[int]int) (*chem.Graph, map[int]int) {
	full := make(map[int]int, g.Order())
	var free []int
	for _, id := range g.AtomIDs() {
		if to, ok := mapping[id]; ok {
			full[id] = to
		} else {
			free = append(free, id)
		}
	}
	for i, id := range arena.Reserve(len(free)) {
		full[free[i]] = id
	}
	return g.Relabel(full), full
}

func remap(g, arena *chem.Graph, mapping map[int]int) *chem.Graph {
	out, _ := remapWith(g, arena, mapping)
	return out
}

// sortedKeys is used where map order would leak into results.
func sortedKeys(m map[int]bool) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
