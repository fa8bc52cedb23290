// File: handler.go
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cgrCore/internal/cgr"
	"cgrCore/internal/chem"
	"cgrCore/internal/config"
	"cgrCore/internal/mdl"
	"cgrCore/internal/metrics"
	"cgrCore/internal/reactor"
	"cgrCore/internal/render"
	"cgrCore/internal/tmpl"
)

const defaultSearchLimit = 20

type server struct {
	cfg       config.Config
	log       *slog.Logger
	core      *cgr.Core
	reactor   *reactor.Reactor
	templates []*reactor.Template

	mu       sync.Mutex
	sessions map[string]Session
}

func newServer(cfg config.Config, logger *slog.Logger) (*server, error) {
	core, err := cgr.New(cgr.Options{Mode: cfg.CGRType, ExtraLabels: cfg.ExtraLabels, Logger: logger})
	if err != nil {
		return nil, err
	}
	templates, err := tmpl.LoadTemplates(cfg.Templates...)
	if err != nil {
		return nil, err
	}
	logger.Info("Templates loaded", "count", len(templates))
	return &server{
		cfg:       cfg,
		log:       logger,
		core:      core,
		reactor:   reactor.New(cfg.Policy()),
		templates: templates,
		sessions:  make(map[string]Session),
	}, nil
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/cgr", s.instrument("/api/cgr", s.handleCGR))
	mux.Handle("/api/cgr/decompose", s.instrument("/api/cgr/decompose", s.handleDecompose))
	mux.Handle("/api/reactor/search", s.instrument("/api/reactor/search", s.handleSearch))
	return mux
}

// instrument restricts a route to POST and records its latency.
func (s *server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		start := time.Now()
		h(w, r)
		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.Debug("Request served", "route", route, "duration", elapsed)
	})
}

func (s *server) handleCGR(w http.ResponseWriter, r *http.Request) {
	var req CGRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	rx, err := mdl.ParseRXN(req.RXN)
	if err != nil {
		http.Error(w, "invalid rxn: "+err.Error(), http.StatusBadRequest)
		return
	}

	core := s.core
	if req.Mode != "" {
		core, err = cgr.New(cgr.Options{Mode: req.Mode, ExtraLabels: s.cfg.ExtraLabels, Logger: s.log})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	mode := core.Mode().String()

	g, err := core.Build(rx)
	if err != nil {
		http.Error(w, "failed to build condensed graph: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	metrics.CGRBuilds.WithLabelValues(mode).Inc()

	centers := reactionCenters(g)
	img, err := s.image(g, centers)
	if err != nil {
		http.Error(w, "failed to draw graph: "+err.Error(), http.StatusInternalServerError)
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = Session{Reaction: rx, CGR: g, Mode: mode}
	s.mu.Unlock()
	s.log.Info("Condensed graph built", "uuid", id, "mode", mode, "atoms", g.Order(), "bonds", g.Size(), "centers", centers)

	writeJSON(w, CGRResponse{UUID: id, Mode: mode, Graph: g, Image: img, Centers: centers})
}

func (s *server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	sess, ok := s.session(req.UUID)
	if !ok {
		http.Error(w, "uuid not found", http.StatusNotFound)
		return
	}

	rx, err := s.core.Decompose(sess.CGR)
	if err != nil {
		http.Error(w, "failed to decompose: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	metrics.CGRDecompositions.Inc()

	rsp := DecomposeResponse{Meta: rx.Meta}
	for _, role := range []chem.Role{chem.Substrate, chem.Product} {
		for _, mol := range rx.Molecules(role) {
			var buf bytes.Buffer
			if err := mdl.WriteMol(&buf, mol, role); err != nil {
				http.Error(w, "failed to write molfile: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if role == chem.Product {
				rsp.Products = append(rsp.Products, buf.String())
			} else {
				rsp.Substrates = append(rsp.Substrates, buf.String())
			}
		}
	}
	s.log.Info("Condensed graph decomposed", "uuid", req.UUID, "substrates", len(rsp.Substrates), "products", len(rsp.Products))
	writeJSON(w, rsp)
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	targets, code, err := s.searchTargets(req)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	searcher := s.reactor.TemplateSearcher(s.templates, true, s.cfg.Reactor.Speed).WithLogger(s.log)
	rsp := SearchResponse{Templates: []int{}, Candidates: []CandidateV{}}
	for _, target := range targets {
		for _, i := range searcher.Classify(target).Templates {
			if !slices.Contains(rsp.Templates, i) {
				rsp.Templates = append(rsp.Templates, i)
			}
		}
	}
	slices.Sort(rsp.Templates)
	result := "miss"
	if len(rsp.Templates) > 0 {
		result = "hit"
	}
	metrics.ReactorSearches.WithLabelValues(result).Inc()

	var graphs []*chem.Graph
search:
	for ti, target := range targets {
		for c := range searcher.Search(target) {
			if len(graphs) >= limit {
				break search
			}
			g := s.reactor.CloneSubgraphs(reactor.Patch(c))
			metrics.ReactorCandidates.WithLabelValues(strconv.Itoa(c.Template)).Inc()
			rsp.Candidates = append(rsp.Candidates, CandidateV{Target: ti, Template: c.Template, Meta: c.Meta, Graph: g})
			graphs = append(graphs, g)
		}
	}
	if len(graphs) > 0 {
		sheet, err := render.Sheet(graphs, s.cfg.Render.Size/2)
		if err != nil {
			http.Error(w, "failed to draw candidates: "+err.Error(), http.StatusInternalServerError)
			return
		}
		rsp.Sheet = pngURL(sheet)
	}
	s.log.Info("Templates searched", "result", result, "targets", len(targets), "templates", rsp.Templates, "candidates", len(rsp.Candidates))
	writeJSON(w, rsp)
}

// searchTargets picks the graphs a search request runs on: the records of
// an SD file, a single molfile, or the session's condensed graph, in that
// order of preference. The session graph is only read.
func (s *server) searchTargets(req SearchRequest) ([]*chem.Graph, int, error) {
	switch {
	case req.SDF != "":
		mols, err := mdl.ParseSDF(strings.NewReader(req.SDF))
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid sdf: %w", err)
		}
		if len(mols) == 0 {
			return nil, http.StatusBadRequest, errors.New("sdf holds no readable record")
		}
		return mols, 0, nil
	case req.Mol != "":
		mol, err := mdl.ParseMol(req.Mol)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid mol: %w", err)
		}
		return []*chem.Graph{mol}, 0, nil
	default:
		sess, ok := s.session(req.UUID)
		if !ok {
			return nil, http.StatusNotFound, errors.New("uuid not found")
		}
		return []*chem.Graph{sess.CGR}, 0, nil
	}
}

func (s *server) session(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// image draws g with the given atoms starred.
func (s *server) image(g *chem.Graph, marked []int) (string, error) {
	cfg, err := render.Calculate(g, s.cfg.Render.Size)
	if err != nil {
		if errors.Is(err, render.ErrEmpty) {
			return "", nil
		}
		return "", err
	}
	for _, id := range marked {
		cfg.Marked[id] = true
	}
	data, err := render.Graph(g, cfg)
	if err != nil {
		return "", err
	}
	return pngURL(data), nil
}

// reactionCenters returns the atoms whose charge changes or that touch a
// changing bond, in id order.
func reactionCenters(g *chem.Graph) []int {
	seen := make(map[int]bool)
	for _, id := range g.AtomIDs() {
		if g.Atom(id).Attrs.Get(chem.SPCharge).Kind() == chem.KindPair {
			seen[id] = true
		}
	}
	for _, e := range g.Edges() {
		if e.Bond.Attrs.Get(chem.SPBond).Kind() == chem.KindPair {
			seen[e.N], seen[e.M] = true, true
		}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func pngURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
