// File: tmpl.go
package tmpl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cgrCore/internal/chem"
	"cgrCore/internal/mdl"
	"cgrCore/internal/reactor"
)

// library is the JSON layout of a template file.
type library struct {
	Templates []entry `json:"templates"`
}

type entry struct {
	Meta       map[string]string `json:"meta,omitempty"`
	Substrates []*chem.Graph     `json:"substrates"`
	Products   []*chem.Graph     `json:"products"`
}

// Decode reads a JSON template library. Graphs carry their attribute slots
// as written; nothing is stamped.
func Decode(r io.Reader) ([]*chem.Reaction, error) {
	var lib library
	if err := json.NewDecoder(r).Decode(&lib); err != nil {
		return nil, fmt.Errorf("decode template library: %w", err)
	}
	out := make([]*chem.Reaction, 0, len(lib.Templates))
	for i, e := range lib.Templates {
		if len(e.Substrates) == 0 || len(e.Products) == 0 {
			return nil, fmt.Errorf("template %d: both roles need at least one molecule", i)
		}
		rx := chem.NewReaction()
		for k, v := range e.Meta {
			rx.Meta[k] = v
		}
		rx.Append(chem.Substrate, e.Substrates...)
		rx.Append(chem.Product, e.Products...)
		out = append(out, rx)
	}
	return out, nil
}

// Encode writes reactions in the library layout read by Decode.
func Encode(w io.Writer, reactions []*chem.Reaction) error {
	lib := library{Templates: make([]entry, 0, len(reactions))}
	for _, rx := range reactions {
		lib.Templates = append(lib.Templates, entry{Meta: rx.Meta, Substrates: rx.Substrates, Products: rx.Products})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(lib)
}

// Load reads template reactions from a file. ".rdf" and ".rxn" files are
// read as mapped MDL reactions, anything else as a JSON library.
func Load(path string) ([]*chem.Reaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".rdf":
		return mdl.ParseRDF(f)
	case ".rxn":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		rx, err := mdl.ParseRXN(string(data))
		if err != nil {
			return nil, err
		}
		return []*chem.Reaction{rx}, nil
	default:
		return Decode(f)
	}
}

// LoadTemplates reads every path in order and prepares the concatenated
// reactions for search. Template indices follow that order.
func LoadTemplates(paths ...string) ([]*reactor.Template, error) {
	var all []*chem.Reaction
	for _, p := range paths {
		rxs, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("load templates %s: %w", p, err)
		}
		all = append(all, rxs...)
	}
	return reactor.PrepareTemplates(all)
}
