// File: rxn.go
package mdl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"cgrCore/internal/cgr"
	"cgrCore/internal/chem"
)

// ParseRXN reads a V2000 rxnfile.
//
// Mapped atoms take their mapping number as id, so the same atom has the
// same id on both sides. Unmapped atoms get ids above the highest mapping
// number. Every molecule is stamped with its role.
func ParseRXN(text string) (*chem.Reaction, error) {
	lines := splitLines(text)
	start := -1
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "$RXN") {
			start = i
			break
		}
	}
	if start < 0 || len(lines) < start+5 {
		return nil, fmt.Errorf("%w: $RXN header not found", ErrFormat)
	}
	counts := lines[start+4]
	if len(counts) < 6 {
		return nil, fmt.Errorf("%w: short rxn counts line", ErrFormat)
	}
	nSub, nProd := parseIntSafe(counts[0:3]), parseIntSafe(counts[3:6])

	var blocks []*block
	var cur []string
	flush := func() error {
		if cur == nil {
			return nil
		}
		b, err := parseBlock(cur)
		if err != nil {
			return fmt.Errorf("molecule %d: %w", len(blocks)+1, err)
		}
		blocks = append(blocks, b)
		cur = nil
		return nil
	}
	for _, l := range lines[start+5:] {
		if strings.HasPrefix(l, "$MOL") {
			if err := flush(); err != nil {
				return nil, err
			}
			cur = []string{}
			continue
		}
		if cur != nil {
			cur = append(cur, l)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(blocks) != nSub+nProd {
		return nil, fmt.Errorf("%w: counts line announces %d molecules, found %d", ErrFormat, nSub+nProd, len(blocks))
	}

	rx := chem.NewReaction()
	if name := strings.TrimSpace(lines[start+1]); name != "" {
		rx.Meta["name"] = name
	}
	ids := assignIDs(blocks[:nSub], blocks[nSub:])
	for i, b := range blocks {
		role := chem.Substrate
		if i >= nSub {
			role = chem.Product
		}
		g := b.graph(ids[i])
		if err := cgr.StampRole(g, role); err != nil {
			return nil, fmt.Errorf("molecule %d: %w", i+1, err)
		}
		rx.Append(role, g)
	}
	return rx, nil
}

// assignIDs numbers the atoms of both roles: mapping numbers first, then
// fresh ids above every mapping number.
func assignIDs(subs, prods []*block) [][]int {
	next := 0
	for _, b := range append(append([]*block{}, subs...), prods...) {
		for _, m := range b.maps {
			next = max(next, m)
		}
	}
	var out [][]int
	for _, role := range [][]*block{subs, prods} {
		used := make(map[int]bool)
		for _, b := range role {
			ids := make([]int, len(b.atoms))
			for i, m := range b.maps {
				if m > 0 && !used[m] {
					ids[i] = m
					used[m] = true
				}
			}
			out = append(out, ids)
		}
	}
	for _, ids := range out {
		for i := range ids {
			if ids[i] == 0 {
				next++
				ids[i] = next
			}
		}
	}
	return out
}

// ParseRDF reads the reaction records of an RD file. $DTYPE/$DATUM pairs
// become reaction metadata; molecule records ($MFMT) are skipped.
func ParseRDF(r io.Reader) ([]*chem.Reaction, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []*chem.Reaction
	var rec []string
	isRxn := false
	flush := func() error {
		defer func() { rec, isRxn = nil, false }()
		if !isRxn {
			return nil
		}
		rx, err := parseRDFRecord(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", len(out)+1, err)
		}
		out = append(out, rx)
		return nil
	}
	for sc.Scan() {
		l := sc.Text()
		switch {
		case strings.HasPrefix(l, "$RFMT"), strings.HasPrefix(l, "$MFMT"):
			if err := flush(); err != nil {
				return nil, err
			}
			isRxn = strings.HasPrefix(l, "$RFMT")
			rec = []string{}
		case rec != nil:
			rec = append(rec, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseRDFRecord(lines []string) (*chem.Reaction, error) {
	end := len(lines)
	for i, l := range lines {
		if strings.HasPrefix(l, "$DTYPE") {
			end = i
			break
		}
	}
	rx, err := ParseRXN(strings.Join(lines[:end], "\n"))
	if err != nil {
		return nil, err
	}
	key, inDatum := "", false
	for _, l := range lines[end:] {
		switch {
		case strings.HasPrefix(l, "$DTYPE"):
			key, inDatum = strings.TrimSpace(strings.TrimPrefix(l, "$DTYPE")), false
		case strings.HasPrefix(l, "$DATUM"):
			if key != "" {
				rx.Meta[key] = strings.TrimSpace(strings.TrimPrefix(l, "$DATUM"))
				inDatum = true
			}
		case inDatum && strings.TrimSpace(l) != "":
			// continuation of a long datum
			rx.Meta[key] += "\n" + l
		}
	}
	return rx, nil
}
