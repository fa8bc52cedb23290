// File: mol.go
package mdl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cgrCore/internal/chem"
)

// ErrFormat is returned for text that is not a V2000 record.
var ErrFormat = errors.New("mdl: malformed record")

// V2000 charge column codes. 4 is a doublet radical, not a charge.
var chargeCodes = map[int]int{1: 3, 2: 2, 3: 1, 4: 0, 5: -1, 6: -2, 7: -3}

// block is a parsed connection table before ids are assigned.
type block struct {
	name  string
	atoms []*chem.Atom
	maps  []int // atom-atom mapping numbers, 0 = unmapped
	bonds []blockBond
}

type blockBond struct {
	from, to int // 0-based
	order    int
	stereo   int
}

// ParseMol reads one V2000 molfile. Atoms are numbered from 1 in file order
// and carry equal substrate, product and combined slots.
func ParseMol(text string) (*chem.Graph, error) {
	b, err := parseBlock(splitLines(text))
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(b.atoms))
	for i := range ids {
		ids[i] = i + 1
	}
	return b.graph(ids), nil
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func parseBlock(lines []string) (*block, error) {
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: too few lines", ErrFormat)
	}
	b := &block{name: strings.TrimSpace(lines[0])}

	var counts string
	for i, line := range lines {
		if len(line) >= 39 && strings.Contains(line[30:39], "V2000") {
			counts, lines = line, lines[i+1:]
			break
		}
	}
	if counts == "" {
		return nil, fmt.Errorf("%w: V2000 counts line not found", ErrFormat)
	}
	numAtoms := parseIntSafe(counts[0:3])
	numBonds := parseIntSafe(counts[3:6])
	if len(lines) < numAtoms+numBonds {
		return nil, fmt.Errorf("%w: %d lines for %d atoms and %d bonds", ErrFormat, len(lines), numAtoms, numBonds)
	}

	for i := 0; i < numAtoms; i++ {
		l := lines[i]
		if len(l) < 39 {
			return nil, fmt.Errorf("%w: short atom line %d", ErrFormat, i+1)
		}
		a := chem.NewAtom(strings.TrimSpace(l[31:34]))
		a.X = parseFloatSafe(l[0:10])
		a.Y = parseFloatSafe(l[10:20])
		if diff := parseIntSafe(l[34:36]); diff != 0 {
			if m, ok := massNumbers[a.Element]; ok {
				a.Isotope = m + diff
			}
		}
		setPlain(a.Attrs, chem.SCharge, chem.PCharge, chem.SPCharge, chem.Int(chargeCodes[parseIntSafe(l[36:39])]))
		b.atoms = append(b.atoms, a)
		m := 0
		if len(l) >= 63 {
			m = parseIntSafe(l[60:63])
		}
		b.maps = append(b.maps, m)
	}

	for i := 0; i < numBonds; i++ {
		l := lines[numAtoms+i]
		if len(l) < 9 {
			return nil, fmt.Errorf("%w: short bond line %d", ErrFormat, i+1)
		}
		bb := blockBond{
			from:  parseIntSafe(l[0:3]) - 1,
			to:    parseIntSafe(l[3:6]) - 1,
			order: parseIntSafe(l[6:9]),
		}
		if len(l) >= 12 {
			bb.stereo = parseIntSafe(l[9:12])
		}
		if bb.from < 0 || bb.from >= numAtoms || bb.to < 0 || bb.to >= numAtoms {
			return nil, fmt.Errorf("%w: bond %d references atom outside the table", ErrFormat, i+1)
		}
		b.bonds = append(b.bonds, bb)
	}

	// property block overrides the atom table
	for _, l := range lines[numAtoms+numBonds:] {
		switch {
		case strings.HasPrefix(l, "M  END"):
			return b, nil
		case strings.HasPrefix(l, "M  CHG"):
			for _, p := range propertyPairs(l) {
				if p[0] >= 1 && p[0] <= numAtoms {
					setPlain(b.atoms[p[0]-1].Attrs, chem.SCharge, chem.PCharge, chem.SPCharge, chem.Int(p[1]))
				}
			}
		case strings.HasPrefix(l, "M  ISO"):
			for _, p := range propertyPairs(l) {
				if p[0] >= 1 && p[0] <= numAtoms {
					b.atoms[p[0]-1].Isotope = p[1]
				}
			}
		}
	}
	return b, nil
}

// propertyPairs reads "M  XXXnn8 aaa vvv ..." entries.
func propertyPairs(l string) [][2]int {
	fields := strings.Fields(l)
	if len(fields) < 3 {
		return nil
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil
	}
	var out [][2]int
	for i := 0; i < n && 4+2*i < len(fields); i++ {
		a, err1 := strconv.Atoi(fields[3+2*i])
		v, err2 := strconv.Atoi(fields[4+2*i])
		if err1 != nil || err2 != nil {
			break
		}
		out = append(out, [2]int{a, v})
	}
	return out
}

// graph builds a molecule with the given atom ids, one per table row.
func (b *block) graph(ids []int) *chem.Graph {
	g := chem.NewGraph()
	for i, a := range b.atoms {
		g.AddAtom(ids[i], a.Clone())
	}
	for _, bb := range b.bonds {
		attrs := chem.Attrs{}
		setPlain(attrs, chem.SBond, chem.PBond, chem.SPBond, chem.Int(bb.order))
		if bb.stereo != 0 {
			setPlain(attrs, chem.SStereo, chem.PStereo, chem.SPStereo, chem.Int(bb.stereo))
		}
		g.AddBond(ids[bb.from], ids[bb.to], chem.NewBond(attrs))
	}
	if b.name != "" {
		g.Meta["name"] = b.name
	}
	return g
}

func setPlain(attrs chem.Attrs, s, p, sp chem.Key, v chem.Value) {
	attrs[s], attrs[p], attrs[sp] = v, v, v
}

func parseIntSafe(s string) int {
	n := 0
	fmt.Sscanf(strings.TrimSpace(s), "%d", &n)
	return n
}

func parseFloatSafe(s string) float64 {
	f := 0.0
	fmt.Sscanf(strings.TrimSpace(s), "%f", &f)
	return f
}

// massNumbers are the most abundant isotopes, the base of the V2000 mass
// difference column.
var massNumbers = map[string]int{
	"H": 1, "B": 11, "C": 12, "N": 14, "O": 16, "F": 19, "Na": 23, "Mg": 24,
	"Si": 28, "P": 31, "S": 32, "Cl": 35, "K": 39, "Ca": 40, "Fe": 56,
	"Cu": 63, "Zn": 64, "Br": 79, "Pd": 106, "Sn": 120, "I": 127,
}
