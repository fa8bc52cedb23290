// File: sdf.go
package mdl

import (
	"bufio"
	"io"
	"strings"

	"cgrCore/internal/chem"
)

// ParseSDF reads every record of an SD file. Data items ("> <KEY>") go to
// the molecule's metadata. Records that do not parse are skipped.
func ParseSDF(r io.Reader) ([]*chem.Graph, error) {
	var mols []*chem.Graph
	err := eachRecord(r, "$$$$", func(record string) {
		mol, err := ParseMol(record)
		if err != nil {
			return
		}
		for k, v := range dataItems(splitLines(record)) {
			mol.Meta[k] = v
		}
		mols = append(mols, mol)
	})
	return mols, err
}

// eachRecord calls fn with the text between separator lines.
func eachRecord(r io.Reader, sep string, fn func(string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var sb strings.Builder
	flush := func() {
		if strings.TrimSpace(sb.String()) != "" {
			fn(sb.String())
		}
		sb.Reset()
	}
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == sep {
			flush()
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return err
	}
	flush()
	return nil
}

// dataItems collects the SD data block that follows "M  END".
func dataItems(lines []string) map[string]string {
	items := make(map[string]string)
	inData := false
	key := ""
	var val []string
	for _, l := range lines {
		if !inData {
			inData = strings.HasPrefix(l, "M  END")
			continue
		}
		if strings.HasPrefix(l, ">") {
			if key != "" {
				items[key] = strings.Join(val, "\n")
			}
			key, val = "", nil
			if i, j := strings.Index(l, "<"), strings.LastIndex(l, ">"); i >= 0 && j > i {
				key = l[i+1 : j]
			}
			continue
		}
		if strings.TrimSpace(l) == "" {
			if key != "" {
				items[key] = strings.Join(val, "\n")
			}
			key, val = "", nil
			continue
		}
		if key != "" {
			val = append(val, l)
		}
	}
	if key != "" {
		items[key] = strings.Join(val, "\n")
	}
	return items
}
