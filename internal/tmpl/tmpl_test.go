// File: tmpl_test.go
package tmpl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgrCore/internal/chem"
)

const hydrolysis = `{
  "templates": [
    {
      "meta": {"name": "hydrolysis"},
      "substrates": [
        {"atoms": [
          {"id": 1, "element": "C", "attrs": {"s_charge": 0, "p_charge": 0}},
          {"id": 2, "element": "Cl", "attrs": {"s_charge": 0, "p_charge": null}}
        ],
        "bonds": [{"n": 1, "m": 2, "attrs": {"s_bond": 1, "p_bond": null, "sp_bond": [1, null]}}]}
      ],
      "products": [
        {"atoms": [
          {"id": 1, "element": "C", "attrs": {"s_charge": 0, "p_charge": {"any": [0, 1]}}},
          {"id": 3, "element": "O", "attrs": {"s_charge": null, "p_charge": 0}}
        ],
        "bonds": [{"n": 1, "m": 3, "attrs": {"s_bond": null, "p_bond": 1, "sp_bond": [null, 1]}}]}
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	rxs, err := Decode(strings.NewReader(hydrolysis))
	require.NoError(t, err)
	require.Len(t, rxs, 1)

	rx := rxs[0]
	assert.Equal(t, "hydrolysis", rx.Meta["name"])
	require.Len(t, rx.Substrates, 1)
	require.Len(t, rx.Products, 1)
	assert.True(t, chem.Pair(chem.Int(1), chem.None).Equal(rx.Substrates[0].Bond(1, 2).Attrs.Get(chem.SPBond)))
	assert.True(t, rx.Products[0].Atom(1).Attrs.Get(chem.PCharge).IsList())
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":      "templates:",
		"missing role":  `{"templates": [{"substrates": [{"atoms": [], "bonds": []}]}]}`,
		"duplicate id":  `{"templates": [{"substrates": [{"atoms": [{"id": 1}, {"id": 1}], "bonds": []}], "products": []}]}`,
		"dangling bond": `{"templates": [{"substrates": [{"atoms": [{"id": 1}], "bonds": [{"n": 1, "m": 2}]}], "products": []}]}`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(text))
			assert.Error(t, err)
		})
	}
}

func TestEncode_ReadBack(t *testing.T) {
	rxs, err := Decode(strings.NewReader(hydrolysis))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rxs))

	again, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, again, 1)
	if diff := cmp.Diff(rxs[0].Substrates[0].AtomIDs(), again[0].Substrates[0].AtomIDs()); diff != "" {
		t.Errorf("substrate ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rxs[0].Meta, again[0].Meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")
	require.NoError(t, os.WriteFile(path, []byte(hydrolysis), 0o644))

	ts, err := LoadTemplates(path, path)
	require.NoError(t, err)
	require.Len(t, ts, 2)

	tpl := ts[1]
	assert.Equal(t, []int{1001, 1002}, tpl.Substrates.AtomIDs())
	assert.Equal(t, []int{1001, 1003}, tpl.Products.AtomIDs())
	assert.Equal(t, chem.KindFamily, tpl.Products.Atom(1001).Attrs.Get(chem.PCharge).Kind())
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	_, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
