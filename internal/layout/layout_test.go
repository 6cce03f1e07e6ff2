package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	l := Default()
	positions := l.Positions()

	assert.Equal(t, "A01-A01", positions[0])
	assert.True(t, l.Contains("A02-D01"))
	assert.True(t, l.Contains("D05-F16"))
	assert.False(t, l.Contains("D05-E09"))
	assert.False(t, l.Contains("Z99-Z99"))

	for _, p := range positions {
		_, err := ParsePosition(p)
		assert.NoError(t, err, p)
	}
}

func TestDefault_CoversStoreMap(t *testing.T) {
	l := Default()

	assert.Len(t, l.Positions(), 185)
	for _, pos := range []string{
		"B01-A04", "B03-A01", "B04-A01", "B04-A03", "B04-B01", "B04-D04",
		"D01-A01", "D01-A02", "D01-B02", "D01-C02", "D01-D02", "B06-B02",
	} {
		assert.True(t, l.Contains(pos), pos)
	}
	for _, pos := range []string{"A01-D04", "C01-C05", "D05-D02", "B06-B01", "D01-C01"} {
		assert.False(t, l.Contains(pos), pos)
	}
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("A02-D01")
	require.NoError(t, err)
	assert.Equal(t, Position{Zone: "A", Shelf: "02", Row: "D", Slot: 1}, p)
	assert.Equal(t, "A02-D01", p.String())

	for _, bad := range []string{"", "A2-D01", "a02-d01", "A02D01", "A02-D1"} {
		_, err := ParsePosition(bad)
		assert.Error(t, err, bad)
	}
}

func TestRow_SlotNumbers(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Row{Row: "A", Count: 3}.SlotNumbers())
	assert.Equal(t, []int{8, 16}, Row{Row: "E", Count: 3, Slots: []int{8, 16}}.SlotNumbers())
	assert.Equal(t, []string{"D05-E08", "D05-E16"}, Row{Row: "E", Slots: []int{8, 16}}.Codes("D05"))
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":          `title: x`,
		"bad shelf id":   "shelves:\n  - id: A1\n    rows: [{row: A, count: 1}]",
		"no rows":        "shelves:\n  - id: A01",
		"bad row":        "shelves:\n  - id: A01\n    rows: [{row: AA, count: 1}]",
		"no slots":       "shelves:\n  - id: A01\n    rows: [{row: A}]",
		"slot range":     "shelves:\n  - id: A01\n    rows: [{row: A, slots: [100]}]",
		"duplicate":      "shelves:\n  - id: A01\n    rows: [{row: A, count: 2}, {row: A, slots: [2]}]",
		"malformed yaml": "shelves: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Storefront", l.Title)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	doc := "title: Branch 2\nshelves:\n  - id: B01\n    rows:\n      - row: A\n        count: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	l, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"B01-A01", "B01-A02"}, l.Positions())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
