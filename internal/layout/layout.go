// Package layout describes the physical shelves of a store as data. A
// position code is <shelf>-<row><slot>, e.g. A02-D01 is shelf A02, row D,
// slot 1.
package layout

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default_layout.yaml
var defaultLayout []byte

type Layout struct {
	Title   string  `yaml:"title" json:"title"`
	Shelves []Shelf `yaml:"shelves" json:"shelves"`
}

type Shelf struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Rows  []Row  `yaml:"rows" json:"rows"`
}

// Row lists its slots either as a Count (1..Count) or explicitly. Slots
// wins when both are set.
type Row struct {
	Row   string `yaml:"row" json:"row"`
	Count int    `yaml:"count,omitempty" json:"count,omitempty"`
	Slots []int  `yaml:"slots,omitempty" json:"slots,omitempty"`
}

// Position is a parsed position code.
type Position struct {
	Zone  string
	Shelf string
	Row   string
	Slot  int
}

func (p Position) String() string {
	return Code(p.Zone+p.Shelf, p.Row, p.Slot)
}

var (
	shelfIDPattern  = regexp.MustCompile(`^[A-Z][0-9]{2}$`)
	rowPattern      = regexp.MustCompile(`^[A-Z]$`)
	positionPattern = regexp.MustCompile(`^([A-Z])([0-9]{2})-([A-Z])([0-9]{2})$`)
)

// Code formats a position code.
func Code(shelfID, row string, slot int) string {
	return fmt.Sprintf("%s-%s%02d", shelfID, row, slot)
}

// ParsePosition splits a position code into its parts.
func ParsePosition(code string) (Position, error) {
	m := positionPattern.FindStringSubmatch(code)
	if m == nil {
		return Position{}, fmt.Errorf("invalid position code %q", code)
	}
	slot, _ := strconv.Atoi(m[4])
	return Position{Zone: m[1], Shelf: m[2], Row: m[3], Slot: slot}, nil
}

// SlotNumbers returns the slots of the row in display order.
func (r Row) SlotNumbers() []int {
	if len(r.Slots) > 0 {
		return r.Slots
	}
	out := make([]int, r.Count)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Codes returns the position codes of the row.
func (r Row) Codes(shelfID string) []string {
	slots := r.SlotNumbers()
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = Code(shelfID, r.Row, s)
	}
	return out
}

// Positions returns every position code in layout order.
func (l *Layout) Positions() []string {
	var out []string
	for _, s := range l.Shelves {
		for _, r := range s.Rows {
			out = append(out, r.Codes(s.ID)...)
		}
	}
	return out
}

func (l *Layout) Contains(pos string) bool {
	for _, p := range l.Positions() {
		if p == pos {
			return true
		}
	}
	return false
}

func (l *Layout) Validate() error {
	if len(l.Shelves) == 0 {
		return errors.New("layout has no shelves")
	}
	seen := make(map[string]bool)
	for _, s := range l.Shelves {
		if !shelfIDPattern.MatchString(s.ID) {
			return fmt.Errorf("invalid shelf id %q", s.ID)
		}
		if len(s.Rows) == 0 {
			return fmt.Errorf("shelf %s has no rows", s.ID)
		}
		for _, r := range s.Rows {
			if !rowPattern.MatchString(r.Row) {
				return fmt.Errorf("shelf %s: invalid row %q", s.ID, r.Row)
			}
			slots := r.SlotNumbers()
			if len(slots) == 0 {
				return fmt.Errorf("shelf %s row %s has no slots", s.ID, r.Row)
			}
			for _, slot := range slots {
				if slot < 1 || slot > 99 {
					return fmt.Errorf("shelf %s row %s: slot %d out of range", s.ID, r.Row, slot)
				}
				code := Code(s.ID, r.Row, slot)
				if seen[code] {
					return fmt.Errorf("duplicate position %s", code)
				}
				seen[code] = true
			}
		}
	}
	return nil
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(err, "decode layout")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads a layout file, or the built-in layout when path is empty.
func Load(path string) (*Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read layout")
	}
	return Parse(data)
}

// Default returns the built-in layout.
func Default() *Layout {
	l, err := Parse(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("built-in layout is invalid: %v", err))
	}
	return l
}
