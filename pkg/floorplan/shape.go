package floorplan

import (
	"slices"
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

// Reserved shape names with special meaning to the engine and the editor.
const (
	// BlockageShape is the pseudo-shape used for region fill and
	// blockage-only deletion.
	BlockageShape = "Blockage"

	// TSVShape is the through-silicon-via shape. It is drawn as a circle
	// but occupies its full rectangular footprint.
	TSVShape = "TSV"
)

// Point is a cell position or a footprint offset in grid units.
type Point struct {
	X, Y int
}

// Side names one edge of a block.
type Side uint8

const (
	Top Side = iota
	Bottom
	Left
	Right
)

// Sides lists all sides in table order.
var Sides = [...]Side{Top, Bottom, Left, Right}

var sideLetters = [...]string{Top: "T", Bottom: "B", Left: "L", Right: "R"}

// String returns the single-letter catalog notation (T, B, L, R).
func (s Side) String() string {
	if int(s) < len(sideLetters) {
		return sideLetters[s]
	}
	return "?"
}

// ParseSide parses a single-letter side (case-insensitive).
func ParseSide(s string) (Side, error) {
	for i, l := range sideLetters {
		if strings.EqualFold(s, l) {
			return Side(i), nil
		}
	}
	return 0, ferrors.New(ferrors.ErrCodeMalformedInput, "invalid pin side %q (must be T, B, L or R)", s)
}

// PinSides is a set of sides carrying pins.
type PinSides uint8

// NewPinSides builds a set from the given sides.
func NewPinSides(sides ...Side) PinSides {
	var p PinSides
	for _, s := range sides {
		p |= 1 << s
	}
	return p
}

// Has reports whether s is in the set.
func (p PinSides) Has(s Side) bool { return p&(1<<s) != 0 }

// List returns the sides in table order.
func (p PinSides) List() []Side {
	var out []Side
	for _, s := range Sides {
		if p.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// String renders the set as in catalog files, e.g. "{T,B}".
func (p PinSides) String() string {
	parts := make([]string, 0, 4)
	for _, s := range p.List() {
		parts = append(parts, s.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Shape is an immutable block definition.
type Shape struct {
	Name      string
	Footprint []Point // offsets relative to the anchor at (0,0)
	Color     string
	Pins      PinSides
	Round     bool // drawn as a circle (TSV)
}

// Rectangle returns the full width×height footprint, rows first.
func Rectangle(width, height int) []Point {
	cells := make([]Point, 0, width*height)
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			cells = append(cells, Point{dx, dy})
		}
	}
	return cells
}

// Extent returns the footprint width and height (max offset + 1).
func (s Shape) Extent() (width, height int) {
	for _, p := range s.Footprint {
		width = max(width, p.X+1)
		height = max(height, p.Y+1)
	}
	return width, height
}

// SameFootprint reports whether both shapes cover the same set of offsets.
func (s Shape) SameFootprint(o Shape) bool {
	a, b := sortedCells(s.Footprint), sortedCells(o.Footprint)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}

func sortedCells(cells []Point) []Point {
	out := slices.Clone(cells)
	slices.SortFunc(out, func(a, b Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

// Catalog is the read-only set of shapes available to a design session.
type Catalog struct {
	shapes map[string]Shape
	order  []string
}

// NewCatalog validates shapes and returns an immutable catalog.
// Shapes keep the given order for listing; footprints are stored sorted
// row-major with duplicate offsets removed.
func NewCatalog(shapes ...Shape) (*Catalog, error) {
	c := &Catalog{shapes: make(map[string]Shape, len(shapes))}
	for _, s := range shapes {
		if err := ferrors.ValidateShapeName(s.Name); err != nil {
			return nil, err
		}
		if _, dup := c.shapes[s.Name]; dup {
			return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "duplicate shape %q", s.Name)
		}
		if len(s.Footprint) == 0 {
			return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "shape %q has an empty footprint", s.Name)
		}
		for _, p := range s.Footprint {
			if p.X < 0 || p.Y < 0 {
				return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "shape %q has negative offset (%d,%d)", s.Name, p.X, p.Y)
			}
		}
		s.Footprint = slices.Compact(sortedCells(s.Footprint))
		c.shapes[s.Name] = s
		c.order = append(c.order, s.Name)
	}
	return c, nil
}

// Shape returns the named shape. The footprint is a copy.
func (c *Catalog) Shape(name string) (Shape, bool) {
	s, ok := c.shapes[name]
	if ok {
		s.Footprint = slices.Clone(s.Footprint)
	}
	return s, ok
}

// Has reports whether the catalog defines name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.shapes[name]
	return ok
}

// Names returns shape names in catalog order.
func (c *Catalog) Names() []string { return slices.Clone(c.order) }

// Len returns the number of shapes.
func (c *Catalog) Len() int { return len(c.order) }

// footprint returns the stored footprint without copying; callers must not modify it.
func (c *Catalog) footprint(name string) ([]Point, bool) {
	s, ok := c.shapes[name]
	return s.Footprint, ok
}
