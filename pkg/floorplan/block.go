package floorplan

import "slices"

// BlockID identifies a placed block within one [Engine]. IDs come from a
// monotonic counter starting at 1 and are never reused; 0 means "no block".
type BlockID uint64

// Block is a placed instance of a catalog shape.
//
// Blocks returned by the engine are copies; mutating them has no effect on
// the engine state.
type Block struct {
	ID          BlockID
	Shape       string
	X, Y        int // anchor: the cell holding footprint offset (0,0)
	Orientation Orientation

	// Handles are opaque presentation handles (e.g. canvas item IDs).
	// They are never persisted and never read by the engine.
	Handles []int

	cells []Point // catalog footprint, shared and read-only
}

// Anchor returns the block's anchor cell.
func (b Block) Anchor() Point { return Point{b.X, b.Y} }

// Cells returns the absolute grid cells covered by the block.
func (b Block) Cells() []Point {
	out := make([]Point, len(b.cells))
	for i, p := range b.cells {
		out[i] = Point{b.X + p.X, b.Y + p.Y}
	}
	return out
}

// Bounds returns the inclusive bounding box of the block, derived from the
// anchor on every call.
func (b Block) Bounds() Rect {
	r := Rect{X0: b.X, Y0: b.Y, X1: b.X, Y1: b.Y}
	for _, p := range b.cells {
		r.X1 = max(r.X1, b.X+p.X)
		r.Y1 = max(r.Y1, b.Y+p.Y)
	}
	return r
}

// PinEdges returns the physical edges carrying pins under the block's
// current orientation. Unknown shapes have no pins.
func (b Block) PinEdges(cat *Catalog) PinSides {
	s, ok := cat.shapes[b.Shape]
	if !ok {
		return 0
	}
	return PhysicalPins(b.Orientation, s.Pins)
}

// IsBlockage reports whether the block is a blockage fill cell.
func (b Block) IsBlockage() bool { return b.Shape == BlockageShape }

func (b *Block) clone() Block {
	c := *b
	c.Handles = slices.Clone(b.Handles)
	return c
}

// Rect is an inclusive rectangle of grid cells.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// RectFromCorners builds a rectangle from two drag corners given in any order.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X0: min(a.X, b.X), Y0: min(a.Y, b.Y),
		X1: max(a.X, b.X), Y1: max(a.Y, b.Y),
	}
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Width returns the number of columns spanned.
func (r Rect) Width() int { return r.X1 - r.X0 + 1 }

// Height returns the number of rows spanned.
func (r Rect) Height() int { return r.Y1 - r.Y0 + 1 }

// clip restricts r to [0,w)×[0,h). ok is false when nothing remains.
func (r Rect) clip(w, h int) (Rect, bool) {
	c := Rect{
		X0: max(r.X0, 0), Y0: max(r.Y0, 0),
		X1: min(r.X1, w-1), Y1: min(r.Y1, h-1),
	}
	return c, c.X0 <= c.X1 && c.Y0 <= c.Y1
}
