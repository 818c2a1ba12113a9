package floorplan

import (
	"slices"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

// Grid is a dense occupancy table. Cells is row-major: index = y*Width + x.
// A zero entry means the cell is empty.
type Grid struct {
	Width  int
	Height int
	Cells  []BlockID
}

func newGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]BlockID, width*height),
	}
}

// InBounds reports whether (x, y) is on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the occupant of (x, y), or 0 if the cell is empty or off-grid.
func (g *Grid) At(x, y int) BlockID {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Cells[y*g.Width+x]
}

func (g *Grid) set(x, y int, id BlockID) {
	g.Cells[y*g.Width+x] = id
}

func (g *Grid) clone() *Grid {
	return &Grid{Width: g.Width, Height: g.Height, Cells: slices.Clone(g.Cells)}
}

func (g *Grid) reset() {
	clear(g.Cells)
}

// mark writes id into every cell of the block's footprint.
func (g *Grid) mark(b *Block, id BlockID) {
	for _, p := range b.cells {
		x, y := b.X+p.X, b.Y+p.Y
		if g.InBounds(x, y) {
			g.set(x, y, id)
		}
	}
}

// check is the single legality predicate. It reports the first failing cell
// of footprint translated to (x, y): off-grid cells are OUT_OF_BOUNDS, cells
// held by a block other than ignore are CELL_OCCUPIED.
func (g *Grid) check(footprint []Point, x, y int, ignore BlockID) error {
	for _, p := range footprint {
		cx, cy := x+p.X, y+p.Y
		if !g.InBounds(cx, cy) {
			return ferrors.New(ferrors.ErrCodeOutOfBounds, "cell %s is outside the %dx%d grid", FormatCell(cx, cy), g.Width, g.Height)
		}
		if id := g.Cells[cy*g.Width+cx]; id != 0 && id != ignore {
			return ferrors.New(ferrors.ErrCodeCellOccupied, "cell %s is occupied by block %d", FormatCell(cx, cy), id)
		}
	}
	return nil
}
