package floorplan

import (
	"fmt"
	"slices"

	"github.com/kamstrup/intmap"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/observability"
)

// Engine owns the blocks of one design and every placement decision made
// about them. The occupancy grid is a projection of the block set and is
// rebuilt after each mutation.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	width, height int
	cat           *Catalog

	blocks *intmap.Map[BlockID, *Block]
	order  []BlockID // ascending
	nextID BlockID

	grid     *Grid
	selected map[BlockID]struct{}
	guides   map[BlockID]struct{}
}

// New creates an empty engine for a width×height grid.
func New(width, height int, cat *Catalog) (*Engine, error) {
	if width < 1 || height < 1 {
		return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "grid must be at least 1x1, got %dx%d", width, height)
	}
	if cat == nil {
		return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "no shape catalog")
	}
	return &Engine{
		width:    width,
		height:   height,
		cat:      cat,
		blocks:   intmap.New[BlockID, *Block](64),
		nextID:   1,
		grid:     newGrid(width, height),
		selected: make(map[BlockID]struct{}),
		guides:   make(map[BlockID]struct{}),
	}, nil
}

// =============================================================================
// Queries
// =============================================================================

// Width returns the number of grid columns.
func (e *Engine) Width() int { return e.width }

// Height returns the number of grid rows.
func (e *Engine) Height() int { return e.height }

// Catalog returns the shape catalog the engine was built with.
func (e *Engine) Catalog() *Catalog { return e.cat }

// Len returns the number of placed blocks.
func (e *Engine) Len() int { return len(e.order) }

// Block returns a copy of the block with the given ID.
func (e *Engine) Block(id BlockID) (Block, bool) {
	b, ok := e.blocks.Get(id)
	if !ok {
		return Block{}, false
	}
	return b.clone(), true
}

// Blocks returns copies of all blocks in ID order.
func (e *Engine) Blocks() []Block {
	out := make([]Block, 0, len(e.order))
	for _, id := range e.order {
		b, _ := e.blocks.Get(id)
		out = append(out, b.clone())
	}
	return out
}

// Occupant returns the ID of the block covering (x, y), or 0.
func (e *Engine) Occupant(x, y int) BlockID { return e.grid.At(x, y) }

// At returns the block covering (x, y).
func (e *Engine) At(x, y int) (Block, bool) {
	id := e.grid.At(x, y)
	if id == 0 {
		return Block{}, false
	}
	return e.Block(id)
}

// Grid returns a read-only copy of the occupancy grid.
func (e *Engine) Grid() *Grid { return e.grid.clone() }

// IsLegal reports whether shape can be anchored at (x, y) with every
// footprint cell on the grid and free or held by ignore (0 = no exclusion).
// Unknown shapes are never legal.
func (e *Engine) IsLegal(x, y int, shape string, ignore BlockID) bool {
	return e.CheckLegal(x, y, shape, ignore) == nil
}

// CheckLegal is [Engine.IsLegal] with the reason for rejection.
func (e *Engine) CheckLegal(x, y int, shape string, ignore BlockID) error {
	fp, ok := e.cat.footprint(shape)
	if !ok {
		return unknownShape(shape)
	}
	return e.grid.check(fp, x, y, ignore)
}

// Verify checks that every occupied cell is claimed by exactly one block and
// every block's footprint is fully marked with its ID.
func (e *Engine) Verify() error {
	want := newGrid(e.width, e.height)
	for _, id := range e.order {
		b, ok := e.blocks.Get(id)
		if !ok {
			return ferrors.New(ferrors.ErrCodeInternal, "block %d is listed but not registered", id)
		}
		for _, c := range b.Cells() {
			if !want.InBounds(c.X, c.Y) {
				return ferrors.New(ferrors.ErrCodeInternal, "block %d covers off-grid cell %s", id, FormatCell(c.X, c.Y))
			}
			if other := want.At(c.X, c.Y); other != 0 {
				return ferrors.New(ferrors.ErrCodeInternal, "cell %s is claimed by blocks %d and %d", FormatCell(c.X, c.Y), other, id)
			}
			want.set(c.X, c.Y, id)
		}
	}
	if e.blocks.Len() != len(e.order) {
		return ferrors.New(ferrors.ErrCodeInternal, "registry holds %d blocks, order lists %d", e.blocks.Len(), len(e.order))
	}
	for i, id := range e.grid.Cells {
		if want.Cells[i] != id {
			x, y := i%e.width, i/e.width
			return ferrors.New(ferrors.ErrCodeInternal, "cell %s holds %d, expected %d", FormatCell(x, y), id, want.Cells[i])
		}
	}
	return nil
}

// =============================================================================
// Placement and deletion
// =============================================================================

// Place anchors a new block of shape at (x, y) in orientation R0.
func (e *Engine) Place(shape string, x, y int) (Block, error) {
	if err := e.CheckLegal(x, y, shape, 0); err != nil {
		return Block{}, e.report("place", 0, err)
	}
	b := e.add(shape, x, y, R0)
	e.rebuild()
	return b.clone(), e.report("place", 1, nil)
}

// DeleteAt removes the block covering (x, y).
func (e *Engine) DeleteAt(x, y int) (Block, error) {
	b, err := e.occupantAt(x, y)
	if err != nil {
		return Block{}, e.report("delete", 0, err)
	}
	out := b.clone()
	e.remove(b.ID)
	e.rebuild()
	return out, e.report("delete", 1, nil)
}

// DeleteRegion removes every distinct block with at least one cell inside r.
// With blockageOnly, only Blockage blocks are removed. The removed blocks are
// returned in ID order.
func (e *Engine) DeleteRegion(r Rect, blockageOnly bool) []Block {
	var removed []Block
	for _, id := range e.idsIn(r) {
		b, _ := e.blocks.Get(id)
		if blockageOnly && !b.IsBlockage() {
			continue
		}
		removed = append(removed, b.clone())
		e.remove(id)
	}
	e.rebuild()
	e.report("delete_region", len(removed), nil)
	return removed
}

// Clear removes every block. IDs are not reset.
func (e *Engine) Clear() int {
	n := len(e.order)
	e.blocks.Clear()
	e.order = e.order[:0]
	clear(e.selected)
	clear(e.guides)
	e.rebuild()
	e.report("clear", n, nil)
	return n
}

// FillBlockage places a Blockage block on every empty cell of r where one
// fits, scanning columns left to right and each column top to bottom. Blockage
// shapes larger than one cell skip cells already covered by earlier fills.
func (e *Engine) FillBlockage(r Rect) ([]Block, error) {
	fp, ok := e.cat.footprint(BlockageShape)
	if !ok {
		return nil, e.report("fill", 0, unknownShape(BlockageShape))
	}
	c, ok := r.clip(e.width, e.height)
	if !ok {
		return nil, e.report("fill", 0, nil)
	}
	var placed []Block
	for x := c.X0; x <= c.X1; x++ {
		for y := c.Y0; y <= c.Y1; y++ {
			if e.grid.At(x, y) != 0 || e.grid.check(fp, x, y, 0) != nil {
				continue
			}
			b := e.add(BlockageShape, x, y, R0)
			e.grid.mark(b, b.ID)
			placed = append(placed, b.clone())
		}
	}
	e.rebuild()
	return placed, e.report("fill", len(placed), nil)
}

// CycleOrientation advances the block at (x, y) to the next orientation.
// Occupancy is unaffected.
func (e *Engine) CycleOrientation(x, y int) (Block, error) {
	b, err := e.occupantAt(x, y)
	if err != nil {
		return Block{}, e.report("orient", 0, err)
	}
	b.Orientation = b.Orientation.Next()
	return b.clone(), e.report("orient", 1, nil)
}

// SetOrientation sets the orientation of block id.
func (e *Engine) SetOrientation(id BlockID, o Orientation) error {
	b, ok := e.blocks.Get(id)
	if !ok {
		return e.report("orient", 0, ferrors.New(ferrors.ErrCodeEmptyCell, "no block %d", id))
	}
	if int(o) >= len(orientationNames) {
		return e.report("orient", 0, ferrors.New(ferrors.ErrCodeMalformedInput, "invalid orientation %d", o))
	}
	b.Orientation = o
	return e.report("orient", 1, nil)
}

// Swap replaces the shape of the single selected block with target. The
// target footprint must cover exactly the same offsets; anchor, orientation
// and identity are kept.
func (e *Engine) Swap(target string) (Block, error) {
	if target == "" {
		return Block{}, e.report("swap", 0, ferrors.New(ferrors.ErrCodeNoSelection, "select the expected block for swapping"))
	}
	to, ok := e.cat.Shape(target)
	if !ok {
		return Block{}, e.report("swap", 0, unknownShape(target))
	}
	b, err := e.singleSelected()
	if err != nil {
		return Block{}, e.report("swap", 0, err)
	}
	from, _ := e.cat.Shape(b.Shape)
	if !from.SameFootprint(to) {
		fw, fh := from.Extent()
		tw, th := to.Extent()
		return Block{}, e.report("swap", 0, ferrors.New(ferrors.ErrCodeShapeMismatch,
			"cannot swap %s (%dx%d) with %s (%dx%d): footprints differ", from.Name, fw, fh, to.Name, tw, th))
	}
	b.Shape = to.Name
	b.cells, _ = e.cat.footprint(to.Name)
	e.rebuild()
	return b.clone(), e.report("swap", 1, nil)
}

// =============================================================================
// Persistence bridge
// =============================================================================

// Record is the persisted form of a block.
type Record struct {
	Shape       string
	X, Y        int
	Orientation Orientation
}

// Records returns the persisted form of every block, keyed by ID.
func (e *Engine) Records() map[BlockID]Record {
	out := make(map[BlockID]Record, len(e.order))
	for _, id := range e.order {
		b, _ := e.blocks.Get(id)
		out[id] = Record{Shape: b.Shape, X: b.X, Y: b.Y, Orientation: b.Orientation}
	}
	return out
}

// Restore clears the engine and re-places records. Blockage records are
// restored before all others. Records that reference an unknown shape or do
// not fit are skipped; one warning per skipped record is returned.
func (e *Engine) Restore(records []Record) []error {
	e.blocks.Clear()
	e.order = e.order[:0]
	clear(e.selected)
	clear(e.guides)
	e.grid.reset()

	ordered := slices.Clone(records)
	slices.SortStableFunc(ordered, func(a, b Record) int {
		ab, bb := a.Shape == BlockageShape, b.Shape == BlockageShape
		switch {
		case ab && !bb:
			return -1
		case !ab && bb:
			return 1
		}
		return 0
	})

	var warnings []error
	for _, r := range ordered {
		if err := e.CheckLegal(r.X, r.Y, r.Shape, 0); err != nil {
			warnings = append(warnings, ferrors.Wrap(ferrors.GetCode(err), err, "skip %s at %s", r.Shape, FormatCell(r.X, r.Y)))
			continue
		}
		o := r.Orientation
		if int(o) >= len(orientationNames) {
			o = R0
		}
		b := e.add(r.Shape, r.X, r.Y, o)
		e.grid.mark(b, b.ID)
	}
	e.rebuild()
	e.report("restore", len(e.order), nil)
	return warnings
}

// =============================================================================
// Internals
// =============================================================================

func (e *Engine) add(shape string, x, y int, o Orientation) *Block {
	fp, _ := e.cat.footprint(shape)
	b := &Block{ID: e.nextID, Shape: shape, X: x, Y: y, Orientation: o, cells: fp}
	e.nextID++
	e.blocks.Put(b.ID, b)
	e.order = append(e.order, b.ID)
	return b
}

func (e *Engine) remove(id BlockID) {
	e.blocks.Del(id)
	if i, ok := slices.BinarySearch(e.order, id); ok {
		e.order = slices.Delete(e.order, i, i+1)
	}
	delete(e.selected, id)
	delete(e.guides, id)
}

// rebuild recomputes the grid from the block set.
func (e *Engine) rebuild() {
	e.grid.reset()
	for _, id := range e.order {
		b, _ := e.blocks.Get(id)
		e.grid.mark(b, id)
	}
}

func (e *Engine) occupantAt(x, y int) (*Block, error) {
	if !e.grid.InBounds(x, y) {
		return nil, ferrors.New(ferrors.ErrCodeOutOfBounds, "cell %s is outside the %dx%d grid", FormatCell(x, y), e.width, e.height)
	}
	id := e.grid.At(x, y)
	if id == 0 {
		return nil, ferrors.New(ferrors.ErrCodeEmptyCell, "no object there (%s)", FormatCell(x, y))
	}
	b, _ := e.blocks.Get(id)
	return b, nil
}

// idsIn returns the distinct block IDs with a cell inside r, ascending.
func (e *Engine) idsIn(r Rect) []BlockID {
	c, ok := r.clip(e.width, e.height)
	if !ok {
		return nil
	}
	seen := make(map[BlockID]struct{})
	var ids []BlockID
	for y := c.Y0; y <= c.Y1; y++ {
		for x := c.X0; x <= c.X1; x++ {
			id := e.grid.At(x, y)
			if id == 0 {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (e *Engine) report(op string, affected int, err error) error {
	observability.Edit().OnEdit(op, affected, err)
	return err
}

func unknownShape(name string) error {
	return ferrors.New(ferrors.ErrCodeUnknownShape, "unknown shape %q", name)
}

// String summarizes the engine for debugging.
func (e *Engine) String() string {
	return fmt.Sprintf("floorplan.Engine{%dx%d, blocks=%d, selected=%d}", e.width, e.height, len(e.order), len(e.selected))
}
