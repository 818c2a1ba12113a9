package floorplan

import (
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

// CanMove reports whether every block in ids can shift by (dx, dy) at once.
// Blocks in the set may move into cells the set itself vacates.
func (e *Engine) CanMove(ids []BlockID, dx, dy int) error {
	if len(ids) == 0 {
		return ferrors.New(ferrors.ErrCodeNoSelection, "no blocks selected")
	}
	hyp := e.grid.clone()
	moving := make([]*Block, 0, len(ids))
	for _, id := range ids {
		b, ok := e.blocks.Get(id)
		if !ok {
			return ferrors.New(ferrors.ErrCodeInternal, "unknown block %d", id)
		}
		hyp.mark(b, 0)
		moving = append(moving, b)
	}
	for _, b := range moving {
		if err := hyp.check(b.cells, b.X+dx, b.Y+dy, 0); err != nil {
			return err
		}
	}
	return nil
}

// MoveSelection shifts every selected block by (dx, dy). Either all blocks
// move or none do.
func (e *Engine) MoveSelection(dx, dy int) error {
	ids := e.Selected()
	if err := e.CanMove(ids, dx, dy); err != nil {
		return e.report("move", 0, err)
	}
	for _, id := range ids {
		b, _ := e.blocks.Get(id)
		b.X += dx
		b.Y += dy
	}
	e.rebuild()
	return e.report("move", len(ids), nil)
}

// Nudge moves the selection one cell in the direction of a w/a/s/d key.
func (e *Engine) Nudge(key string) error {
	dx, dy, ok := NudgeDelta(key)
	if !ok {
		return e.report("move", 0, ferrors.New(ferrors.ErrCodeMalformedInput, "unknown move key %q", key))
	}
	return e.MoveSelection(dx, dy)
}

// NudgeDelta maps w/a/s/d to unit offsets. Row 0 is the top of the grid.
func NudgeDelta(key string) (dx, dy int, ok bool) {
	switch strings.ToLower(key) {
	case "w":
		return 0, -1, true
	case "a":
		return -1, 0, true
	case "s":
		return 0, 1, true
	case "d":
		return 1, 0, true
	}
	return 0, 0, false
}

// MoveTo moves the single selected block so its anchor lands on target, a
// cell reference accepted by [ParseCell].
func (e *Engine) MoveTo(target string) error {
	b, err := e.singleSelected()
	if err != nil {
		return e.report("move_to", 0, err)
	}
	x, y, err := ParseCell(target)
	if err != nil {
		return e.report("move_to", 0, err)
	}
	if err := e.grid.check(b.cells, x, y, b.ID); err != nil {
		return e.report("move_to", 0, err)
	}
	b.X, b.Y = x, y
	e.rebuild()
	return e.report("move_to", 1, nil)
}
