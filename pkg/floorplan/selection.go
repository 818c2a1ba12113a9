package floorplan

import (
	"maps"
	"slices"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

// SelectRegion replaces the selection with the distinct blocks that have a
// cell inside r. Blockage blocks are only included when withBlockage is set.
// It returns the new selection size.
func (e *Engine) SelectRegion(r Rect, withBlockage bool) int {
	clear(e.selected)
	for _, id := range e.idsIn(r) {
		b, _ := e.blocks.Get(id)
		if b.IsBlockage() && !withBlockage {
			continue
		}
		e.selected[id] = struct{}{}
	}
	return len(e.selected)
}

// SelectAt replaces the selection with the block covering (x, y).
func (e *Engine) SelectAt(x, y int) (Block, error) {
	b, err := e.occupantAt(x, y)
	if err != nil {
		return Block{}, err
	}
	clear(e.selected)
	e.selected[b.ID] = struct{}{}
	return b.clone(), nil
}

// ToggleSelectAt adds or removes the block covering (x, y) from the
// selection and reports whether it is now selected.
func (e *Engine) ToggleSelectAt(x, y int) (bool, error) {
	b, err := e.occupantAt(x, y)
	if err != nil {
		return false, err
	}
	if _, ok := e.selected[b.ID]; ok {
		delete(e.selected, b.ID)
		return false, nil
	}
	e.selected[b.ID] = struct{}{}
	return true, nil
}

// Select adds blocks by ID. Unknown IDs are ignored.
func (e *Engine) Select(ids ...BlockID) {
	for _, id := range ids {
		if _, ok := e.blocks.Get(id); ok {
			e.selected[id] = struct{}{}
		}
	}
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() { clear(e.selected) }

// Selected returns the selected block IDs in ascending order.
func (e *Engine) Selected() []BlockID {
	return slices.Sorted(maps.Keys(e.selected))
}

// IsSelected reports whether block id is selected.
func (e *Engine) IsSelected(id BlockID) bool {
	_, ok := e.selected[id]
	return ok
}

func (e *Engine) singleSelected() (*Block, error) {
	switch n := len(e.selected); {
	case n == 0:
		return nil, ferrors.New(ferrors.ErrCodeNoSelection, "no block selected")
	case n > 1:
		return nil, ferrors.New(ferrors.ErrCodeInvalidSelectionCount, "select exactly one block (%d selected)", n)
	}
	for id := range e.selected {
		b, _ := e.blocks.Get(id)
		return b, nil
	}
	return nil, nil
}
