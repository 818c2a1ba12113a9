package floorplan

import (
	"maps"
	"slices"
)

// Guide describes the alignment guidelines of one block, in grid units.
// Vertical lines run along x = Left and x = Right; horizontal lines along
// y = Top and y = Bottom. Right and Bottom lie one past the last covered cell.
type Guide struct {
	ID                       BlockID
	Left, Right, Top, Bottom int
	Cells                    []Point
}

// ToggleGuideAt shows or hides the guidelines of the block covering (x, y)
// and reports whether they are now shown.
func (e *Engine) ToggleGuideAt(x, y int) (bool, error) {
	b, err := e.occupantAt(x, y)
	if err != nil {
		return false, err
	}
	if _, ok := e.guides[b.ID]; ok {
		delete(e.guides, b.ID)
		return false, nil
	}
	e.guides[b.ID] = struct{}{}
	return true, nil
}

// Guides returns the guidelines of every guided block in ID order.
func (e *Engine) Guides() []Guide {
	var out []Guide
	for _, id := range slices.Sorted(maps.Keys(e.guides)) {
		b, ok := e.blocks.Get(id)
		if !ok {
			delete(e.guides, id)
			continue
		}
		r := b.Bounds()
		out = append(out, Guide{
			ID:     id,
			Left:   r.X0,
			Right:  r.X1 + 1,
			Top:    r.Y0,
			Bottom: r.Y1 + 1,
			Cells:  b.Cells(),
		})
	}
	return out
}
