package floorplan

import (
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

// Direction is the axis along which [Engine.Duplicate] repeats blocks.
type Direction uint8

const (
	Vertical Direction = iota
	Horizontal
)

func (d Direction) String() string {
	if d == Horizontal {
		return "H"
	}
	return "V"
}

// ParseDirection accepts "V"/"H" or "vertical"/"horizontal", in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v", "vertical":
		return Vertical, nil
	case "h", "horizontal":
		return Horizontal, nil
	}
	return 0, ferrors.New(ferrors.ErrCodeMalformedInput, "invalid direction %q (use V or H)", s)
}

// Duplicate repeats every selected block along dir, leaving interval empty
// cells between copies. Step i places a copy at start + i*(extent+interval)
// when that anchor is on the grid and legal; failed steps are skipped and
// probing continues. Copies are independent blocks in orientation R0 and are
// registered immediately, so later probes see them. Selected blocks are
// processed in ascending ID order.
func (e *Engine) Duplicate(dir Direction, interval int) ([]Block, error) {
	ids := e.Selected()
	if len(ids) == 0 {
		return nil, e.report("duplicate", 0, ferrors.New(ferrors.ErrCodeNoSelection, "no blocks selected"))
	}
	if interval < 0 {
		return nil, e.report("duplicate", 0, ferrors.New(ferrors.ErrCodeMalformedInput, "interval must not be negative, got %d", interval))
	}

	dim := e.height
	if dir == Horizontal {
		dim = e.width
	}

	if interval >= dim {
		return nil, e.report("duplicate", 0, nil)
	}

	var created []Block
	for _, id := range ids {
		src, _ := e.blocks.Get(id)
		shape, _ := e.cat.Shape(src.Shape)
		w, h := shape.Extent()
		ext, start := h, src.Y
		if dir == Horizontal {
			ext, start = w, src.X
		}
		step := ext + interval
		for i := 1; i < dim; i++ {
			cand := start + i*step
			if cand >= dim {
				break
			}
			x, y := src.X, cand
			if dir == Horizontal {
				x, y = cand, src.Y
			}
			if e.grid.check(src.cells, x, y, 0) != nil {
				continue
			}
			b := e.add(src.Shape, x, y, R0)
			e.grid.mark(b, b.ID)
			created = append(created, b.clone())
		}
	}
	e.rebuild()
	return created, e.report("duplicate", len(created), nil)
}
