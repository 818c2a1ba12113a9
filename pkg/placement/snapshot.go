package placement

import (
	"bufio"
	"io"
	"strconv"

	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// WriteSnapshot dumps the occupancy grid of e row by row. Each cell is
// written as "None , " when empty or "<shape>(<id>) <orientation> , " when
// occupied, and each row ends with a newline.
func WriteSnapshot(e *floorplan.Engine, w io.Writer) error {
	bw := bufio.NewWriter(w)
	g := e.Grid()
	labels := make(map[floorplan.BlockID]string, e.Len())
	for _, b := range e.Blocks() {
		labels[b.ID] = b.Shape + "(" + strconv.FormatUint(uint64(b.ID), 10) + ") " + b.Orientation.String()
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if id := g.At(x, y); id != 0 {
				bw.WriteString(labels[id])
			} else {
				bw.WriteString("None")
			}
			bw.WriteString(" , ")
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ExportSnapshot writes the grid snapshot of e to path.
func ExportSnapshot(e *floorplan.Engine, path string) error {
	return writeAtomic(path, func(w io.Writer) error { return WriteSnapshot(e, w) })
}
