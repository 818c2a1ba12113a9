// Package floorplan implements the grid occupancy and collision engine of an
// interactive chip floorplanner.
//
// # Overview
//
// A design is a width×height grid of unit cells. Users place blocks, which
// are instances of catalog [Shape] values, by anchoring a shape's footprint
// at a cell. The [Engine] owns every placed [Block] and decides whether an
// edit is legal: no footprint cell may leave the grid and no cell may be
// claimed by two blocks.
//
// # Basic Usage
//
// Build a [Catalog] once and hand it to [New]:
//
//	cat, _ := floorplan.NewCatalog(
//	    floorplan.Shape{Name: "A", Footprint: floorplan.Rectangle(2, 1)},
//	)
//	e, _ := floorplan.New(10, 10, cat)
//	b, err := e.Place("A", 0, 0)
//
// Every edit is validate-then-commit. A rejected edit leaves the engine
// untouched and returns a coded error from pkg/errors (OUT_OF_BOUNDS,
// CELL_OCCUPIED, NO_SELECTION, ...). None of them are fatal.
//
// # Occupancy Grid
//
// The [Grid] is a dense row-major table of [BlockID] values and is purely a
// projection of the block set. The engine rebuilds it after every mutation,
// so the two can never drift apart. [Engine.Verify] checks the invariant.
//
// # Identity
//
// Blocks are identified by an explicit [BlockID] from a per-engine counter.
// IDs are never reused, so selections and guidelines keyed by ID stay valid
// or become detectably stale.
//
// # Orientation
//
// Orientations cycle R0 → MX → MY → R180 → R90. Footprints are not rotated;
// the orientation only changes which physical edge each logical pin side is
// drawn on, via the table behind [PhysicalSide].
//
// # Concurrency
//
// An [Engine] is not safe for concurrent use. The editor drives it from a
// single event loop.
package floorplan
