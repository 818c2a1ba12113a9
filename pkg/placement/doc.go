// Package placement provides JSON import and export of floorplan placements
// and the plain-text grid snapshot.
//
// # JSON Format
//
// A placement file is a single JSON object keyed by block ID. Each value
// records the shape, anchor and orientation of one block:
//
//	{
//	  "1": {"cell_name": "SRAM", "x": 0, "y": 0, "orientation": "R0"},
//	  "2": {"cell_name": "Blockage", "x": 5, "y": 3, "orientation": "R0"}
//	}
//
// Keys are informational only; block IDs are reassigned on load. Unknown
// fields (such as "shape_ids" written by older tools) are ignored, and a
// missing orientation defaults to R0.
//
// # Import
//
// Use [ImportJSON] to read a placement from a file path, or [ReadJSON] to
// read from any io.Reader. Records come back sorted by their numeric key so
// loading is deterministic. Apply them with [floorplan.Engine.Restore].
//
// # Export
//
// Use [ExportJSON] to write a placement to a file, or [WriteJSON] to write
// to any io.Writer. [ExportSnapshot] writes the human-readable grid dump that
// accompanies every save; it is not meant to be read back.
//
// # Documents
//
// Store backends persist a [Document]: the records plus the project and
// design they belong to, a revision ID and a timestamp.
package placement
