// Package catalog loads shape catalogs and project manifests.
//
// # Shape Catalogs
//
// A catalog lists the block shapes available to one design. Two formats are
// accepted, chosen by file extension.
//
// CSV (.csv), one shape per row, columns matched by header name:
//
//	block_name,width,height,color,pinside
//	SRAM,4,2,light blue,"{'T','B'}"
//	TSV,1,1,gray,set()
//	Blockage,1,1,black,{}
//
// YAML (.yaml, .yml):
//
//	shapes:
//	  - name: SRAM
//	    width: 4
//	    height: 2
//	    color: light blue
//	    pins: [T, B]
//
// Every footprint is the full width×height rectangle. The reserved "TSV"
// shape is marked round for drawing but still occupies its rectangle.
//
// # Manifests
//
// A project manifest lists the designs of a project and their grid sizes:
//
//	design_name,grid_width,grid_height
//	top,40,30
//
// # Errors
//
// Missing or malformed files are reported as MISSING_CONFIG errors from
// pkg/errors, wrapped with the offending path and line.
package catalog
