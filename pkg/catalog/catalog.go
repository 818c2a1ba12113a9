package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// Column names of a CSV shape catalog.
var catalogColumns = []string{"block_name", "width", "height", "color", "pinside"}

// Load reads a shape catalog from path. Files ending in .yaml or .yml are
// decoded with [ReadYAML]; everything else with [ReadCSV].
func Load(path string) (*floorplan.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "open catalog %s", path)
	}
	defer f.Close()

	var cat *floorplan.Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cat, err = ReadYAML(f)
	default:
		cat, err = ReadCSV(f)
	}
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "catalog %s", path)
	}
	return cat, nil
}

// ReadCSV decodes a CSV shape catalog. Columns are matched by header name
// and may appear in any order; extra columns are ignored.
func ReadCSV(r io.Reader) (*floorplan.Catalog, error) {
	rows, col, err := readTable(r, catalogColumns)
	if err != nil {
		return nil, err
	}

	shapes := make([]floorplan.Shape, 0, len(rows))
	for _, tr := range rows {
		line, row := tr.line, tr.fields
		name := strings.TrimSpace(row[col["block_name"]])
		w, err := dimension(row[col["width"]], "width")
		if err != nil {
			return nil, lineError(line, err)
		}
		h, err := dimension(row[col["height"]], "height")
		if err != nil {
			return nil, lineError(line, err)
		}
		pins, err := ParsePins(row[col["pinside"]])
		if err != nil {
			return nil, lineError(line, err)
		}
		shapes = append(shapes, newShape(name, w, h, strings.TrimSpace(row[col["color"]]), pins))
	}
	return floorplan.NewCatalog(shapes...)
}

type yamlCatalog struct {
	Shapes []yamlShape `yaml:"shapes"`
}

type yamlShape struct {
	Name   string   `yaml:"name"`
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Color  string   `yaml:"color"`
	Pins   []string `yaml:"pins"`
}

// ReadYAML decodes a YAML shape catalog.
func ReadYAML(r io.Reader) (*floorplan.Catalog, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "empty catalog")
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "decode")
	}

	shapes := make([]floorplan.Shape, 0, len(doc.Shapes))
	for i, s := range doc.Shapes {
		if s.Width < 1 || s.Height < 1 {
			return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "shape %d (%s): width and height must be at least 1", i, s.Name)
		}
		var pins floorplan.PinSides
		for _, p := range s.Pins {
			side, err := floorplan.ParseSide(strings.TrimSpace(p))
			if err != nil {
				return nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "shape %d (%s)", i, s.Name)
			}
			pins |= floorplan.NewPinSides(side)
		}
		shapes = append(shapes, newShape(s.Name, s.Width, s.Height, s.Color, pins))
	}
	return floorplan.NewCatalog(shapes...)
}

// WriteYAML encodes the catalog in the YAML catalog format. Footprints are
// written as their bounding width and height.
func WriteYAML(cat *floorplan.Catalog, w io.Writer) error {
	var doc yamlCatalog
	for _, name := range cat.Names() {
		s, _ := cat.Shape(name)
		width, height := s.Extent()
		ys := yamlShape{Name: s.Name, Width: width, Height: height, Color: s.Color}
		for _, side := range s.Pins.List() {
			ys.Pins = append(ys.Pins, side.String())
		}
		doc.Shapes = append(doc.Shapes, ys)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

func newShape(name string, w, h int, color string, pins floorplan.PinSides) floorplan.Shape {
	return floorplan.Shape{
		Name:      name,
		Footprint: floorplan.Rectangle(w, h),
		Color:     color,
		Pins:      pins,
		Round:     name == floorplan.TSVShape,
	}
}

// =============================================================================
// Table helpers
// =============================================================================

type tableRow struct {
	line   int
	fields []string
}

// readTable reads a CSV file with a header row and returns the non-blank data
// rows and the column index of every required column.
func readTable(r io.Reader, required []string) ([]tableRow, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ferrors.New(ferrors.ErrCodeMissingConfig, "missing header row")
	}
	if err != nil {
		return nil, nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "parse csv")
	}

	col := make(map[string]int, len(required))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, nil, ferrors.New(ferrors.ErrCodeMissingConfig, "missing column %q", name)
		}
	}

	var rows []tableRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "parse csv")
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		for _, name := range required {
			if col[name] >= len(rec) {
				return nil, nil, lineError(line, ferrors.New(ferrors.ErrCodeMissingConfig, "missing value for %q", name))
			}
		}
		rows = append(rows, tableRow{line: line, fields: rec})
	}
	return rows, col, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func dimension(s, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "invalid %s %q", what, s)
	}
	if n < 1 {
		return 0, ferrors.New(ferrors.ErrCodeMissingConfig, "%s must be at least 1, got %d", what, n)
	}
	return n, nil
}

func lineError(line int, err error) error {
	return ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "line %d", line)
}
