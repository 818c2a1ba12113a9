package catalog

import (
	"io"
	"os"
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

var manifestColumns = []string{"design_name", "grid_width", "grid_height"}

// Design is one row of a project manifest.
type Design struct {
	Name   string
	Width  int
	Height int
}

// LoadManifest reads the project manifest at path.
func LoadManifest(path string) ([]Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "open manifest %s", path)
	}
	defer f.Close()

	designs, err := ReadManifest(f)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "manifest %s", path)
	}
	return designs, nil
}

// ReadManifest decodes a CSV project manifest. Design names must be unique
// and usable as path components.
func ReadManifest(r io.Reader) ([]Design, error) {
	rows, col, err := readTable(r, manifestColumns)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	designs := make([]Design, 0, len(rows))
	for _, tr := range rows {
		line, row := tr.line, tr.fields
		name := strings.TrimSpace(row[col["design_name"]])
		if err := ferrors.ValidateName("design", name); err != nil {
			return nil, lineError(line, err)
		}
		if seen[name] {
			return nil, lineError(line, ferrors.New(ferrors.ErrCodeMissingConfig, "duplicate design %q", name))
		}
		seen[name] = true

		w, err := dimension(row[col["grid_width"]], "grid_width")
		if err != nil {
			return nil, lineError(line, err)
		}
		h, err := dimension(row[col["grid_height"]], "grid_height")
		if err != nil {
			return nil, lineError(line, err)
		}
		designs = append(designs, Design{Name: name, Width: w, Height: h})
	}
	return designs, nil
}

// Find returns the design with the given name.
func Find(designs []Design, name string) (Design, bool) {
	for _, d := range designs {
		if d.Name == name {
			return d, true
		}
	}
	return Design{}, false
}
