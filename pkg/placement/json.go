package placement

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
)

type entry struct {
	CellName    string `json:"cell_name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation,omitempty"`
}

// ReadJSON decodes a placement object from r.
//
// ReadJSON returns a MALFORMED_INPUT error if the JSON is invalid, a record
// has no cell_name, or an orientation is unknown. Whether a record fits the
// current grid and catalog is decided later by the engine. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) ([]floorplan.Record, error) {
	var data map[string]entry
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeMalformedInput, err, "decode placement")
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	out := make([]floorplan.Record, 0, len(keys))
	for _, k := range keys {
		e := data[k]
		if strings.TrimSpace(e.CellName) == "" {
			return nil, ferrors.New(ferrors.ErrCodeMalformedInput, "record %s: missing cell_name", k)
		}
		o := floorplan.R0
		if e.Orientation != "" {
			var err error
			if o, err = floorplan.ParseOrientation(e.Orientation); err != nil {
				return nil, fmt.Errorf("record %s: %w", k, err)
			}
		}
		out = append(out, floorplan.Record{Shape: e.CellName, X: e.X, Y: e.Y, Orientation: o})
	}
	return out, nil
}

// compareKeys orders numeric keys numerically and everything else after
// them, lexically.
func compareKeys(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// WriteJSON encodes records as a placement object keyed by 1-based position.
func WriteJSON(records []floorplan.Record, w io.Writer) error {
	out := make(map[string]entry, len(records))
	for i, r := range records {
		out[strconv.Itoa(i+1)] = entry{
			CellName:    r.Shape,
			X:           r.X,
			Y:           r.Y,
			Orientation: r.Orientation.String(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportJSON reads the placement file at path.
func ImportJSON(path string) ([]floorplan.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	recs, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ExportJSON writes records to path, creating parent directories. The file is
// written to a temporary name and renamed into place.
func ExportJSON(records []floorplan.Record, path string) error {
	return writeAtomic(path, func(w io.Writer) error { return WriteJSON(records, w) })
}

func writeAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
