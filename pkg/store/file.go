package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/floorplan/pkg/placement"
)

// DefaultOutputDir is the file backend root when none is configured.
const DefaultOutputDir = "output"

// FileStore keeps each placement in output/<project>/<design>_placement.json,
// the layout the editor has always used. Revisions are not persisted; loaded
// documents carry the file's modification time.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storeError(BackendFile, err, "create output dir")
	}
	return &FileStore{dir: dir}, nil
}

// PlacementPath returns the placement file of key.
func (s *FileStore) PlacementPath(key placement.Key) string {
	return PlacementPath(s.dir, key)
}

// PlacementPath returns <dir>/<project>/<design>_placement.json.
func PlacementPath(dir string, key placement.Key) string {
	return filepath.Join(dir, key.Project, key.Design+"_placement.json")
}

// SnapshotPath returns <dir>/<project>/<design>_grid.txt.
func SnapshotPath(dir string, key placement.Key) string {
	return filepath.Join(dir, key.Project, key.Design+"_grid.txt")
}

func (s *FileStore) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.PlacementPath(key)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(BackendFile, err, "stat %s", path)
	}
	recs, err := placement.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	return &placement.Document{Key: key, SavedAt: info.ModTime().UTC(), Records: recs}, nil
}

func (s *FileStore) Save(ctx context.Context, doc *placement.Document) error {
	if err := validateKey(doc.Key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := placement.ExportJSON(doc.Records, s.PlacementPath(doc.Key)); err != nil {
		return storeError(BackendFile, err, "save %s", doc.Key)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key placement.Key) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.PlacementPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storeError(BackendFile, err, "delete %s", key)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Dir returns the output directory.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)

// encodeRecords renders records in the placement JSON format.
func encodeRecords(doc *placement.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := placement.WriteJSON(doc.Records, &buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", doc.Key, err)
	}
	return buf.Bytes(), nil
}

func decodeRecords(key placement.Key, data []byte) (*placement.Document, error) {
	recs, err := placement.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &placement.Document{Key: key, Records: recs}, nil
}
