// Package store persists floorplan placements.
//
// A [Store] saves and loads one [placement.Document] per project/design key.
// Backends:
//   - file: the placement JSON file under the output directory (default)
//   - sqlite: a local SQLite database
//   - redis: a Redis hash per design
//   - mongo: a MongoDB collection, one document per design
//   - appdata: the per-user application data directory
//   - memory: process memory, nothing persisted
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: "sqlite", Path: "floorplan.db"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	doc := placement.NewDocument(key, engine)
//	err = s.Save(ctx, doc)
//
// Every backend returned by [Open] reports loads and saves through
// observability.Store().
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/placement"
)

// ErrNotFound is returned by Load when no placement is stored for a key.
var ErrNotFound = errors.New("placement not found")

// Store is the interface for placement storage backends.
type Store interface {
	// Load returns the stored document for key, or ErrNotFound.
	Load(ctx context.Context, key placement.Key) (*placement.Document, error)

	// Save stores doc under doc.Key, replacing any previous placement.
	Save(ctx context.Context, doc *placement.Document) error

	// Delete removes the placement for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key placement.Key) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
	BackendMongo   = "mongo"
	BackendAppData = "appdata"
	BackendMemory  = "memory"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMongo, BackendAppData, BackendMemory}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// OutputDir is the root of the file backend (output/<project>/...).
	OutputDir string

	// Path is the SQLite database file.
	Path string

	// Addr is the Redis address (host:port).
	Addr string

	// URI and Database select the MongoDB deployment and database.
	URI      string
	Database string

	// AppName names the per-user data directory of the appdata backend.
	AppName string
}

// Open creates the configured backend. An empty backend selects the file
// backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	name := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch name {
	case "", BackendFile:
		name = BackendFile
		s, err = NewFileStore(cfg.OutputDir)
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.Addr})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.URI, Database: cfg.Database})
	case BackendAppData:
		s, err = NewAppDataStore(cfg.AppName)
	case BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "unknown store backend %q (want one of %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, name), nil
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so that loads and saves are reported to
// observability.Store() under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	start := time.Now()
	doc, err := s.Store.Load(ctx, key)
	n := 0
	if doc != nil {
		n = doc.Len()
	}
	observability.Store().OnLoad(ctx, s.backend, key.String(), n, time.Since(start), err)
	return doc, err
}

func (s *instrumented) Save(ctx context.Context, doc *placement.Document) error {
	start := time.Now()
	err := s.Store.Save(ctx, doc)
	observability.Store().OnSave(ctx, s.backend, doc.Key.String(), doc.Len(), time.Since(start), err)
	return err
}

// =============================================================================
// Helpers
// =============================================================================

func validateKey(key placement.Key) error {
	if err := ferrors.ValidateName("project", key.Project); err != nil {
		return err
	}
	return ferrors.ValidateName("design", key.Design)
}

func storeError(backend string, err error, format string, args ...any) error {
	return ferrors.Wrap(ferrors.ErrCodeStore, err, "%s: %s", backend, fmt.Sprintf(format, args...))
}
