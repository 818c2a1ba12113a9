// Package session binds one project design to an engine and a placement store.
//
// A session resolves the design's grid size from the project manifest, loads
// its shape catalog, builds a [floorplan.Engine] and moves placements between
// the engine and a [store.Store]. Every save also writes the grid snapshot.
//
// # Usage
//
//	s, err := session.Open(ctx, st, session.Options{
//	    Project: "mye",
//	    Design:  "top",
//	    Config:  cfg,
//	})
//	if err != nil {
//	    return err
//	}
//	warnings, err := s.Load(ctx)
//	...
//	doc, err := s.Save(ctx)
package session

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/config"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/placement"
	"github.com/matzehuels/floorplan/pkg/store"
)

// DefaultProject is the project used when none is given.
const DefaultProject = "mye"

// =============================================================================
// Options
// =============================================================================

// Options selects the design of a session.
type Options struct {
	Project string
	Design  string
	Config  config.Config

	// Logger receives load/save progress. Defaults to a discarding logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks names and applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Project == "" {
		o.Project = DefaultProject
	}
	if err := ferrors.ValidateName("project", o.Project); err != nil {
		return err
	}
	if err := ferrors.ValidateName("design", o.Design); err != nil {
		return err
	}
	o.Config.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Designs returns the designs listed in the manifest of project.
func Designs(cfg config.Config, project string) ([]catalog.Design, error) {
	if err := ferrors.ValidateName("project", project); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return catalog.LoadManifest(cfg.ManifestPath(project))
}

// =============================================================================
// Session
// =============================================================================

// Session is an open design.
type Session struct {
	Key    placement.Key
	Design catalog.Design
	Engine *floorplan.Engine

	// Revision is the revision of the last loaded or saved placement.
	Revision string

	store  store.Store
	cfg    config.Config
	logger *log.Logger
}

// Open builds the engine for opts.Design. The engine starts empty; call
// [Session.Load] to restore the stored placement.
//
// Open returns a MISSING_CONFIG error if the manifest or catalog cannot be
// read or the design is not listed in the manifest.
func Open(ctx context.Context, st store.Store, opts Options) (*Session, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cfg := opts.Config

	designs, err := catalog.LoadManifest(cfg.ManifestPath(opts.Project))
	if err != nil {
		return nil, err
	}
	design, ok := catalog.Find(designs, opts.Design)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "design %q is not listed in %s", opts.Design, cfg.ManifestPath(opts.Project))
	}

	catPath := cfg.CatalogPath(opts.Project, opts.Design)
	cat, err := catalog.Load(catPath)
	if err != nil {
		return nil, err
	}
	eng, err := floorplan.New(design.Width, design.Height, cat)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("opened design",
		"project", opts.Project,
		"design", design.Name,
		"width", design.Width,
		"height", design.Height,
		"shapes", cat.Len(),
		"catalog", catPath)

	return &Session{
		Key:    placement.Key{Project: opts.Project, Design: design.Name},
		Design: design,
		Engine: eng,
		store:  st,
		cfg:    cfg,
		logger: opts.Logger,
	}, nil
}

// Load replaces the engine contents with the stored placement. Records that
// no longer fit the catalog or grid are skipped and returned as warnings.
// Load returns [store.ErrNotFound] when nothing is stored; the engine is left
// unchanged in that case.
func (s *Session) Load(ctx context.Context) ([]error, error) {
	doc, err := s.store.Load(ctx, s.Key)
	if err != nil {
		return nil, err
	}
	warnings := s.Engine.Restore(doc.Records)
	for _, w := range warnings {
		s.logger.Warn("skipped placement record", "design", s.Key, "err", w)
	}
	s.Revision = doc.Revision
	s.logger.Info("loaded placement",
		"design", s.Key,
		"blocks", s.Engine.Len(),
		"skipped", len(warnings),
		"revision", doc.Revision)
	return warnings, nil
}

// Save stores the current placement and writes the grid snapshot.
func (s *Session) Save(ctx context.Context) (*placement.Document, error) {
	doc := placement.NewDocument(s.Key, s.Engine)
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.Revision = doc.Revision

	if err := s.WriteSnapshot(); err != nil {
		return doc, err
	}
	s.logger.Info("saved placement", "design", s.Key, "blocks", doc.Len(), "revision", doc.Revision)
	return doc, nil
}

// WriteSnapshot writes the grid snapshot to output/<project>/<design>_grid.txt.
func (s *Session) WriteSnapshot() error {
	path := s.SnapshotPath()
	if err := placement.ExportSnapshot(s.Engine, path); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeStore, err, "write snapshot %s", path)
	}
	return nil
}

// SnapshotPath returns the grid snapshot path of the session.
func (s *Session) SnapshotPath() string {
	return s.cfg.SnapshotPath(s.Key.Project, s.Key.Design)
}

// Clear removes every block and deletes the stored placement.
func (s *Session) Clear(ctx context.Context) (int, error) {
	n := s.Engine.Clear()
	if err := s.store.Delete(ctx, s.Key); err != nil {
		return n, err
	}
	s.Revision = ""
	s.logger.Info("cleared placement", "design", s.Key, "removed", n)
	return n, nil
}

// IsNotFound reports whether err means no placement is stored.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
