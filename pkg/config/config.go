// Package config loads the floorplan application configuration.
//
// The configuration lives in an optional TOML file (floorplan.toml by
// default). Every key has a default, so an absent file is equivalent to:
//
//	input_dir  = "input"
//	output_dir = "output"
//	log_file   = ""          # output/<project>/floorplan.log
//
//	[store]
//	backend  = "file"        # file, sqlite, redis, mongo, appdata, memory
//	path     = ""            # sqlite: output/floorplan.db
//	addr     = ""            # redis: localhost:6379
//	uri      = ""            # mongo: mongodb://localhost:27017
//	database = ""            # mongo: floorplan
//	app_name = ""            # appdata: floorplan
//
// The [Config] path helpers encode the project layout:
//
//	input/<project>/<project>.csv               design manifest
//	input/<project>/<project>_<design>.csv      shape catalog (.yaml, .yml)
//	output/<project>/<design>_placement.json    placement
//	output/<project>/<design>_grid.txt          grid snapshot
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/placement"
	"github.com/matzehuels/floorplan/pkg/store"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "floorplan.toml"

// Config is the application configuration.
type Config struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	LogFile   string `toml:"log_file"`

	Store StoreConfig `toml:"store"`
}

// StoreConfig selects the placement store backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	Addr     string `toml:"addr"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
	AppName  string `toml:"app_name"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		InputDir:  "input",
		OutputDir: "output",
		Store:     StoreConfig{Backend: store.BackendFile},
	}
}

// Load reads the config file at path on top of [Default].
//
// An empty path reads [DefaultFile] if it exists and otherwise returns the
// defaults. A named file that does not exist, a TOML syntax error, an unknown
// key or an unknown store backend is a MISSING_CONFIG error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, ferrors.New(ferrors.ErrCodeMissingConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "config %s", path)
	}
	return cfg, nil
}

// SetDefaults fills empty fields with their defaults.
func (c *Config) SetDefaults() {
	d := Default()
	if c.InputDir == "" {
		c.InputDir = d.InputDir
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.Backend == store.BackendSQLite && c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.OutputDir, "floorplan.db")
	}
}

// Validate checks the store backend name.
func (c *Config) Validate() error {
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return ferrors.New(ferrors.ErrCodeMissingConfig, "unknown store backend %q (want one of %s)",
			c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	return nil
}

// StoreOptions returns the [store.Config] for [store.Open].
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Backend:   c.Store.Backend,
		OutputDir: c.OutputDir,
		Path:      c.Store.Path,
		Addr:      c.Store.Addr,
		URI:       c.Store.URI,
		Database:  c.Store.Database,
		AppName:   c.Store.AppName,
	}
}

// =============================================================================
// Paths
// =============================================================================

// ManifestPath returns input/<project>/<project>.csv.
func (c *Config) ManifestPath(project string) string {
	return filepath.Join(c.InputDir, project, project+".csv")
}

// catalogExts are tried in order by CatalogPath.
var catalogExts = []string{".csv", ".yaml", ".yml"}

// CatalogPath returns the shape catalog of a design. The first existing file
// among input/<project>/<project>_<design>{.csv,.yaml,.yml} wins; when none
// exists the .csv path is returned so the error names it.
func (c *Config) CatalogPath(project, design string) string {
	base := filepath.Join(c.InputDir, project, project+"_"+design)
	for _, ext := range catalogExts {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return base + catalogExts[0]
}

// PlacementPath returns output/<project>/<design>_placement.json.
func (c *Config) PlacementPath(project, design string) string {
	return store.PlacementPath(c.OutputDir, placement.Key{Project: project, Design: design})
}

// SnapshotPath returns output/<project>/<design>_grid.txt.
func (c *Config) SnapshotPath(project, design string) string {
	return store.SnapshotPath(c.OutputDir, placement.Key{Project: project, Design: design})
}

// LogPath returns the log file used while the editor owns the terminal:
// log_file when set, otherwise output/<project>/floorplan.log.
func (c *Config) LogPath(project string) string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.OutputDir, project, "floorplan.log")
}
