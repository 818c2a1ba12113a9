package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/config"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/placement"
	"github.com/matzehuels/floorplan/pkg/store"
)

const (
	testManifest = "design_name,grid_width,grid_height\ntop,6,4\nbottom,3,3\n"
	testCatalog  = "block_name,width,height,color,pinside\nSRAM,2,2,light blue,\"{'T'}\"\nTSV,1,1,gray,set()\nBlockage,1,1,black,{}\n"
)

// testProject lays out input/mye with a manifest and a catalog for "top".
func testProject(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.InputDir = filepath.Join(dir, "input")
	cfg.OutputDir = filepath.Join(dir, "output")

	write := func(path, content string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(cfg.ManifestPath("mye"), testManifest)
	write(filepath.Join(cfg.InputDir, "mye", "mye_top.csv"), testCatalog)
	return cfg
}

func TestOpen(t *testing.T) {
	cfg := testProject(t)
	s, err := Open(context.Background(), store.NewMemoryStore(), Options{Design: "top", Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, placement.Key{Project: "mye", Design: "top"}, s.Key)
	assert.Equal(t, 6, s.Engine.Width())
	assert.Equal(t, 4, s.Engine.Height())
	assert.Equal(t, 3, s.Engine.Catalog().Len())
	assert.Zero(t, s.Engine.Len())
}

func TestOpenErrors(t *testing.T) {
	cfg := testProject(t)
	ctx := context.Background()
	st := store.NewMemoryStore()

	tests := []struct {
		name string
		opts Options
		code ferrors.Code
	}{
		{"unlisted design", Options{Design: "middle", Config: cfg}, ferrors.ErrCodeMissingConfig},
		{"missing catalog", Options{Design: "bottom", Config: cfg}, ferrors.ErrCodeMissingConfig},
		{"missing manifest", Options{Project: "other", Design: "top", Config: cfg}, ferrors.ErrCodeMissingConfig},
		{"bad design name", Options{Design: "../top", Config: cfg}, ferrors.ErrCodeMalformedInput},
		{"empty design", Options{Config: cfg}, ferrors.ErrCodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, st, tt.opts)
			assert.True(t, ferrors.Is(err, tt.code), "Open() error = %v, want %s", err, tt.code)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	cfg := testProject(t)
	ctx := context.Background()
	st, err := store.NewFileStore(cfg.OutputDir)
	require.NoError(t, err)

	s, err := Open(ctx, st, Options{Design: "top", Config: cfg})
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.True(t, IsNotFound(err), "Load() before save = %v", err)

	_, err = s.Engine.Place("SRAM", 0, 0)
	require.NoError(t, err)
	_, err = s.Engine.Place("TSV", 5, 3)
	require.NoError(t, err)
	_, err = s.Engine.FillBlockage(floorplan.Rect{X0: 2, Y0: 0, X1: 3, Y1: 0})
	require.NoError(t, err)

	doc, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Len())
	assert.Equal(t, doc.Revision, s.Revision)
	assert.FileExists(t, cfg.PlacementPath("mye", "top"))

	snap, err := os.ReadFile(s.SnapshotPath())
	require.NoError(t, err)
	assert.Contains(t, string(snap), "SRAM(1) R0 , ")

	other, err := Open(ctx, st, Options{Design: "top", Config: cfg})
	require.NoError(t, err)
	warnings, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.ElementsMatch(t, recordSet(s.Engine), recordSet(other.Engine))
}

func TestLoadSkipsStaleRecords(t *testing.T) {
	cfg := testProject(t)
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, st.Save(ctx, &placement.Document{
		Key: placement.Key{Project: "mye", Design: "top"},
		Records: []floorplan.Record{
			{Shape: "SRAM", X: 0, Y: 0},
			{Shape: "ROM", X: 3, Y: 0},
			{Shape: "SRAM", X: 5, Y: 3},
		},
	}))

	s, err := Open(ctx, st, Options{Design: "top", Config: cfg})
	require.NoError(t, err)
	warnings, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.True(t, ferrors.Is(warnings[0], ferrors.ErrCodeUnknownShape), "warning 0 = %v", warnings[0])
	assert.True(t, ferrors.Is(warnings[1], ferrors.ErrCodeOutOfBounds), "warning 1 = %v", warnings[1])
	assert.Equal(t, 1, s.Engine.Len())
}

func TestClear(t *testing.T) {
	cfg := testProject(t)
	ctx := context.Background()
	st := store.NewMemoryStore()

	s, err := Open(ctx, st, Options{Design: "top", Config: cfg})
	require.NoError(t, err)
	_, err = s.Engine.Place("SRAM", 1, 1)
	require.NoError(t, err)
	_, err = s.Save(ctx)
	require.NoError(t, err)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, s.Engine.Len())
	_, err = s.Load(ctx)
	assert.True(t, IsNotFound(err))
}

func TestDesigns(t *testing.T) {
	cfg := testProject(t)
	designs, err := Designs(cfg, "mye")
	require.NoError(t, err)
	require.Len(t, designs, 2)
	assert.Equal(t, "top", designs[0].Name)
	assert.Equal(t, "bottom", designs[1].Name)

	_, err = Designs(cfg, "..")
	assert.Error(t, err)
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Design: "top"}
	require.NoError(t, opts.ValidateAndSetDefaults())
	first := opts
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, DefaultProject, opts.Project)
	assert.Equal(t, first.Config, opts.Config)
	assert.NotNil(t, opts.Logger)
}

func recordSet(e *floorplan.Engine) []floorplan.Record {
	var out []floorplan.Record
	for _, r := range e.Records() {
		out = append(out, r)
	}
	return out
}
