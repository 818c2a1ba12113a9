package store

import (
	"context"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/placement"
)

// DefaultAppName names the per-user data directory.
const DefaultAppName = "floorplan"

// AppDataStore keeps placements in the per-user application data directory
// (for example ~/.local/share/floorplan on Linux). Each project is a gdata
// object and each design a YAML property of it.
type AppDataStore struct {
	mu sync.Mutex
	m  *gdata.Manager
}

type appDataDoc struct {
	Revision string        `yaml:"revision"`
	SavedAt  time.Time     `yaml:"saved_at"`
	Blocks   []appDataItem `yaml:"blocks"`
}

type appDataItem struct {
	Shape       string `yaml:"shape"`
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Orientation string `yaml:"orientation"`
}

// NewAppDataStore opens the data directory of appName.
func NewAppDataStore(appName string) (*AppDataStore, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, storeError(BackendAppData, err, "open %s", appName)
	}
	return &AppDataStore{m: m}, nil
}

func propName(key placement.Key) string { return key.Design + ".yaml" }

func (s *AppDataStore) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(key.Project, propName(key)) {
		return nil, ErrNotFound
	}
	data, err := s.m.LoadObjectProp(key.Project, propName(key))
	if err != nil {
		return nil, storeError(BackendAppData, err, "load %s", key)
	}
	var ad appDataDoc
	if err := yaml.Unmarshal(data, &ad); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeMalformedInput, err, "decode %s", key)
	}
	doc := &placement.Document{Key: key, Revision: ad.Revision, SavedAt: ad.SavedAt.UTC()}
	for i, it := range ad.Blocks {
		o, err := floorplan.ParseOrientation(it.Orientation)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeMalformedInput, err, "%s: block %d", key, i+1)
		}
		doc.Records = append(doc.Records, floorplan.Record{Shape: it.Shape, X: it.X, Y: it.Y, Orientation: o})
	}
	return doc, nil
}

func (s *AppDataStore) Save(ctx context.Context, doc *placement.Document) error {
	if err := validateKey(doc.Key); err != nil {
		return err
	}
	ad := appDataDoc{Revision: doc.Revision, SavedAt: doc.SavedAt.UTC()}
	for _, r := range doc.Records {
		ad.Blocks = append(ad.Blocks, appDataItem{Shape: r.Shape, X: r.X, Y: r.Y, Orientation: r.Orientation.String()})
	}
	data, err := yaml.Marshal(ad)
	if err != nil {
		return storeError(BackendAppData, err, "encode %s", doc.Key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.m.SaveObjectProp(doc.Key.Project, propName(doc.Key), data); err != nil {
		return storeError(BackendAppData, err, "save %s", doc.Key)
	}
	return nil
}

func (s *AppDataStore) Delete(ctx context.Context, key placement.Key) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(key.Project, propName(key)) {
		return nil
	}
	if err := s.m.DeleteObjectProp(key.Project, propName(key)); err != nil {
		return storeError(BackendAppData, err, "delete %s", key)
	}
	return nil
}

func (s *AppDataStore) Close() error { return nil }

var _ Store = (*AppDataStore)(nil)
