package placement

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// Key identifies the placement of one design within a project.
type Key struct {
	Project string
	Design  string
}

// String returns "project/design".
func (k Key) String() string { return k.Project + "/" + k.Design }

// Document is a saved placement.
type Document struct {
	Key      Key
	Revision string    // unique per save
	SavedAt  time.Time // UTC
	Records  []floorplan.Record
}

// NewDocument captures the current blocks of e under key with a fresh
// revision ID. Records are ordered by block ID.
func NewDocument(key Key, e *floorplan.Engine) *Document {
	recs := e.Records()
	out := make([]floorplan.Record, 0, len(recs))
	for _, id := range slices.Sorted(maps.Keys(recs)) {
		out = append(out, recs[id])
	}
	return &Document{
		Key:      key,
		Revision: uuid.NewString(),
		SavedAt:  time.Now().UTC(),
		Records:  out,
	}
}

// Len returns the number of records.
func (d *Document) Len() int { return len(d.Records) }
