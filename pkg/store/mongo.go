package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/floorplan/pkg/placement"
)

// Mongo defaults.
const (
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "floorplan"
	mongoCollection      = "placements"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI      string
	Database string
}

// MongoStore keeps one document per design in the "placements" collection,
// keyed by "project/design".
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoPlacement struct {
	ID       string    `bson:"_id"`
	Project  string    `bson:"project"`
	Design   string    `bson:"design"`
	Revision string    `bson:"revision"`
	SavedAt  time.Time `bson:"saved_at"`
	Blocks   int       `bson:"blocks"`
	Body     string    `bson:"body"`
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultMongoURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storeError(BackendMongo, err, "connect")
	}
	err = RetryWithBackoff(ctx, func() error {
		return Retryable(client.Ping(ctx, readpref.Primary()))
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, storeError(BackendMongo, err, "ping")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var mp mongoPlacement
	err := s.coll.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&mp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(BackendMongo, err, "load %s", key)
	}
	doc, err := decodeRecords(key, []byte(mp.Body))
	if err != nil {
		return nil, err
	}
	doc.Revision = mp.Revision
	doc.SavedAt = mp.SavedAt.UTC()
	return doc, nil
}

func (s *MongoStore) Save(ctx context.Context, doc *placement.Document) error {
	if err := validateKey(doc.Key); err != nil {
		return err
	}
	body, err := encodeRecords(doc)
	if err != nil {
		return err
	}
	mp := mongoPlacement{
		ID:       doc.Key.String(),
		Project:  doc.Key.Project,
		Design:   doc.Key.Design,
		Revision: doc.Revision,
		SavedAt:  doc.SavedAt.UTC(),
		Blocks:   doc.Len(),
		Body:     string(body),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": mp.ID}, mp, options.Replace().SetUpsert(true))
	if err != nil {
		return storeError(BackendMongo, err, "save %s", doc.Key)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key placement.Key) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key.String()}); err != nil {
		return storeError(BackendMongo, err, "delete %s", key)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
