// Package mongo stores graph records as MongoDB documents.
//
// Each record is one document in the configured collection, keyed by a
// unique index on "name". The document layout follows the bson tags of
// graph.Record.
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

// Defaults for Config.
const (
	DefaultURI        = "mongodb://localhost:27017"
	DefaultDatabase   = "narrative"
	DefaultCollection = "records"
)

// Config holds connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store implements store.Store on MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB, pings it and ensures the unique name index.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongo")
	}

	s := &Store{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	if err := s.ensureIndex(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndex(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create name index")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (*graph.Record, error) {
	var rec graph.Record
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "find record %q", name)
	}
	return &rec, nil
}

func (s *Store) Put(ctx context.Context, rec *graph.Record) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"name": rec.Name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "replace record %q", rec.Name)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete record %q", name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode record name")
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	return names, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ store.Store = (*Store)(nil)
