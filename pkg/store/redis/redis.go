// Package redis stores graph records in a Redis hash.
//
// Every record is one field of the hash "<prefix>records", holding the
// record's JSON encoding. A Put is a single HSET, so replacing a record is
// atomic from the point of view of other clients.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

// DefaultPrefix namespaces the records hash.
const DefaultPrefix = "narrative:"

// Config holds connection settings.
type Config struct {
	Addr     string // host:port, defaults to localhost:6379
	Password string
	DB       int
	Prefix   string // key prefix, defaults to DefaultPrefix
}

// Store implements store.Store on Redis.
type Store struct {
	client *redis.Client
	key    string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to redis at %s", cfg.Addr)
	}
	return NewWithClient(client, cfg.Prefix), nil
}

// NewWithClient wraps an existing client. An empty prefix uses DefaultPrefix.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, key: prefix + "records"}
}

func (s *Store) Get(ctx context.Context, name string) (*graph.Record, error) {
	data, err := s.client.HGet(ctx, s.key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read record %q", name)
	}
	var rec graph.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode record %q", name)
	}
	return &rec, nil
}

func (s *Store) Put(ctx context.Context, rec *graph.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "encode record %q", rec.Name)
	}
	if err := s.client.HSet(ctx, s.key, rec.Name, data).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write record %q", rec.Name)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.client.HDel(ctx, s.key, name).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete record %q", name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ store.Store = (*Store)(nil)
