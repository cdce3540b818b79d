// Package store persists dialogue graph records by name.
//
// This package defines the [Store] interface and the backends that need
// nothing beyond the local machine:
//   - memory: in-process map, for tests and throwaway sessions
//   - file: one JSON or YAML file per record in a directory
//
// Networked and embedded database backends live in subpackages:
//   - store/sqlite: single-file SQLite database (modernc.org/sqlite, no cgo)
//   - store/redis: Redis hash of encoded records
//   - store/mongo: MongoDB collection keyed by record name
//   - store/postgres: PostgreSQL table via pgx
//
// # Contract
//
// Every backend behaves the same way, and store/storetest checks it:
//   - Get returns (nil, nil) for a missing name
//   - Put creates or replaces the record stored under rec.Name
//   - Delete of a missing name is not an error
//   - List returns every stored name in ascending order
//
// Records returned by Get are owned by the caller; mutating them never
// changes stored state until the next Put.
//
// # Usage
//
//	s, err := store.NewFileStore("", graph.FormatJSON)  // ~/.config/narrative/records
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	rec, err := s.Get(ctx, "intro")
//	if rec == nil {
//	    // not saved yet
//	}
package store

import (
	"context"

	"github.com/matzehuels/narrative/pkg/graph"
)

// Store is a named collection of graph records.
type Store interface {
	// Get returns the record stored under name, or nil and no error when
	// nothing is stored there.
	Get(ctx context.Context, name string) (*graph.Record, error)

	// Put creates or replaces the record stored under rec.Name.
	Put(ctx context.Context, rec *graph.Record) error

	// Delete removes the record stored under name. Missing names are ignored.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Backends lists every backend name.
func Backends() []string {
	return []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendMongo, BackendPostgres}
}
