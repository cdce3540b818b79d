package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/observability"
)

// Instrumented wraps a Store, reporting every call to the registered
// observability.StoreHooks and logging it at debug level.
type Instrumented struct {
	Store
	backend string
	logger  *log.Logger
}

// Instrument wraps s. backend names the store in hook events and logs.
// A nil logger uses log.Default().
func Instrument(s Store, backend string, logger *log.Logger) *Instrumented {
	if logger == nil {
		logger = log.Default()
	}
	return &Instrumented{Store: s, backend: backend, logger: logger}
}

// Backend returns the backend name given to Instrument.
func (s *Instrumented) Backend() string { return s.backend }

// Unwrap returns the wrapped store.
func (s *Instrumented) Unwrap() Store { return s.Store }

func (s *Instrumented) Get(ctx context.Context, name string) (*graph.Record, error) {
	start := time.Now()
	rec, err := s.Store.Get(ctx, name)
	elapsed := time.Since(start)
	observability.Store().OnRead(ctx, s.backend, name, rec != nil, elapsed, err)
	s.logger.Debug("store read", "backend", s.backend, "name", name, "found", rec != nil, "elapsed", elapsed, "err", err)
	return rec, err
}

func (s *Instrumented) Put(ctx context.Context, rec *graph.Record) error {
	start := time.Now()
	err := s.Store.Put(ctx, rec)
	elapsed := time.Since(start)
	observability.Store().OnWrite(ctx, s.backend, rec.Name, elapsed, err)
	s.logger.Debug("store write", "backend", s.backend, "name", rec.Name, "elapsed", elapsed, "err", err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, name string) error {
	err := s.Store.Delete(ctx, name)
	observability.Store().OnDelete(ctx, s.backend, name, err)
	s.logger.Debug("store delete", "backend", s.backend, "name", name, "err", err)
	return err
}

var _ Store = (*Instrumented)(nil)
