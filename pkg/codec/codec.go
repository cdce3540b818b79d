package codec

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/observability"
	"github.com/matzehuels/narrative/pkg/store"
)

// Codec saves and loads graphs by name through a store.
//
// The Codec holds no graph state. It is safe for concurrent use as long as
// each call works on a different graph and the store is safe for concurrent use.
type Codec struct {
	Store  store.Store
	Logger *log.Logger
	Now    func() time.Time
}

// New creates a codec over s. If logger is nil, log.Default() is used.
func New(s store.Store, logger *log.Logger) *Codec {
	if logger == nil {
		logger = log.Default()
	}
	return &Codec{
		Store:  s,
		Logger: logger,
		Now:    time.Now,
	}
}

// Save encodes g and writes it under name, returning the stored record.
//
// Returns INVALID_NAME for unusable names and any [Encode] error; in both
// cases nothing is written and a previous record under name stays as it was.
// Store failures are returned as STORAGE errors.
func (c *Codec) Save(ctx context.Context, g *dialogue.Graph, name string) (rec *graph.Record, err error) {
	start := time.Now()
	observability.Codec().OnSaveStart(ctx, name)
	defer func() {
		nodes, links := 0, 0
		if rec != nil {
			nodes, links = len(rec.Nodes), len(rec.Links)
		}
		observability.Codec().OnSaveComplete(ctx, name, nodes, links, time.Since(start), err)
	}()

	if err := errs.ValidateName(name); err != nil {
		return nil, err
	}
	encoded, err := Encode(g)
	if err != nil {
		return nil, err
	}

	existing, err := c.Store.Get(ctx, name)
	if err != nil {
		return nil, wrapStorage(err, "read record %q", name)
	}

	now := c.Now().UTC()
	if existing != nil {
		// Overwrite in place: keep Meta and CreatedAt.
		existing.EntryID = encoded.EntryID
		existing.Nodes = encoded.Nodes
		existing.Links = encoded.Links
		existing.UpdatedAt = now
		rec = existing
	} else {
		encoded.Name = name
		encoded.CreatedAt = now
		encoded.UpdatedAt = now
		rec = encoded
	}

	if err := c.Store.Put(ctx, rec); err != nil {
		return nil, wrapStorage(err, "write record %q", name)
	}

	c.Logger.Info("saved narrative",
		"name", name,
		"nodes", len(rec.Nodes),
		"links", len(rec.Links),
		"overwrite", existing != nil)
	return rec, nil
}

// Load reads the record stored under name and decodes it into g.
//
// Returns INVALID_NAME for unusable names, RECORD_NOT_FOUND when nothing is
// stored under name, and any [Decode] error. g is unchanged in all of these
// cases.
func (c *Codec) Load(ctx context.Context, g *dialogue.Graph, name string) (err error) {
	start := time.Now()
	var rec *graph.Record
	observability.Codec().OnLoadStart(ctx, name)
	defer func() {
		nodes, links := 0, 0
		if rec != nil && err == nil {
			nodes, links = len(rec.Nodes), len(rec.Links)
		}
		observability.Codec().OnLoadComplete(ctx, name, nodes, links, time.Since(start), err)
	}()

	if err := errs.ValidateName(name); err != nil {
		return err
	}
	rec, err = c.Store.Get(ctx, name)
	if err != nil {
		return wrapStorage(err, "read record %q", name)
	}
	if rec == nil {
		return errs.New(errs.ErrCodeRecordNotFound, "Target Narrative Data does not exist!")
	}
	if err := Decode(g, rec); err != nil {
		c.Logger.Warn("rejected narrative", "name", name, "err", err)
		return err
	}

	c.Logger.Info("loaded narrative",
		"name", name,
		"nodes", len(rec.Nodes),
		"links", len(rec.Links))
	return nil
}

// wrapStorage keeps coded errors from the store as they are and wraps
// anything else as STORAGE.
func wrapStorage(err error, format string, args ...any) error {
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeStorage, err, format, args...)
}
