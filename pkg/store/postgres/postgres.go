// Package postgres stores graph records in PostgreSQL through a pgx pool.
//
// Records, nodes and links are kept in three tables. Put replaces a
// record's node and link rows inside one transaction.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

// PGStore implements store.Store using PostgreSQL via pgx.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a PGStore backed by the given pgx connection pool.
// The caller owns the pool unless the store was created with Connect.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Connect opens a pool for url, pings it and creates the schema.
// Close on the returned store closes the pool.
func Connect(ctx context.Context, url string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping postgres")
	}
	s := New(pool)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create schema")
	}
	return s, nil
}

func (s *PGStore) Get(ctx context.Context, name string) (*graph.Record, error) {
	rec := &graph.Record{Name: name}
	var (
		meta             []byte
		created, updated *time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT entry_id, meta, created_at, updated_at FROM narrative_records WHERE name = $1`, name,
	).Scan(&rec.EntryID, &meta, &created, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "query record %q", name)
	}
	if err := json.Unmarshal(meta, &rec.Meta); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode meta of %q", name)
	}
	if len(rec.Meta) == 0 {
		rec.Meta = nil
	}
	if created != nil {
		rec.CreatedAt = *created
	}
	if updated != nil {
		rec.UpdatedAt = *updated
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, text, kind, position_x, position_y
		FROM narrative_nodes WHERE record_name = $1 ORDER BY seq`, name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "query nodes of %q", name)
	}
	defer rows.Close()

	rec.Nodes = []graph.NodeRecord{}
	for rows.Next() {
		var n graph.NodeRecord
		if err := rows.Scan(&n.ID, &n.Text, &n.Kind, &n.Position.X, &n.Position.Y); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan node of %q", name)
		}
		rec.Nodes = append(rec.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "rows nodes of %q", name)
	}

	rows, err = s.db.Query(ctx, `
		SELECT source_id, source_port, target_id
		FROM narrative_links WHERE record_name = $1 ORDER BY seq`, name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "query links of %q", name)
	}
	defer rows.Close()

	rec.Links = []graph.LinkRecord{}
	for rows.Next() {
		var l graph.LinkRecord
		if err := rows.Scan(&l.SourceID, &l.SourcePortLabel, &l.TargetID); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan link of %q", name)
		}
		rec.Links = append(rec.Links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "rows links of %q", name)
	}

	return rec, nil
}

// Put saves a full record in one transaction, replacing any previous
// nodes and links stored under the same name.
func (s *PGStore) Put(ctx context.Context, rec *graph.Record) error {
	meta := []byte("{}")
	if rec.Meta != nil {
		var err error
		if meta, err = json.Marshal(rec.Meta); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "encode meta of %q", rec.Name)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "begin tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO narrative_records (name, entry_id, meta, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			entry_id = EXCLUDED.entry_id,
			meta = EXCLUDED.meta,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		rec.Name, rec.EntryID, string(meta), nullTime(rec.CreatedAt), nullTime(rec.UpdatedAt),
	); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "upsert record %q", rec.Name)
	}

	// Delete existing rows (replace semantics).
	if _, err := tx.Exec(ctx, `DELETE FROM narrative_links WHERE record_name = $1`, rec.Name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete links of %q", rec.Name)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM narrative_nodes WHERE record_name = $1`, rec.Name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete nodes of %q", rec.Name)
	}

	for i, n := range rec.Nodes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO narrative_nodes (record_name, seq, id, text, kind, position_x, position_y)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.Name, i, n.ID, n.Text, n.Kind, n.Position.X, n.Position.Y,
		); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "insert node %s", n.ID)
		}
	}
	for i, l := range rec.Links {
		if _, err := tx.Exec(ctx,
			`INSERT INTO narrative_links (record_name, seq, source_id, source_port, target_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.Name, i, l.SourceID, l.SourcePortLabel, l.TargetID,
		); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "insert link %d", i)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "commit record %q", rec.Name)
	}
	return nil
}

// Delete removes a record with its nodes and links.
// No error if the record doesn't exist.
func (s *PGStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM narrative_records WHERE name = $1`, name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete record %q", name)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT name FROM narrative_records ORDER BY name COLLATE "C"`)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	return names, nil
}

// Close closes the pool.
func (s *PGStore) Close() error {
	s.db.Close()
	return nil
}

var _ store.Store = (*PGStore)(nil)

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
