// Package sqlite stores graph records in a single SQLite database file.
//
// It uses the pure-Go modernc.org/sqlite driver, so no cgo toolchain is
// needed. Nodes and links live in their own tables, ordered by a sequence
// column, and a Put replaces them inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	name       TEXT PRIMARY KEY,
	entry_id   TEXT NOT NULL DEFAULT '',
	meta       TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS record_nodes (
	record_name TEXT NOT NULL REFERENCES records(name) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	id          TEXT NOT NULL,
	text        TEXT NOT NULL,
	kind        TEXT NOT NULL DEFAULT '',
	position_x  REAL NOT NULL DEFAULT 0,
	position_y  REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (record_name, seq)
);

CREATE TABLE IF NOT EXISTS record_links (
	record_name TEXT NOT NULL REFERENCES records(name) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	source_id   TEXT NOT NULL,
	source_port TEXT NOT NULL,
	target_id   TEXT NOT NULL,
	PRIMARY KEY (record_name, seq)
);
`

// Store implements store.Store on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a private in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open sqlite database")
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "migrate sqlite database")
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	_, err := s.db.Exec(schemaSQL)
	return err
}

func (s *Store) Get(ctx context.Context, name string) (*graph.Record, error) {
	rec := &graph.Record{Name: name}
	var meta, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT entry_id, meta, created_at, updated_at FROM records WHERE name = ?`, name,
	).Scan(&rec.EntryID, &meta, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "query record %q", name)
	}

	if err := decodeMeta(meta, rec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode meta of %q", name)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode created_at of %q", name)
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode updated_at of %q", name)
	}

	if rec.Nodes, err = s.loadNodes(ctx, name); err != nil {
		return nil, err
	}
	if rec.Links, err = s.loadLinks(ctx, name); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) loadNodes(ctx context.Context, name string) ([]graph.NodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, kind, position_x, position_y
		FROM record_nodes WHERE record_name = ? ORDER BY seq
	`, name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "query nodes of %q", name)
	}
	defer rows.Close()

	nodes := []graph.NodeRecord{}
	for rows.Next() {
		var n graph.NodeRecord
		if err := rows.Scan(&n.ID, &n.Text, &n.Kind, &n.Position.X, &n.Position.Y); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan node of %q", name)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "iterate nodes of %q", name)
	}
	return nodes, nil
}

func (s *Store) loadLinks(ctx context.Context, name string) ([]graph.LinkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, source_port, target_id
		FROM record_links WHERE record_name = ? ORDER BY seq
	`, name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "query links of %q", name)
	}
	defer rows.Close()

	links := []graph.LinkRecord{}
	for rows.Next() {
		var l graph.LinkRecord
		if err := rows.Scan(&l.SourceID, &l.SourcePortLabel, &l.TargetID); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan link of %q", name)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "iterate links of %q", name)
	}
	return links, nil
}

// Put replaces the record, its nodes and its links in one transaction.
func (s *Store) Put(ctx context.Context, rec *graph.Record) error {
	meta, err := encodeMeta(rec)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "encode meta of %q", rec.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO records (name, entry_id, meta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			entry_id = excluded.entry_id,
			meta = excluded.meta,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, rec.Name, rec.EntryID, meta, formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt)); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "upsert record %q", rec.Name)
	}

	// Replace semantics: drop old rows, insert the new sequences.
	if _, err := tx.ExecContext(ctx, `DELETE FROM record_nodes WHERE record_name = ?`, rec.Name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete nodes of %q", rec.Name)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM record_links WHERE record_name = ?`, rec.Name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete links of %q", rec.Name)
	}

	for i, n := range rec.Nodes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO record_nodes (record_name, seq, id, text, kind, position_x, position_y)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.Name, i, n.ID, n.Text, n.Kind, n.Position.X, n.Position.Y); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "insert node %s", n.ID)
		}
	}
	for i, l := range rec.Links {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO record_links (record_name, seq, source_id, source_port, target_id)
			VALUES (?, ?, ?, ?, ?)
		`, rec.Name, i, l.SourceID, l.SourcePortLabel, l.TargetID); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "insert link %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "commit record %q", rec.Name)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE name = ?`, name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete record %q", name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM records ORDER BY name`)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan record name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list records")
	}
	return names, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)

func encodeMeta(rec *graph.Record) (string, error) {
	if rec.Meta == nil {
		return "{}", nil
	}
	data, err := json.Marshal(rec.Meta)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeMeta(data string, rec *graph.Record) error {
	var meta map[string]any
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return err
	}
	if len(meta) > 0 {
		rec.Meta = meta
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
