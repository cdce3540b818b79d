package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS narrative_records (
    name       TEXT PRIMARY KEY,
    entry_id   TEXT NOT NULL DEFAULT '',
    meta       JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS narrative_nodes (
    record_name TEXT NOT NULL REFERENCES narrative_records(name) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    id          TEXT NOT NULL,
    text        TEXT NOT NULL,
    kind        TEXT NOT NULL DEFAULT '',
    position_x  DOUBLE PRECISION NOT NULL DEFAULT 0,
    position_y  DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (record_name, seq)
);

CREATE TABLE IF NOT EXISTS narrative_links (
    record_name TEXT NOT NULL REFERENCES narrative_records(name) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    source_id   TEXT NOT NULL,
    source_port TEXT NOT NULL,
    target_id   TEXT NOT NULL,
    PRIMARY KEY (record_name, seq)
);
`

// CreateSchema creates the record, node and link tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the record, node and link tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS narrative_links, narrative_nodes, narrative_records CASCADE;`)
	return err
}
