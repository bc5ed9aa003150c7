package history

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  ts_utc TEXT NOT NULL,
  root TEXT NOT NULL,
  total_files INTEGER NOT NULL,
  binary_files INTEGER NOT NULL,
  skipped_files INTEGER NOT NULL,
  edge_count INTEGER NOT NULL,
  unresolved_count INTEGER NOT NULL,
  frameworks TEXT NOT NULL DEFAULT '',
  datastores TEXT NOT NULL DEFAULT '',
  duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts_utc);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
