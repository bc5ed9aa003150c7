// Package history persists one summary row per analysis run. Persistence is
// a collaborator concern: the analyzer core never reads this store.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reposcope/internal/core/model"
)

const driverName = "sqlite"

type Run struct {
	ID          string
	Timestamp   time.Time
	Root        string
	TotalFiles  int
	BinaryFiles int
	Skipped     int
	Edges       int
	Unresolved  int
	Frameworks  string
	Datastores  string
	Duration    time.Duration
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one run summary derived from the model and returns its ID.
func (s *Store) Record(root string, m *model.StructuralModel, duration time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(`
INSERT INTO runs (
  id, ts_utc, root, total_files, binary_files, skipped_files,
  edge_count, unresolved_count, frameworks, datastores, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339Nano),
		root,
		m.Stats.TotalFiles,
		m.Stats.BinaryFiles,
		m.Stats.SkippedFiles,
		len(m.DependencyEdges),
		m.Stats.UnresolvedReferences,
		hitNames(m.FrameworkHits),
		hitNames(m.DatastoreHits),
		duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
SELECT id, ts_utc, root, total_files, binary_files, skipped_files,
       edge_count, unresolved_count, frameworks, datastores, duration_ms
FROM runs ORDER BY ts_utc DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		var durationMs int64
		if err := rows.Scan(&r.ID, &ts, &r.Root, &r.TotalFiles, &r.BinaryFiles,
			&r.Skipped, &r.Edges, &r.Unresolved, &r.Frameworks, &r.Datastores, &durationMs); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func hitNames(hits []model.StackHit) string {
	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, h.Name)
	}
	return strings.Join(names, ",")
}
