package sessionlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/tempo/internal/paths"
	"github.com/Mavwarf/tempo/internal/schedule"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path, creates
// tables and indexes, and performs one-time migration from tempo.log
// if it exists in the same directory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS segments (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp       TEXT    NOT NULL,
    kind            INTEGER NOT NULL,
    phase           TEXT    NOT NULL DEFAULT '',
    planned_seconds INTEGER NOT NULL DEFAULT 0,
    outcome         TEXT    NOT NULL DEFAULT '',
    cycle           INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_segments_timestamp ON segments(timestamp DESC);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}

	// One-time migration from flat file.
	logPath := filepath.Join(filepath.Dir(path), paths.LogFileName)
	if _, err := os.Stat(logPath); err == nil {
		if err := s.migrateFromFile(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "sessionlog: migration: %v\n", err)
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LogSegment(seg schedule.Segment, outcome Outcome, cycle int) error {
	ts := time.Now().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO segments (timestamp, kind, phase, planned_seconds, outcome, cycle)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ts, int(KindSegment), string(seg.Kind), int(seg.Duration.Seconds()), string(outcome), cycle,
	)
	return err
}

func (s *SQLiteStore) LogComplete() error {
	ts := time.Now().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO segments (timestamp, kind) VALUES (?, ?)`,
		ts, int(KindSessionComplete),
	)
	return err
}

func (s *SQLiteStore) Entries(days int) ([]Entry, error) {
	query := `SELECT timestamp, kind, phase, planned_seconds, outcome, cycle FROM segments`
	var args []any
	if days > 0 {
		cutoff := DayCutoff(days).Format(time.RFC3339)
		query += ` WHERE timestamp >= ?`
		args = append(args, cutoff)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var tsStr, phase, outcome string
		var kind, plannedSec, cycle int
		if err := rows.Scan(&tsStr, &kind, &phase, &plannedSec, &outcome, &cycle); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Time:    ts,
			Kind:    EntryKind(kind),
			Phase:   schedule.Kind(phase),
			Planned: time.Duration(plannedSec) * time.Second,
			Outcome: Outcome(outcome),
			Cycle:   cycle,
		})
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := DayCutoff(days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM segments WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM segments`)
	return err
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// migrateFromFile reads an existing tempo.log and imports its entries
// into the SQLite database. On success, renames the log to
// tempo.log.migrated so migration runs only once.
func (s *SQLiteStore) migrateFromFile(logPath string) error {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}
	content := strings.TrimRight(string(data), "\n\r ")
	if content == "" {
		return os.Rename(logPath, logPath+".migrated")
	}

	entries := ParseEntries(content)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO segments (timestamp, kind, phase, planned_seconds, outcome, cycle)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.Time.Format(time.RFC3339), int(e.Kind), string(e.Phase),
			int(e.Planned.Seconds()), string(e.Outcome), e.Cycle,
		); err != nil {
			return fmt.Errorf("migrate entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "sessionlog: migrated %d entries from %s\n", len(entries), filepath.Base(logPath))
	return os.Rename(logPath, logPath+".migrated")
}
