// Package sessionlog records finished timer segments so past focus time
// can be reviewed and summarized.
package sessionlog

import (
	"path/filepath"
	"time"

	"github.com/Mavwarf/tempo/internal/paths"
	"github.com/Mavwarf/tempo/internal/schedule"
)

// Outcome records how a segment ended.
type Outcome string

const (
	Completed Outcome = "completed"
	Skipped   Outcome = "skipped"
)

// EntryKind classifies a log entry.
type EntryKind int

const (
	KindSegment EntryKind = iota
	KindSessionComplete
)

// Entry is a single parsed log entry. Segment entries carry the phase,
// planned duration, outcome, and the work cycle counter at the time the
// segment ended. Session-complete entries carry only the timestamp.
type Entry struct {
	Time    time.Time
	Kind    EntryKind
	Phase   schedule.Kind
	Planned time.Duration
	Outcome Outcome
	Cycle   int
}

// Store abstracts session log storage. FileStore keeps a flat log file;
// SQLiteStore keeps a queryable database and migrates the flat log on
// first open.
type Store interface {
	LogSegment(seg schedule.Segment, outcome Outcome, cycle int) error
	LogComplete() error

	Entries(days int) ([]Entry, error) // parsed entries, 0 = all

	Clean(days int) (int, error) // remove old entries, return removed count
	Clear() error                // delete all data

	Path() string
	Close() error
}

// Open returns the store selected by the storage option, rooted in the
// tempo data directory. storage is "file" or "sqlite" ("" = sqlite).
func Open(storage string) (Store, error) {
	dir := paths.DataDir()
	if storage == "file" {
		return NewFileStore(filepath.Join(dir, paths.LogFileName)), nil
	}
	return NewSQLiteStore(filepath.Join(dir, paths.DBFileName))
}
