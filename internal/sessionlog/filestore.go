package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/tempo/internal/paths"
	"github.com/Mavwarf/tempo/internal/schedule"
)

// FileStore implements Store using a flat log file, one line per entry.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// writeLog opens the log file, generates a timestamp, and calls fn to
// write the entry.
func (f *FileStore) writeLog(fn func(file *os.File, ts string)) error {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
	if err != nil {
		return err
	}
	defer file.Close()
	fn(file, time.Now().Format(time.RFC3339))
	return nil
}

func (f *FileStore) LogSegment(seg schedule.Segment, outcome Outcome, cycle int) error {
	return f.writeLog(func(file *os.File, ts string) {
		fmt.Fprintf(file, "%s  phase=%s  planned=%s  outcome=%s  cycle=%d\n",
			ts, seg.Kind, seg.Duration, outcome, cycle)
	})
}

func (f *FileStore) LogComplete() error {
	return f.writeLog(func(file *os.File, ts string) {
		fmt.Fprintf(file, "%s  session=completed\n", ts)
	})
}

func (f *FileStore) Entries(days int) ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	entries := ParseEntries(string(data))
	if days <= 0 {
		return entries, nil
	}

	cutoff := DayCutoff(days)
	var filtered []Entry
	for _, e := range entries {
		if !e.Time.In(cutoff.Location()).Before(cutoff) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (f *FileStore) Clean(days int) (int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	content := strings.TrimRight(string(data), "\n\r ")
	if content == "" {
		return 0, nil
	}

	cutoff := DayCutoff(days)
	var kept []string
	removed := 0
	for _, line := range strings.Split(content, "\n") {
		ts, ok := ExtractTimestamp(line)
		if ok && ts.In(cutoff.Location()).Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, line)
	}

	if len(kept) == 0 {
		_ = os.Remove(f.path)
		return removed, nil
	}

	out := strings.Join(kept, "\n") + "\n"
	if err := os.WriteFile(f.path, []byte(out), paths.FilePerm); err != nil {
		return 0, err
	}
	return removed, nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Close() error {
	return nil
}
