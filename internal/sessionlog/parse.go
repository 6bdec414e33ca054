package sessionlog

import (
	"strconv"
	"strings"
	"time"

	"github.com/Mavwarf/tempo/internal/schedule"
)

// ParseEntries parses flat log content, one entry per line. Malformed
// lines are silently skipped.
func ParseEntries(content string) []Entry {
	content = strings.TrimRight(content, "\n\r ")
	if content == "" {
		return nil
	}

	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		ts, ok := ExtractTimestamp(line)
		if !ok {
			continue
		}

		if extractField(line, "session") == "completed" {
			entries = append(entries, Entry{Time: ts, Kind: KindSessionComplete})
			continue
		}

		phase := extractField(line, "phase")
		outcome := extractField(line, "outcome")
		if phase == "" || outcome == "" {
			continue
		}

		planned, err := time.ParseDuration(extractField(line, "planned"))
		if err != nil {
			continue
		}
		cycle, _ := strconv.Atoi(extractField(line, "cycle"))

		entries = append(entries, Entry{
			Time:    ts,
			Kind:    KindSegment,
			Phase:   schedule.Kind(phase),
			Planned: planned,
			Outcome: Outcome(outcome),
			Cycle:   cycle,
		})
	}
	return entries
}

// ExtractTimestamp parses the RFC3339 timestamp at the start of a log line
// (everything before the first "  " double-space separator). Returns the
// parsed time and true on success, or zero time and false on failure.
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// extractField returns the value after "key=" in a space-separated line.
// Returns "" if not found.
func extractField(line, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, prefix) {
			return field[len(prefix):]
		}
	}
	return ""
}

// DayCutoff returns midnight N days ago (inclusive) in the local timezone.
// For days=1 it returns today at midnight, for days=7 it returns 6 days ago, etc.
func DayCutoff(days int) time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(days - 1))
}
