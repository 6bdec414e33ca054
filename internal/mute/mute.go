package mute

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mavwarf/tempo/internal/paths"
)

type state struct {
	MutedUntil string `json:"muted_until"`
}

// Active returns true if mute is currently in effect.
// A missing, unreadable, or corrupt state file is treated as "not muted"
// (fail-open).
func Active() bool {
	return active(statePath())
}

// Until returns the end time of the mute window and true if active,
// or zero time and false if not muted.
func Until() (time.Time, bool) {
	return until(statePath())
}

// Enable activates mute for the given duration from now.
func Enable(d time.Duration) {
	enable(statePath(), d)
}

// Disable deactivates mute by removing the state file.
func Disable() {
	disable(statePath())
}

func active(path string) bool {
	_, ok := until(path)
	return ok
}

func until(path string) (time.Time, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, s.MutedUntil)
	if err != nil {
		return time.Time{}, false
	}

	if time.Now().After(t) {
		return time.Time{}, false
	}

	return t, true
}

func enable(path string, d time.Duration) {
	s := state{MutedUntil: time.Now().Add(d).Format(time.RFC3339)}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "mute: marshal: %v\n", err)
		return
	}
	if err := paths.AtomicWrite(path, data); err != nil {
		fmt.Fprintf(os.Stderr, "mute: write: %v\n", err)
	}
}

func disable(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "mute: remove %s: %v\n", path, err)
	}
}

func statePath() string {
	return filepath.Join(paths.DataDir(), paths.MuteFileName)
}
