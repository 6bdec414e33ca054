package mute

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestActiveFuture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mute.json")

	s := state{MutedUntil: time.Now().Add(10 * time.Minute).Format(time.RFC3339)}
	data, _ := json.Marshal(s)
	os.WriteFile(path, data, 0644)

	if !active(path) {
		t.Error("expected muted with future timestamp")
	}
}

func TestActiveExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mute.json")

	s := state{MutedUntil: time.Now().Add(-10 * time.Minute).Format(time.RFC3339)}
	data, _ := json.Marshal(s)
	os.WriteFile(path, data, 0644)

	if active(path) {
		t.Error("expected not muted with past timestamp")
	}
}

func TestActiveMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")
	if active(path) {
		t.Error("expected not muted with missing file")
	}
}

func TestActiveCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mute.json")
	os.WriteFile(path, []byte("not json"), 0644)

	if active(path) {
		t.Error("expected not muted with corrupt file")
	}
}

func TestEnable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mute.json")

	enable(path, 5*time.Minute)

	end, ok := until(path)
	if !ok {
		t.Fatal("expected muted after enable")
	}

	// Should be roughly 5 minutes from now.
	diff := time.Until(end)
	if diff < 4*time.Minute || diff > 6*time.Minute {
		t.Errorf("expected ~5m from now, got %v", diff)
	}
}

func TestDisable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mute.json")

	enable(path, 10*time.Minute)
	if !active(path) {
		t.Fatal("expected muted after enable")
	}

	disable(path)
	if active(path) {
		t.Error("expected not muted after disable")
	}
}

func TestDisableMissingFile(t *testing.T) {
	// Removing an absent state file must not panic or report.
	disable(filepath.Join(t.TempDir(), "nonexistent.json"))
}
