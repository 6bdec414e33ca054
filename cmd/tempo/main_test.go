package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mavwarf/tempo/internal/schedule"
	"github.com/Mavwarf/tempo/internal/sessionlog"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{9, "0:09"},
		{75, "1:15"},
		{25 * 60, "25:00"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.seconds); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatFocus(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0m"},
		{25 * 60, "25m"},
		{3600, "1h00m"},
		{2*3600 + 5*60, "2h05m"},
	}
	for _, tt := range tests {
		if got := formatFocus(tt.seconds); got != tt.want {
			t.Errorf("formatFocus(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatEntry(t *testing.T) {
	old := noColor
	noColor = true
	t.Cleanup(func() { noColor = old })

	ts := time.Date(2026, 8, 23, 14, 30, 0, 0, time.Local)
	e := sessionlog.Entry{
		Time:    ts,
		Kind:    sessionlog.KindSegment,
		Phase:   schedule.Work,
		Planned: 25 * time.Minute,
		Outcome: sessionlog.Completed,
		Cycle:   3,
	}
	got := formatEntry(e)
	want := "2026-08-23 14:30  Work         25m0s    completed  cycle 3"
	if got != want {
		t.Errorf("formatEntry = %q, want %q", got, want)
	}

	done := sessionlog.Entry{Time: ts, Kind: sessionlog.KindSessionComplete}
	if got := formatEntry(done); got != "2026-08-23 14:30  session complete" {
		t.Errorf("formatEntry(session) = %q", got)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo-config.json")
	os.WriteFile(path, []byte(`{"schedule": {"work_minutes": 25, "break_minutes": 5, "loop": true}}`), 0644)

	f := false
	cfg := loadConfig(runOpts{
		configPath: path,
		volume:     40,
		workMin:    50,
		breakMin:   10,
		loop:       &f,
		noSound:    true,
	})

	if cfg.Schedule.WorkMinutes != 50 || cfg.Schedule.BreakMinutes != 10 {
		t.Errorf("schedule = %d/%d", cfg.Schedule.WorkMinutes, cfg.Schedule.BreakMinutes)
	}
	if cfg.Schedule.Loop {
		t.Error("--no-loop should override config")
	}
	if cfg.Volume() != 40 {
		t.Errorf("Volume() = %d", cfg.Volume())
	}
	if cfg.SoundEnabled() {
		t.Error("--no-sound should disable sound")
	}
}

func TestLoadConfigNoOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo-config.json")
	os.WriteFile(path, []byte(`{"schedule": {"work_minutes": 45}}`), 0644)

	cfg := loadConfig(runOpts{configPath: path, volume: -1})
	if cfg.Schedule.WorkMinutes != 45 {
		t.Errorf("WorkMinutes = %d, want 45", cfg.Schedule.WorkMinutes)
	}
	if !cfg.SoundEnabled() {
		t.Error("sound should stay enabled by default")
	}
}
