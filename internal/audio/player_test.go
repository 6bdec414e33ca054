package audio

import (
	"testing"
	"time"

	"github.com/Mavwarf/tempo/internal/schedule"
)

func waitReady(t *testing.T, p *Player) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !p.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("pre-render never reached readiness")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPrerenderReachesReadiness(t *testing.T) {
	p := NewPlayer(Options{Enabled: true, WorkTone: "work", BreakTone: "break", CompleteTone: "complete"})
	if p.Ready() {
		t.Fatal("Ready = true before Prerender")
	}
	p.Prerender()
	waitReady(t, p)

	p.mu.Lock()
	defer p.mu.Unlock()
	for name := range Tones {
		rt := p.tones[name]
		if rt == nil {
			t.Fatalf("tone %q not rendered", name)
		}
		if len(rt.pcm) == 0 || len(rt.wav) != wavHeaderSize+len(rt.pcm) {
			t.Errorf("tone %q: pcm %d bytes, wav %d bytes", name, len(rt.pcm), len(rt.wav))
		}
	}
}

func TestPrerenderSwallowsFileErrors(t *testing.T) {
	// A missing custom tone file must still count toward readiness.
	p := NewPlayer(Options{Enabled: true, WorkTone: "/nonexistent/tone.wav", BreakTone: "break", CompleteTone: "complete"})
	p.Prerender()
	waitReady(t, p)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tones["/nonexistent/tone.wav"] != nil {
		t.Error("failed tone should not be cached")
	}
}

func TestPlaySuppressedBeforeReady(t *testing.T) {
	// Must return without touching the (absent) context or cache.
	p := NewPlayer(Options{Enabled: true, WorkTone: "work", BreakTone: "break", CompleteTone: "complete"})
	p.Play("work", 1.0, false)
	p.PlayTransition(schedule.Work, 1.0)
}

func TestPlaySuppressedWhenDisabled(t *testing.T) {
	p := NewPlayer(Options{Enabled: false, WorkTone: "work", BreakTone: "break", CompleteTone: "complete"})
	p.Prerender()
	waitReady(t, p)

	// Non-preview playback is suppressed while sound is disabled; with no
	// live context a non-suppressed call would hit the fallback path, so
	// reaching here without side effects is the assertion.
	p.Play("work", 1.0, false)
}

func TestFileToneDetection(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"work", false},
		{"bell", false},
		{"/home/user/ding.wav", true},
		{"chime.mp3", true},
		{"tone.ogg", false},
	}
	for _, tt := range tests {
		if got := IsFileTone(tt.name); got != tt.want {
			t.Errorf("IsFileTone(%q) = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestFileTonesDeduplicated(t *testing.T) {
	p := NewPlayer(Options{WorkTone: "a.wav", BreakTone: "a.wav", CompleteTone: "b.mp3"})
	files := p.fileTones()
	if len(files) != 2 {
		t.Fatalf("fileTones = %v, want 2 unique paths", files)
	}
}

func TestSilenceReader(t *testing.T) {
	buf := make([]byte, 64)
	buf[0] = 0xFF
	n, err := silence{}.Read(buf)
	if n != len(buf) || err != nil {
		t.Fatalf("Read = %d, %v", n, err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want zero amplitude", i, b)
		}
	}
}
