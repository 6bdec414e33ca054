package dispatch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Mavwarf/tempo/internal/config"
	"github.com/Mavwarf/tempo/internal/schedule"
)

type capture struct {
	flash   chan struct{}
	tone    chan schedule.Kind
	done    chan struct{}
	toast   chan [2]string
	speak   chan string
	publish chan string
}

func newCapture() *capture {
	return &capture{
		flash:   make(chan struct{}, 4),
		tone:    make(chan schedule.Kind, 4),
		done:    make(chan struct{}, 4),
		toast:   make(chan [2]string, 4),
		speak:   make(chan string, 4),
		publish: make(chan string, 4),
	}
}

func (c *capture) hooks() Hooks {
	return Hooks{
		PlayTransition: func(k schedule.Kind) { c.tone <- k },
		PlayComplete:   func() { c.done <- struct{}{} },
		Flash:          func() { c.flash <- struct{}{} },
		Toast:          func(title, msg string) error { c.toast <- [2]string{title, msg}; return nil },
		Speak:          func(text string) error { c.speak <- text; return nil },
		Publish:        func(phase, label string, cycles int) error { c.publish <- phase; return nil },
	}
}

func recv[T any](t *testing.T, ch chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("no %s delivery", what)
		panic("unreachable")
	}
}

func quiet[T any](t *testing.T, ch chan T, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Errorf("unexpected %s delivery", what)
	case <-time.After(50 * time.Millisecond):
	}
}

func cfgFromJSON(t *testing.T, raw string) config.Config {
	t.Helper()
	var cfg config.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatal(err)
	}
	return cfg
}

var workSeg = schedule.Segment{Kind: schedule.Work, Duration: 25 * time.Minute}

func TestPhaseChangeFansOut(t *testing.T) {
	c := newCapture()
	cfg := cfgFromJSON(t, `{"notify": {"toast": true, "speak": true, "speak_text": "{Phase} for {Duration}"}}`)
	d := New(cfg, c.hooks())

	d.PhaseChange(workSeg, 2)

	recv(t, c.flash, "flash")
	if k := recv(t, c.tone, "tone"); k != schedule.Work {
		t.Errorf("tone kind = %q", k)
	}
	if pair := recv(t, c.toast, "toast"); pair[0] != "Work" {
		t.Errorf("toast title = %q", pair[0])
	}
	if text := recv(t, c.speak, "speak"); text != "Work for 25 minutes" {
		t.Errorf("speak text = %q", text)
	}
	if phase := recv(t, c.publish, "publish"); phase != "work" {
		t.Errorf("published phase = %q", phase)
	}
}

func TestMuteSuppressesAllButFlashAndPublish(t *testing.T) {
	c := newCapture()
	cfg := cfgFromJSON(t, `{"notify": {"toast": true, "speak": true}}`)
	hooks := c.hooks()
	hooks.Muted = func() bool { return true }
	d := New(cfg, hooks)

	d.PhaseChange(workSeg, 1)

	recv(t, c.flash, "flash")
	recv(t, c.publish, "publish")
	quiet(t, c.tone, "tone")
	quiet(t, c.toast, "toast")
	quiet(t, c.speak, "speak")
}

func TestFlashDisabled(t *testing.T) {
	c := newCapture()
	cfg := cfgFromJSON(t, `{"notify": {"flash": false}}`)
	d := New(cfg, c.hooks())

	d.PhaseChange(workSeg, 1)
	quiet(t, c.flash, "flash")
}

func TestToastRequiresOptIn(t *testing.T) {
	c := newCapture()
	d := New(cfgFromJSON(t, `{}`), c.hooks())

	d.PhaseChange(workSeg, 1)
	quiet(t, c.toast, "toast")
}

func TestWhenFilterAFK(t *testing.T) {
	cfg := cfgFromJSON(t, `{"notify": {"toast": true, "toast_when": "afk"}}`)
	run := func(idle float64) *capture {
		c := newCapture()
		hooks := c.hooks()
		hooks.IdleSeconds = func() (float64, error) { return idle, nil }
		New(cfg, hooks).PhaseChange(workSeg, 1)
		return c
	}

	// Present: afk-only toast is withheld.
	quiet(t, run(0).toast, "toast")

	// Away past the threshold: toast fires.
	recv(t, run(float64(cfg.Options.AFKThresholdSeconds)).toast, "toast")
}

func TestWhenFilterPresent(t *testing.T) {
	cfg := cfgFromJSON(t, `{"notify": {"speak": true, "speak_when": "present"}}`)
	run := func(idle float64) *capture {
		c := newCapture()
		hooks := c.hooks()
		hooks.IdleSeconds = func() (float64, error) { return idle, nil }
		New(cfg, hooks).PhaseChange(workSeg, 1)
		return c
	}

	quiet(t, run(float64(cfg.Options.AFKThresholdSeconds+10)).speak, "speak")
	recv(t, run(0).speak, "speak")
}

func TestPhaseChangeReturnsWithSlowHooks(t *testing.T) {
	// The engine calls PhaseChange with its lock held; a slow mute read
	// or idle probe must never hold the caller up.
	c := newCapture()
	cfg := cfgFromJSON(t, `{"notify": {"toast": true, "toast_when": "afk"}}`)
	hooks := c.hooks()
	hooks.Muted = func() bool { time.Sleep(200 * time.Millisecond); return false }
	hooks.IdleSeconds = func() (float64, error) {
		time.Sleep(200 * time.Millisecond)
		return 1e6, nil
	}
	d := New(cfg, hooks)

	start := time.Now()
	d.PhaseChange(workSeg, 1)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("PhaseChange blocked for %s", elapsed)
	}
	recv(t, c.flash, "flash")
	recv(t, c.toast, "toast")

	start = time.Now()
	d.Completed()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("Completed blocked for %s", elapsed)
	}
	recv(t, c.done, "complete tone")
}

func TestIdleProbeSkippedWithoutPresenceFilters(t *testing.T) {
	c := newCapture()
	cfg := cfgFromJSON(t, `{"notify": {"toast": true, "speak": true}}`)
	hooks := c.hooks()
	probed := make(chan struct{}, 1)
	hooks.IdleSeconds = func() (float64, error) { probed <- struct{}{}; return 0, nil }
	d := New(cfg, hooks)

	d.PhaseChange(workSeg, 1)
	recv(t, c.toast, "toast")
	recv(t, c.speak, "speak")
	quiet(t, probed, "idle probe")
}

func TestCompleted(t *testing.T) {
	c := newCapture()
	cfg := cfgFromJSON(t, `{"notify": {"toast": true}}`)
	d := New(cfg, c.hooks())

	d.Completed()

	recv(t, c.flash, "flash")
	recv(t, c.done, "complete tone")
	if pair := recv(t, c.toast, "toast"); pair[0] != "Session complete" {
		t.Errorf("toast title = %q", pair[0])
	}
	if phase := recv(t, c.publish, "publish"); phase != "done" {
		t.Errorf("published phase = %q", phase)
	}
}

func TestNilHooksAreSkipped(t *testing.T) {
	cfg := cfgFromJSON(t, `{"notify": {"toast": true, "speak": true}}`)
	d := New(cfg, Hooks{})

	// Must not panic with nothing wired.
	d.PhaseChange(workSeg, 1)
	d.Completed()
}
