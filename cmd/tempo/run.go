package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Mavwarf/tempo/internal/audio"
	"github.com/Mavwarf/tempo/internal/dispatch"
	"github.com/Mavwarf/tempo/internal/engine"
	"github.com/Mavwarf/tempo/internal/idle"
	"github.com/Mavwarf/tempo/internal/mqtt"
	"github.com/Mavwarf/tempo/internal/mute"
	"github.com/Mavwarf/tempo/internal/schedule"
	"github.com/Mavwarf/tempo/internal/sessionlog"
	"github.com/Mavwarf/tempo/internal/speech"
	"github.com/Mavwarf/tempo/internal/toast"
)

const (
	renderInterval = 250 * time.Millisecond
	flashDuration  = 400 * time.Millisecond
)

func runTimer(opts runOpts) {
	cfg := loadConfig(opts)

	lvl := slog.LevelWarn
	if opts.debug {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	volume := float64(cfg.Volume()) / 100.0

	player := audio.NewPlayer(audio.Options{
		Enabled:      cfg.SoundEnabled(),
		WorkTone:     cfg.Sound.WorkTone,
		BreakTone:    cfg.Sound.BreakTone,
		CompleteTone: cfg.Sound.CompleteTone,
	})
	player.Prerender()

	var store sessionlog.Store
	if cfg.Options.Log {
		s, err := sessionlog.Open(cfg.Options.Storage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tempo: session log disabled: %v\n", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	pub := mqtt.NewPublisher(mqtt.Options{
		Broker:   cfg.Notify.MQTT.Broker,
		Topic:    cfg.Notify.MQTT.Topic,
		ClientID: cfg.Notify.MQTT.ClientID,
		Username: cfg.Notify.MQTT.Username,
		Password: cfg.Notify.MQTT.Password,
		QoS:      cfg.Notify.MQTT.QoS,
	})
	defer pub.Close()

	// Flash requests land in a channel so the render loop owns the
	// terminal; the dispatcher must never write to it directly.
	flashCh := make(chan struct{}, 1)

	hooks := dispatch.Hooks{
		PlayTransition: func(k schedule.Kind) { player.PlayTransition(k, volume) },
		PlayComplete:   func() { player.PlayComplete(volume) },
		Flash: func() {
			select {
			case flashCh <- struct{}{}:
			default:
			}
		},
		Toast:       toast.Show,
		Speak:       func(text string) error { return speech.Say(text, cfg.Volume()) },
		IdleSeconds: idle.IdleSeconds,
		Muted:       mute.Active,
	}
	if pub.Enabled() {
		hooks.Publish = pub.PublishPhase
	}

	eng := engine.New(cfg.ToSchedule(), engine.Options{
		Clock:        engine.SystemClock(),
		Notifier:     dispatch.New(cfg, hooks),
		AutoContinue: cfg.Schedule.AutoContinueEnabled(),
	})
	defer eng.Close()

	events := eng.Subscribe(16)

	// Raw mode for single-key control. Degrade to display-only when
	// stdin is not a terminal (e.g. piped).
	fd := int(os.Stdin.Fd())
	keys := make(chan byte, 1)
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, oldState)
			go func() {
				buf := make([]byte, 1)
				for {
					n, err := os.Stdin.Read(buf)
					if n > 0 {
						keys <- buf[0]
					}
					if err != nil {
						return
					}
				}
			}()
		}
	}

	watchSignals(eng.CatchUp, func() { togglePause(eng) })

	// Starting the run is the user gesture that unlocks audio output.
	player.Activate()
	eng.Start()

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	var flashUntil time.Time
	for {
		render(eng, flashUntil)

		select {
		case key := <-keys:
			switch key {
			case ' ':
				togglePause(eng)
			case 's', 'S':
				eng.Skip()
			case 'u', 'U':
				eng.Undo()
			case 'r', 'R':
				eng.Reset()
				eng.Start()
			case 'q', 'Q', 3: // q or Ctrl+C
				fmt.Print("\r\033[K")
				return
			}

		case ev := <-events:
			if store != nil {
				record(store, ev)
			}

		case <-flashCh:
			flashUntil = time.Now().Add(flashDuration)
			os.Stdout.WriteString("\a")

		case <-ticker.C:
		}
	}
}

// togglePause maps the space key onto whatever "go / stop" means in the
// current state.
func togglePause(eng *engine.Engine) {
	switch eng.State() {
	case engine.StateRunning:
		eng.Pause()
	case engine.StatePaused:
		eng.Resume()
	case engine.StateWaiting:
		eng.Continue()
	case engine.StateIdle:
		eng.Start()
	}
}

// record writes a boundary event to the session log. Failures go to
// stderr; a logging problem must not stop the timer.
func record(store sessionlog.Store, ev engine.Event) {
	var err error
	switch ev.Type {
	case engine.EventTransition:
		if ev.Finished != nil {
			err = store.LogSegment(*ev.Finished, sessionlog.Outcome(ev.Outcome), ev.Cycles)
		}
	case engine.EventCompleted:
		if ev.Finished != nil {
			if err = store.LogSegment(*ev.Finished, sessionlog.Outcome(ev.Outcome), ev.Cycles); err == nil {
				err = store.LogComplete()
			}
		} else {
			err = store.LogComplete()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tempo: session log: %v\n", err)
	}
}

// render draws the one-line status display, in reverse video while a
// flash is active.
func render(eng *engine.Engine, flashUntil time.Time) {
	line := statusLine(eng)
	if time.Now().Before(flashUntil) {
		line = "\033[7m" + line + "\033[0m"
	}
	fmt.Print("\r\033[K" + line)
}

func statusLine(eng *engine.Engine) string {
	seg, ok := eng.CurrentSegment()
	state := eng.State()

	var b strings.Builder
	switch state {
	case engine.StateDone:
		b.WriteString("Done — all cycles complete")
		if eng.UndoPending() {
			b.WriteString("  (u undo)")
		} else {
			b.WriteString("  (q quit)")
		}
		return b.String()
	case engine.StateIdle:
		return "Idle  (space start, q quit)"
	}

	if !ok {
		return string(state)
	}

	fmt.Fprintf(&b, "%s  %s", schedule.Label(seg.Kind), formatClock(eng.Remaining()))
	if cycles := eng.Cycles(); cycles > 0 {
		fmt.Fprintf(&b, "  cycle %d", cycles)
	}

	switch state {
	case engine.StatePaused:
		b.WriteString("  [paused]")
	case engine.StateWaiting:
		b.WriteString("  [waiting — space to continue]")
	}
	if eng.UndoPending() {
		b.WriteString("  (u undo)")
	}
	return b.String()
}

// formatClock renders whole seconds as M:SS or H:MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
