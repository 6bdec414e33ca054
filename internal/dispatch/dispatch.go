// Package dispatch fans a phase change out to every configured delivery:
// tone, terminal flash, desktop toast, speech, and MQTT.
package dispatch

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Mavwarf/tempo/internal/config"
	"github.com/Mavwarf/tempo/internal/schedule"
	"github.com/Mavwarf/tempo/internal/tmpl"
)

// Hooks holds the delivery functions. Nil hooks are skipped, so callers
// wire only the surfaces they have.
type Hooks struct {
	PlayTransition func(kind schedule.Kind)
	PlayComplete   func()
	Flash          func()
	Toast          func(title, message string) error
	Speak          func(text string) error
	Publish        func(phase, label string, cycles int) error
	IdleSeconds    func() (float64, error)
	Muted          func() bool
}

// Dispatcher implements the engine's Notifier. It is called with the
// engine lock held, so the notification methods only fire the flash (a
// non-blocking channel send in practice) and hand everything else,
// including the mute and idle-time reads, to a goroutine. Failures
// never propagate back.
type Dispatcher struct {
	cfg   config.Config
	hooks Hooks
}

func New(cfg config.Config, hooks Hooks) *Dispatcher {
	return &Dispatcher{cfg: cfg, hooks: hooks}
}

// PhaseChange delivers a segment-entered notification.
func (d *Dispatcher) PhaseChange(seg schedule.Segment, cycles int) {
	// The flash is the one delivery mute does not cover: it is silent
	// and the user sitting at the terminal still needs the cue.
	if d.cfg.FlashEnabled() && d.hooks.Flash != nil {
		d.hooks.Flash()
	}
	go d.deliverPhase(seg, cycles)
}

// deliverPhase runs off the engine lock. The mute-file read and the
// idle-time exec happen here, once per boundary, before the individual
// deliveries fan out into their own goroutines.
func (d *Dispatcher) deliverPhase(seg schedule.Segment, cycles int) {
	muted := d.muted()

	toast := !muted && d.cfg.Notify.Toast && d.hooks.Toast != nil
	speak := !muted && d.cfg.Notify.Speak && d.hooks.Speak != nil

	// The idle probe execs an external tool; only pay for it when an
	// enabled delivery actually has a presence filter.
	if toast && d.cfg.Notify.ToastWhen != "" || speak && d.cfg.Notify.SpeakWhen != "" {
		afk := d.afk()
		toast = toast && whenMatches(d.cfg.Notify.ToastWhen, afk)
		speak = speak && whenMatches(d.cfg.Notify.SpeakWhen, afk)
	}

	// Template values use the human label ("major break"), not the wire
	// kind ("major_break").
	phase := strings.ToLower(schedule.Label(seg.Kind))
	vars := tmpl.Vars{
		Phase:       phase,
		Duration:    tmpl.FormatDuration(seg.Duration),
		DurationSay: tmpl.FormatDurationSay(seg.Duration),
		Cycle:       cycles,
	}

	if !muted && d.hooks.PlayTransition != nil {
		go d.hooks.PlayTransition(seg.Kind)
	}

	if toast {
		title := tmpl.TitleCase(phase)
		message := fmt.Sprintf("%s for %s", tmpl.TitleCase(phase), vars.Duration)
		go func() {
			if err := d.hooks.Toast(title, message); err != nil {
				fmt.Fprintf(os.Stderr, "dispatch: toast: %v\n", err)
			}
		}()
	}

	if speak {
		text := tmpl.Expand(d.cfg.Notify.SpeakText, vars)
		go func() {
			if err := d.hooks.Speak(text); err != nil {
				fmt.Fprintf(os.Stderr, "dispatch: speak: %v\n", err)
			}
		}()
	}

	// MQTT is a state feed, not an attention grab, so mute does not
	// suppress it.
	if d.hooks.Publish != nil {
		go func() {
			if err := d.hooks.Publish(string(seg.Kind), schedule.Label(seg.Kind), cycles); err != nil {
				fmt.Fprintf(os.Stderr, "dispatch: publish: %v\n", err)
			}
		}()
	}
}

// Completed delivers the end-of-session notification.
func (d *Dispatcher) Completed() {
	if d.cfg.FlashEnabled() && d.hooks.Flash != nil {
		d.hooks.Flash()
	}
	go d.deliverCompleted()
}

func (d *Dispatcher) deliverCompleted() {
	muted := d.muted()

	if !muted && d.hooks.PlayComplete != nil {
		go d.hooks.PlayComplete()
	}
	if !muted && d.cfg.Notify.Toast && d.hooks.Toast != nil {
		go func() {
			if err := d.hooks.Toast("Session complete", "All scheduled cycles are done"); err != nil {
				fmt.Fprintf(os.Stderr, "dispatch: toast: %v\n", err)
			}
		}()
	}
	if d.hooks.Publish != nil {
		go func() {
			if err := d.hooks.Publish("done", "Done", 0); err != nil {
				fmt.Fprintf(os.Stderr, "dispatch: publish: %v\n", err)
			}
		}()
	}
}

func (d *Dispatcher) muted() bool {
	return d.hooks.Muted != nil && d.hooks.Muted()
}

// afk reports whether the user has been idle past the threshold. An
// unreadable idle time counts as present.
func (d *Dispatcher) afk() bool {
	if d.hooks.IdleSeconds == nil {
		return false
	}
	idle, err := d.hooks.IdleSeconds()
	if err != nil {
		return false
	}
	threshold := time.Duration(d.cfg.Options.AFKThresholdSeconds) * time.Second
	return idle >= threshold.Seconds()
}

// whenMatches applies a delivery's presence filter: "afk" fires only
// when the user is away, "present" only when they are not, "" always.
func whenMatches(when string, afk bool) bool {
	switch when {
	case "afk":
		return afk
	case "present":
		return !afk
	}
	return true
}
