// tempo-tray runs the interval timer as a system tray icon with a
// right-click menu instead of a terminal UI.
package main

import (
	"fmt"
	"os"

	"github.com/Mavwarf/tempo/internal/audio"
	"github.com/Mavwarf/tempo/internal/config"
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

func main() {
	configPath := ""
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tempo-tray: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "tempo-tray: %v\n", err)
		os.Exit(1)
	}

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
		if s, err := sessionlog.Open(cfg.Options.Storage); err == nil {
			store = s
			defer store.Close()
		} else {
			fmt.Fprintf(os.Stderr, "tempo-tray: session log disabled: %v\n", err)
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

	hooks := dispatch.Hooks{
		PlayTransition: func(k schedule.Kind) { player.PlayTransition(k, volume) },
		PlayComplete:   func() { player.PlayComplete(volume) },
		Toast:          toast.Show,
		Speak:          func(text string) error { return speech.Say(text, cfg.Volume()) },
		IdleSeconds:    idle.IdleSeconds,
		Muted:          mute.Active,
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

	if store != nil {
		events := eng.Subscribe(16)
		go func() {
			for ev := range events {
				record(store, ev)
			}
		}()
	}

	runTray(eng, player)
}

// record writes a boundary event to the session log.
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
		fmt.Fprintf(os.Stderr, "tempo-tray: session log: %v\n", err)
	}
}
