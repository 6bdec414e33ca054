package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Mavwarf/tempo/internal/paths"
	"github.com/Mavwarf/tempo/internal/schedule"
)

// DefaultAFKThreshold is the default idle-time threshold in seconds.
const DefaultAFKThreshold = 300

// DefaultVolume is the default playback volume (0-100).
const DefaultVolume = 100

// Default schedule durations in minutes.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// Options holds global settings parsed from the "config" key.
type Options struct {
	AFKThresholdSeconds int    `json:"afk_threshold_seconds,omitempty"`
	DefaultVolume       int    `json:"default_volume,omitempty"`
	Log                 bool   `json:"log,omitempty"`
	Storage             string `json:"storage,omitempty"` // "sqlite" | "file"
}

// Block configures one finite block of work/break cycles.
type Block struct {
	Cycles            int `json:"cycles"`
	MajorBreakMinutes int `json:"major_break_minutes,omitempty"`
}

// Schedule configures the interval timeline.
type Schedule struct {
	WorkMinutes  int     `json:"work_minutes,omitempty"`
	BreakMinutes int     `json:"break_minutes,omitempty"`
	Blocks       []Block `json:"blocks,omitempty"`
	Loop         bool    `json:"loop,omitempty"`
	AutoContinue *bool   `json:"auto_continue,omitempty"` // nil = true
}

// Sound configures tone playback. Tone values are either catalog names
// ("work", "bell", ...) or paths to .wav/.mp3 files.
type Sound struct {
	Enabled      *bool  `json:"enabled,omitempty"` // nil = true
	WorkTone     string `json:"work_tone,omitempty"`
	BreakTone    string `json:"break_tone,omitempty"`
	CompleteTone string `json:"complete_tone,omitempty"`
	Volume       *int   `json:"volume,omitempty"` // nil = use default_volume
}

// MQTT configures the optional broker publication of phase changes.
type MQTT struct {
	Broker   string `json:"broker,omitempty"`
	Topic    string `json:"topic,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	QoS      byte   `json:"qos,omitempty"`
}

// Notify configures the non-audio deliveries fired on phase changes.
// When values are "afk", "present", or "" (always), gated on idle time.
type Notify struct {
	Toast     bool   `json:"toast,omitempty"`
	ToastWhen string `json:"toast_when,omitempty"`
	Flash     *bool  `json:"flash,omitempty"` // nil = true
	Speak     bool   `json:"speak,omitempty"`
	SpeakText string `json:"speak_text,omitempty"`
	SpeakWhen string `json:"speak_when,omitempty"`
	MQTT      MQTT   `json:"mqtt,omitempty"`
}

// Config holds the top-level configuration.
type Config struct {
	Options  Options  `json:"config"`
	Schedule Schedule `json:"schedule"`
	Sound    Sound    `json:"sound"`
	Notify   Notify   `json:"notify"`
}

// Default returns the built-in configuration used when no config file
// exists: a looping 25/5 timer with sound on and terminal flash on.
func Default() Config {
	var cfg Config
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	c.Options.AFKThresholdSeconds = DefaultAFKThreshold
	c.Options.DefaultVolume = DefaultVolume
	c.Options.Storage = "sqlite"
	c.Schedule.WorkMinutes = DefaultWorkMinutes
	c.Schedule.BreakMinutes = DefaultBreakMinutes
	c.Schedule.Loop = true
	c.Sound.WorkTone = "work"
	c.Sound.BreakTone = "break"
	c.Sound.CompleteTone = "complete"
	c.Notify.SpeakText = "{Phase} time"
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.setDefaults()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// AutoContinueEnabled reports whether segment boundaries advance
// without acknowledgement. Unset means true.
func (s Schedule) AutoContinueEnabled() bool {
	if s.AutoContinue == nil {
		return true
	}
	return *s.AutoContinue
}

// SoundEnabled reports whether tone playback is on. Unset means true.
func (c Config) SoundEnabled() bool {
	if c.Sound.Enabled == nil {
		return true
	}
	return *c.Sound.Enabled
}

// FlashEnabled reports whether the terminal flash fires on phase
// changes. Unset means true.
func (c Config) FlashEnabled() bool {
	if c.Notify.Flash == nil {
		return true
	}
	return *c.Notify.Flash
}

// Volume returns the effective playback volume (0-100), preferring the
// sound-level override over the global default.
func (c Config) Volume() int {
	if c.Sound.Volume != nil {
		return *c.Sound.Volume
	}
	return c.Options.DefaultVolume
}

// DefaultBlockCycles is the block size used when loop mode is off and no
// blocks are configured.
const DefaultBlockCycles = 4

// ToSchedule converts the minute-based JSON form into the segment
// schedule consumed by the engine. Finite mode with no configured blocks
// gets a single default block, so --no-loop works without a config file.
func (c Config) ToSchedule() schedule.Config {
	sc := schedule.Config{
		Work:  time.Duration(c.Schedule.WorkMinutes) * time.Minute,
		Break: time.Duration(c.Schedule.BreakMinutes) * time.Minute,
		Loop:  c.Schedule.Loop,
	}
	for _, b := range c.Schedule.Blocks {
		sc.Blocks = append(sc.Blocks, schedule.Block{
			Cycles:     b.Cycles,
			MajorBreak: time.Duration(b.MajorBreakMinutes) * time.Minute,
		})
	}
	if !sc.Loop && len(sc.Blocks) == 0 {
		sc.Blocks = []schedule.Block{{Cycles: DefaultBlockCycles}}
	}
	return sc
}

// Validate checks value ranges and the derived schedule.
func (c Config) Validate() error {
	if v := c.Options.DefaultVolume; v < 0 || v > 100 {
		return fmt.Errorf("default_volume %d out of range 0-100", v)
	}
	if c.Sound.Volume != nil {
		if v := *c.Sound.Volume; v < 0 || v > 100 {
			return fmt.Errorf("sound volume %d out of range 0-100", v)
		}
	}
	switch c.Options.Storage {
	case "", "sqlite", "file":
	default:
		return fmt.Errorf("unknown storage %q (want sqlite or file)", c.Options.Storage)
	}
	if q := c.Notify.MQTT.QoS; q > 2 {
		return fmt.Errorf("mqtt qos %d out of range 0-2", q)
	}
	for _, w := range []string{c.Notify.ToastWhen, c.Notify.SpeakWhen} {
		switch w {
		case "", "afk", "present":
		default:
			return fmt.Errorf("unknown when filter %q (want afk or present)", w)
		}
	}
	return schedule.Validate(c.ToSchedule())
}

// Load reads and parses a config file. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. tempo-config.json next to the running binary
//  3. ~/.config/tempo/tempo-config.json
//
// When no file is found the built-in defaults are returned, so a fresh
// install runs without any setup.
func Load(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	return Default(), nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
