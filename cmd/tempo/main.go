package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/Mavwarf/tempo/internal/audio"
	"github.com/Mavwarf/tempo/internal/config"
	"github.com/Mavwarf/tempo/internal/mute"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// runOpts carries the parsed command-line overrides.
type runOpts struct {
	configPath string
	volume     int // -1 = use config
	workMin    int // 0 = use config
	breakMin   int // 0 = use config
	loop       *bool
	noSound    bool
	debug      bool
}

func main() {
	args := os.Args[1:]
	opts := runOpts{volume: -1}

	// Parse flags
	filtered := args[:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--volume", "-v":
			if i+1 >= len(args) {
				fatal("--volume requires a value (0-100)")
			}
			v, err := strconv.Atoi(args[i+1])
			if err != nil || v < 0 || v > 100 {
				fatal("volume must be a number between 0 and 100")
			}
			opts.volume = v
			i++
		case "--config", "-c":
			if i+1 >= len(args) {
				fatal("--config requires a file path")
			}
			opts.configPath = args[i+1]
			i++
		case "--work", "-w":
			opts.workMin = minutesArg(args, &i, "--work")
		case "--break", "-b":
			opts.breakMin = minutesArg(args, &i, "--break")
		case "--loop":
			t := true
			opts.loop = &t
		case "--no-loop":
			f := false
			opts.loop = &f
		case "--no-sound":
			opts.noSound = true
		case "--debug":
			opts.debug = true
		default:
			filtered = append(filtered, args[i])
		}
	}

	if len(filtered) == 0 {
		runTimer(opts)
		return
	}

	switch filtered[0] {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	case "run":
		runTimer(opts)
	case "tones":
		listTones()
	case "preview":
		previewTone(filtered[1:], opts)
	case "history":
		historyCmd(filtered[1:], opts.configPath)
	case "mute":
		muteCmd(filtered[1:])
	case "config":
		configCmd(filtered[1:], opts.configPath)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", filtered[0])
		fmt.Fprintf(os.Stderr, "Run 'tempo help' for usage.\n")
		os.Exit(1)
	}
}

func minutesArg(args []string, i *int, flag string) int {
	if *i+1 >= len(args) {
		fatal("%s requires a number of minutes", flag)
	}
	*i++
	n, err := strconv.Atoi(args[*i])
	if err != nil || n <= 0 {
		fatal("%s must be a positive number of minutes", flag)
	}
	return n
}

func fatal(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(opts runOpts) config.Config {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fatal("%v", err)
	}
	if opts.workMin > 0 {
		cfg.Schedule.WorkMinutes = opts.workMin
	}
	if opts.breakMin > 0 {
		cfg.Schedule.BreakMinutes = opts.breakMin
	}
	if opts.loop != nil {
		cfg.Schedule.Loop = *opts.loop
	}
	if opts.volume >= 0 {
		cfg.Sound.Volume = &opts.volume
	}
	if opts.noSound {
		f := false
		cfg.Sound.Enabled = &f
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	return cfg
}

func listTones() {
	names := make([]string, 0, len(audio.Tones))
	for name := range audio.Tones {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available tones:")
	for _, name := range names {
		fmt.Printf("  %-10s %s\n", name, audio.Tones[name].Description)
	}
	fmt.Println("\nTone settings also accept paths to .wav or .mp3 files.")
}

func previewTone(args []string, opts runOpts) {
	if len(args) == 0 {
		fatal("usage: tempo preview <tone>")
	}
	name := args[0]

	var length time.Duration
	if def, ok := audio.Tones[name]; ok {
		for _, seg := range def.Segments {
			length += seg.Duration
		}
	} else if audio.IsFileTone(name) {
		length = 3 * time.Second
	} else {
		fatal("unknown tone %q (run 'tempo tones' to list, or pass a .wav/.mp3 path)", name)
	}

	vol := 1.0
	if opts.volume >= 0 {
		vol = float64(opts.volume) / 100.0
	}

	player := audio.NewPlayer(audio.Options{
		Enabled:      true,
		WorkTone:     name,
		BreakTone:    name,
		CompleteTone: name,
	})
	player.Prerender()
	for !player.Ready() {
		time.Sleep(10 * time.Millisecond)
	}
	player.Activate()
	player.Play(name, vol, true)
	time.Sleep(length + 300*time.Millisecond)
}

func muteCmd(args []string) {
	if len(args) == 0 {
		// Show current status.
		if until, ok := mute.Until(); ok {
			fmt.Printf("Muted until %s\n", until.Format("15:04:05"))
		} else {
			fmt.Println("Not muted")
		}
		return
	}

	if args[0] == "off" {
		mute.Disable()
		fmt.Println("Mute disabled")
		return
	}

	d, err := time.ParseDuration(args[0])
	if err != nil {
		fatal("invalid duration %q (examples: 30s, 5m, 1h, 2h30m)", args[0])
	}
	if d <= 0 {
		fatal("duration must be positive")
	}

	mute.Enable(d)
	fmt.Printf("Muted until %s\n", time.Now().Add(d).Format("15:04:05"))
}

func configCmd(args []string, configPath string) {
	if len(args) == 0 || args[0] == "validate" {
		cfg, err := config.Load(configPath)
		if err != nil {
			fatal("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			fatal("%v", err)
		}
		fmt.Println("Config OK")
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
	os.Exit(1)
}

func printVersion() {
	fmt.Printf("tempo %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("tempo %s - Work/break interval timer for the terminal\n", version)
	fmt.Println(`
Usage:
  tempo [options] [run]
  tempo <command> [args]

Options:
  --work, -w <minutes>   Work segment length (overrides config)
  --break, -b <minutes>  Break segment length (overrides config)
  --loop / --no-loop     Repeat work/break forever or run the configured blocks
  --volume, -v <0-100>   Playback volume (default: config or 100)
  --no-sound             Disable tone playback for this run
  --config, -c <path>    Path to tempo-config.json
  --debug                Verbose engine logging to stderr

Commands:
  run                    Start the timer (default when no command is given)
  tones                  List built-in notification tones
  preview <tone>         Play a tone once and exit
  history [n]            Show the last n logged segments (default 10)
  history summary [days] Per-day focus summary (default 7, or "all")
  history clean <days>   Drop log entries older than <days>
  history clear          Delete all logged history
  mute [duration|off]    Suppress notifications for a while
  config [validate]      Check the config file
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Keys while running:
  space  pause / resume (or continue when waiting)
  s      skip to the next segment
  u      undo the last skip (within 4 seconds)
  r      reset to the beginning
  q      quit

Config resolution:
  1. --config <path>               (explicit)
  2. tempo-config.json next to binary     (portable)
  3. ~/.config/tempo/tempo-config.json    (user default)

Examples:
  tempo                            25/5 looping timer with defaults
  tempo -w 50 -b 10                50/10 intervals
  tempo --no-loop                  Run the configured blocks once
  tempo preview bell               Hear the bell tone
  tempo history summary all        Lifetime focus summary`)
}
