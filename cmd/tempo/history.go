package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Mavwarf/tempo/internal/config"
	"github.com/Mavwarf/tempo/internal/schedule"
	"github.com/Mavwarf/tempo/internal/sessionlog"
	"github.com/Mavwarf/tempo/internal/tmpl"
)

func historyCmd(args []string, configPath string) {
	if len(args) > 0 {
		switch args[0] {
		case "summary":
			historySummary(args[1:], configPath)
			return
		case "clear":
			historyClear(configPath)
			return
		case "clean":
			historyClean(args[1:], configPath)
			return
		}
	}

	count := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fatal("count must be a positive integer")
		}
		count = n
	}

	store := openStore(configPath)
	defer store.Close()

	entries, err := store.Entries(0)
	if err != nil {
		fatal("%v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No history yet. Enable logging with \"log\": true in config.")
		return
	}
	if len(entries) > count {
		entries = entries[len(entries)-count:]
	}

	for _, e := range entries {
		fmt.Println(formatEntry(e))
	}
}

func historySummary(args []string, configPath string) {
	days := 7
	if len(args) > 0 {
		if args[0] == "all" {
			days = 0
		} else {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fatal("days must be a positive integer or \"all\"")
			}
			days = n
		}
	}

	store := openStore(configPath)
	defer store.Close()

	entries, err := store.Entries(0)
	if err != nil {
		fatal("%v", err)
	}
	groups := sessionlog.SummarizeByDay(entries, days)
	if len(groups) == 0 {
		if days == 0 {
			fmt.Println("No activity found.")
		} else {
			fmt.Println("No activity in the last", days, "days.")
		}
		return
	}

	var out strings.Builder
	renderSummary(&out, groups)
	fmt.Print(out.String())
}

func historyClean(args []string, configPath string) {
	if len(args) == 0 {
		fatal("usage: tempo history clean <days>")
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		fatal("days must be a positive integer")
	}

	store := openStore(configPath)
	defer store.Close()

	removed, err := store.Clean(days)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Removed %d entries (kept last %d days).\n", removed, days)
}

func historyClear(configPath string) {
	store := openStore(configPath)
	defer store.Close()

	if err := store.Clear(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("History cleared.")
}

func openStore(configPath string) sessionlog.Store {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("%v", err)
	}
	store, err := sessionlog.Open(cfg.Options.Storage)
	if err != nil {
		fatal("%v", err)
	}
	return store
}

func formatEntry(e sessionlog.Entry) string {
	ts := e.Time.Local().Format("2006-01-02 15:04")
	if e.Kind == sessionlog.KindSessionComplete {
		return fmt.Sprintf("%s  %s", ts, green("session complete"))
	}

	outcome := string(e.Outcome)
	if e.Outcome == sessionlog.Skipped {
		outcome = yellow(outcome)
	} else {
		outcome = green(outcome)
	}
	return fmt.Sprintf("%s  %-12s %-8s %s  cycle %d",
		ts, schedule.Label(e.Phase), tmpl.FormatDuration(e.Planned), outcome, e.Cycle)
}

func renderSummary(w *strings.Builder, groups []sessionlog.DayGroup) {
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("%-12s %8s %6s %8s %9s", "Date", "Focus", "Done", "Skipped", "Sessions")))

	totalSec, totalDone, totalSkip, totalSessions := 0, 0, 0, 0
	for _, g := range groups {
		fmt.Fprintf(w, "%-12s %8s %6d %8d %9d\n",
			g.Date.Format("2006-01-02"), formatFocus(g.WorkSeconds), g.Completed, g.Skipped, g.Sessions)
		totalSec += g.WorkSeconds
		totalDone += g.Completed
		totalSkip += g.Skipped
		totalSessions += g.Sessions
	}

	if len(groups) > 1 {
		fmt.Fprintf(w, "%s\n", dim(strings.Repeat("-", 46)))
		fmt.Fprintf(w, "%-12s %8s %6d %8d %9d\n",
			"total", formatFocus(totalSec), totalDone, totalSkip, totalSessions)
	}
}

// formatFocus renders accumulated work seconds compactly: "45m", "2h05m".
func formatFocus(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// --- ANSI color helpers (disabled when NO_COLOR env var is set) ---

var noColor = os.Getenv("NO_COLOR") != ""

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func bold(s string) string   { return ansi("\033[1m", s) }
func dim(s string) string    { return ansi("\033[2m", s) }
func green(s string) string  { return ansi("\033[32m", s) }
func yellow(s string) string { return ansi("\033[33m", s) }
