package tmpl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Vars holds the runtime values available to notification templates.
type Vars struct {
	Phase       string // segment label, e.g. "work" or "break"
	Duration    string // compact planned duration, e.g. "25m0s"
	DurationSay string // spoken-friendly duration, e.g. "25 minutes"
	Cycle       int    // completed work cycles so far
}

// Expand replaces template placeholders in s with values from vars.
// {phase} → label as-is, {Phase} → title-cased, {duration} → compact,
// {Duration} → spoken-friendly, {cycle} → cycle counter.
func Expand(s string, vars Vars) string {
	s = strings.ReplaceAll(s, "{Phase}", TitleCase(vars.Phase))
	s = strings.ReplaceAll(s, "{phase}", vars.Phase)
	s = strings.ReplaceAll(s, "{Duration}", vars.DurationSay)
	s = strings.ReplaceAll(s, "{duration}", vars.Duration)
	s = strings.ReplaceAll(s, "{cycle}", strconv.Itoa(vars.Cycle))
	return s
}

// TitleCase uppercases the first byte of s.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatDuration returns a compact duration string (e.g. "3s", "2m15s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	return d.String()
}

// FormatDurationSay returns a spoken-friendly duration string
// (e.g. "2 minutes and 15 seconds").
func FormatDurationSay(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}

	total := int(d.Round(time.Second).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if hours > 0 {
		if hours == 1 {
			parts = append(parts, "1 hour")
		} else {
			parts = append(parts, fmt.Sprintf("%d hours", hours))
		}
	}
	if minutes > 0 {
		if minutes == 1 {
			parts = append(parts, "1 minute")
		} else {
			parts = append(parts, fmt.Sprintf("%d minutes", minutes))
		}
	}
	if seconds > 0 {
		if seconds == 1 {
			parts = append(parts, "1 second")
		} else {
			parts = append(parts, fmt.Sprintf("%d seconds", seconds))
		}
	}

	if len(parts) == 0 {
		return "0 seconds"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
