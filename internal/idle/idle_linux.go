// Package idle reads the time since the last keyboard or mouse input.
// The dispatcher uses it to decide whether the user is at the keyboard
// before routing a toast or spoken announcement.
package idle

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// IdleSeconds returns seconds since the last input event on Linux via
// xprintidle, which reports milliseconds on stdout.
func IdleSeconds() (float64, error) {
	out, err := exec.Command("xprintidle").Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w (is xprintidle installed?)", err)
	}

	ms, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing xprintidle output: %w", err)
	}

	return float64(ms) / 1000.0, nil
}
