package idle

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

var idleTimeRe = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// IdleSeconds returns seconds since the last input event on macOS by
// extracting HIDIdleTime (nanoseconds) from the IOHIDSystem registry
// entry.
func IdleSeconds() (float64, error) {
	out, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}

	m := idleTimeRe.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
	}

	ns, err := strconv.ParseUint(string(m[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing HIDIdleTime: %w", err)
	}

	return float64(ns) / 1e9, nil
}
