//go:build linux

package speech

import (
	"fmt"
	"os/exec"
	"strconv"
)

// Say speaks text through espeak-ng (or espeak). Volume is 0-100;
// espeak's amplitude range is 0-200.
func Say(text string, volume int) error {
	amp := strconv.Itoa(volume * 2)
	for _, bin := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(bin); err == nil {
			cmd := exec.Command(path, "--amplitude", amp, text)
			if out, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("speech failed: %w\n%s", err, out)
			}
			return nil
		}
	}
	return fmt.Errorf("speech not available: install espeak-ng or espeak")
}
