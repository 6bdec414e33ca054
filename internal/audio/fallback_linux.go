//go:build linux

package audio

import (
	"fmt"
	"os/exec"
)

// playFile plays a WAV file through the first available command-line
// player, blocking until playback finishes.
func playFile(path string) error {
	candidates := [][]string{
		{"paplay", path},
		{"aplay", "-q", path},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path},
	}
	for _, c := range candidates {
		bin, err := exec.LookPath(c[0])
		if err != nil {
			continue
		}
		if out, err := exec.Command(bin, c[1:]...).CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w\n%s", c[0], err, out)
		}
		return nil
	}
	return fmt.Errorf("no audio player found (tried paplay, aplay, ffplay)")
}
