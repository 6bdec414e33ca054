//go:build darwin

package audio

import (
	"fmt"
	"os/exec"
)

// playFile plays a WAV file through afplay, blocking until playback
// finishes.
func playFile(path string) error {
	if out, err := exec.Command("afplay", path).CombinedOutput(); err != nil {
		return fmt.Errorf("afplay: %w\n%s", err, out)
	}
	return nil
}
