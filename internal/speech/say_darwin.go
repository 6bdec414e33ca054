//go:build darwin

package speech

import (
	"fmt"
	"os/exec"
)

// Say speaks text through the macOS say command. Volume is 0-100,
// mapped to say's 0.0-1.0 scale.
func Say(text string, volume int) error {
	vol := fmt.Sprintf("%.2f", float64(volume)/100.0)
	cmd := exec.Command("say", "--volume", vol, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech failed: %w\n%s", err, out)
	}
	return nil
}
