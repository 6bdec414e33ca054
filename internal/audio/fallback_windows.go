//go:build windows

package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

// playFile plays a WAV file through the .NET SoundPlayer via PowerShell,
// blocking until playback finishes.
func playFile(path string) error {
	// Single quotes in PowerShell string literals are escaped by doubling.
	escaped := strings.ReplaceAll(path, "'", "''")
	script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", escaped)
	cmd := exec.Command("powershell", "-NoProfile", "-Command", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("powershell soundplayer: %w\n%s", err, out)
	}
	return nil
}
