//go:build windows

package speech

import (
	"fmt"
	"os/exec"

	"github.com/Mavwarf/tempo/internal/shell"
)

// sayScript returns the PowerShell script that speaks text through the
// System.Speech synthesizer at the given volume (0-100).
func sayScript(text string, volume int) string {
	return fmt.Sprintf(`Add-Type -AssemblyName System.Speech; `+
		`$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; `+
		`$s.Volume = %d; `+
		`$s.Speak('%s')`, volume, shell.EscapePowerShell(text))
}

func Say(text string, volume int) error {
	cmd := exec.Command("powershell", "-NoProfile", "-Command", sayScript(text, volume))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech failed: %w\n%s", err, out)
	}
	return nil
}
