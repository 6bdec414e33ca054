//go:build darwin

package shell

import "strings"

// EscapeAppleScript makes a string safe inside an AppleScript
// double-quoted literal.
func EscapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
