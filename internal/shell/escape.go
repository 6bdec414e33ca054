// Package shell escapes strings for embedding in generated scripts.
package shell

import "strings"

// EscapePowerShell makes a string safe inside a PowerShell
// single-quoted literal, where '' is the only escape.
func EscapePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
