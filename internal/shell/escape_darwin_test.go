//go:build darwin

package shell

import "testing"

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Break time", "Break time"},
		{`display "alert"`, `display \"alert\"`},
		{`"quoted"`, `\"quoted\"`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeAppleScript(tt.in); got != tt.want {
			t.Errorf("EscapeAppleScript(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
