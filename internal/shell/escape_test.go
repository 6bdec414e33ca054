package shell

import "testing"

func TestEscapePowerShell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Work time", "Work time"},
		{"it's break time", "it''s break time"},
		{"'quoted'", "''quoted''"},
		{"", ""},
		{"''", "''''"},
	}
	for _, tt := range tests {
		if got := EscapePowerShell(tt.in); got != tt.want {
			t.Errorf("EscapePowerShell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
