//go:build windows

package toast

import (
	"strings"
	"testing"
)

func TestShowScriptContainsTitleAndMessage(t *testing.T) {
	s := showScript("Break", "Break for 5m0s", "")
	if !strings.Contains(s, "Break") {
		t.Errorf("script should contain title:\n%s", s)
	}
	if !strings.Contains(s, "Break for 5m0s") {
		t.Errorf("script should contain message:\n%s", s)
	}
}

func TestShowScriptEscapesQuotes(t *testing.T) {
	s := showScript("it's time", "that's all", "")
	// PowerShell single-quote escape happens after XML escaping, so the
	// apostrophe arrives as the &apos; entity.
	if strings.Contains(s, "it's time") || strings.Contains(s, "that's all") {
		t.Errorf("raw apostrophes must not survive:\n%s", s)
	}
	if !strings.Contains(s, "it&apos;s time") {
		t.Errorf("title should be XML-escaped:\n%s", s)
	}
}

func TestShowScriptEscapesXML(t *testing.T) {
	s := showScript("a <b> & c", "m", "")
	if !strings.Contains(s, "a &lt;b&gt; &amp; c") {
		t.Errorf("script should XML-escape title:\n%s", s)
	}
}

func TestShowScriptUsesToastManager(t *testing.T) {
	s := showScript("T", "M", "")
	if !strings.Contains(s, "ToastNotificationManager") {
		t.Error("script should use ToastNotificationManager")
	}
	if !strings.Contains(s, "ToastGeneric") {
		t.Error("script should use the ToastGeneric template")
	}
}

func TestShowScriptAttribution(t *testing.T) {
	s := showScript("T", "M", "")
	if !strings.Contains(s, "via tempo") {
		t.Error("script should carry the attribution text")
	}
}

func TestShowScriptIconElement(t *testing.T) {
	s := showScript("T", "M", `C:\data\icon.png`)
	if !strings.Contains(s, "appLogoOverride") {
		t.Errorf("script should embed the icon:\n%s", s)
	}
	if !strings.Contains(s, "file:///C:/data/icon.png") {
		t.Errorf("icon path should become a file URI:\n%s", s)
	}

	if s := showScript("T", "M", ""); strings.Contains(s, "appLogoOverride") {
		t.Error("script without icon path should omit the icon element")
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&apos;s"},
	}
	for _, tt := range tests {
		if got := escapeXML(tt.in); got != tt.want {
			t.Errorf("escapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
