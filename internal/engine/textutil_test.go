package engine

import "testing"

func TestNormLang(t *testing.T) {
	if got := NormLang(""); got != "auto" {
		t.Errorf("NormLang(\"\") = %q, want auto", got)
	}
	if got := NormLang("en-US"); got != "en-US" {
		t.Errorf("NormLang passthrough = %q", got)
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>bold</b> text", "bold text"},
		{"  plain  ", "plain"},
		{"<i></i>", ""},
		{"a <c.colorE5E5E5>styled</c> cue", "a styled cue"},
	}
	for _, tt := range tests {
		if got := CleanHTML(tt.in); got != tt.want {
			t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeEntities(t *testing.T) {
	in := "&quot;a&quot; &apos;b&apos; &lt;c&gt; d &amp; e &#39;f&#39;"
	want := `"a" 'b' <c> d & e 'f'`
	if got := DecodeEntities(in); got != want {
		t.Errorf("DecodeEntities = %q, want %q", got, want)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  a\t\tb \n c  "); got != "a b c" {
		t.Errorf("CollapseSpaces = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("ab", 10); got != "ab" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestPageUserAgent(t *testing.T) {
	Init(Config{UserAgent: "custom/1.0"})
	if got := PageUserAgent(); got != "custom/1.0" {
		t.Errorf("override ignored: %q", got)
	}

	Init(Config{})
	got := PageUserAgent()
	found := false
	for _, ua := range desktopUserAgents {
		if ua == got {
			found = true
		}
	}
	if !found {
		t.Errorf("unexpected user agent %q", got)
	}
}
