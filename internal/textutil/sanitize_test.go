package textutil

import "testing"

func TestSafeComponent(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces become underscores", "Acme Cast", "Acme_Cast"},
		{"episode with number", "Episode 1", "Episode_1"},
		{"punctuation replaced", "What's next? Part 2!", "What_s_next_Part_2"},
		{"hyphens kept", "deep-dive_42", "deep-dive_42"},
		{"empty input", "", "unknown"},
		{"only punctuation", "???", "unknown"},
		{"runs collapse", "a  ...  b", "a_b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SafeComponent(tc.input); got != tc.want {
				t.Errorf("SafeComponent(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSafeFileName(t *testing.T) {
	if got := SafeFileName("Odd/Title: Part, 1", 100); got != "OddTitle Part 1" {
		t.Errorf("SafeFileName = %q", got)
	}
	if got := SafeFileName("abcdef", 3); got != "abc" {
		t.Errorf("SafeFileName truncation = %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  Hello   world\n again\t"); got != "Hello world again" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
