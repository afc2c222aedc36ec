package views

import "testing"

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"skin tone", "\U0001F44D\U0001F3FB", "\U0001F44D"},
		{"zwj", "a\u200db", "ab"},
		{"variation selector", "\u2764\ufe0f", "\u2764"},
		{"newlines", "one\ntwo\r\nthree", "one two  three"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tt.in); got != tt.want {
				t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlackText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ping <@U1>", "ping @U1"},
		{"see <#C1|general>", "see #general"},
		{"<!here> deploy", "@here deploy"},
		{"<https://example.com|docs> and <https://example.com>", "docs and https://example.com"},
		{"a &lt;b&gt; &amp; c", "a <b> & c"},
		{"&lt;@U1&gt; stays literal", "<@U1> stays literal"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := slackText(tt.in); got != tt.want {
				t.Errorf("slackText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
