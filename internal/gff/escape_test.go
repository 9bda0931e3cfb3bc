package gff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeRoundTrip(t *testing.T) {
	tests := []string{
		"plain",
		"has space",
		"semi;colon",
		"eq=uals",
		"per%cent",
		"com,ma",
		"all; of=them, at%once here",
		"",
	}

	for _, tt := range tests {
		assert.Equal(t, tt, Unescape(Escape(tt)), "round trip of %q", tt)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ab", "ab"},
		{"a b", "a%20b"},
		{"a;b", "a%3Bb"},
		{"a=b", "a%3Db"},
		{"a%b", "a%25b"},
		{"a,b", "a%2Cb"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Escape(tt.input), "Escape(%q)", tt.input)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a+b", "a b"},
		{"a%20b", "a b"},
		{"a%3bb", "a;b"},
		{"a%3Bb", "a;b"},
		{"trailing%3B", "trailing;"},
		// Malformed escapes pass through verbatim.
		{"a%zzb", "a%zzb"},
		{"a%2", "a%2"},
		{"a%", "a%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Unescape(tt.input), "Unescape(%q)", tt.input)
	}
}
