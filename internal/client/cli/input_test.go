package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetWithDefault(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"empty keeps current", "\n", "Acme"},
		{"dash clears", "-\n", ""},
		{"new value", "  Globex \n", "Globex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetWithDefault(rdr(tt.input), "Name", "Acme", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Name [Acme]")
		})
	}
}

func TestGetConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, GetConfirm(rdr("y\n"), "Retry?", &out))
	assert.True(t, GetConfirm(rdr("YES\n"), "Retry?", &out))
	assert.False(t, GetConfirm(rdr("\n"), "Retry?", &out))
	assert.False(t, GetConfirm(rdr(""), "Retry?", &out))
}

func TestGetLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Unix newlines, stop on empty line",
			input:    "Chad\nTogo\n\n",
			expected: []string{"Chad", "Togo"},
		},
		{
			name:     "Windows CRLF, stop on empty line",
			input:    "Chad\r\nTogo\r\n\r\n",
			expected: []string{"Chad", "Togo"},
		},
		{
			name:     "Immediate blank line gives empty slice",
			input:    "\n",
			expected: []string{},
		},
		{
			name:     "EOF without trailing blank line",
			input:    "Chad\nTogo",
			expected: []string{"Chad", "Togo"},
		},
		{
			name:     "Inner spaces are preserved",
			input:    "Costa Rica\n\n",
			expected: []string{"Costa Rica"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetLines(rdr(tc.input), "Countries", &out)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
