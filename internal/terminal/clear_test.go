package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 100, 40)

	// 100 chars at width 40 use 3 lines, plus the line the cursor is on.
	if got := strings.Count(buf.String(), "\x1b[2K"); got != 4 {
		t.Errorf("cleared %d lines, want 4", got)
	}
	if got := strings.Count(buf.String(), "\x1b[1A"); got != 3 {
		t.Errorf("moved up %d lines, want 3", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 0, "abc"},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
