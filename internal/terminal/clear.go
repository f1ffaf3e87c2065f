// Package terminal provides utilities for terminal operations such as sizing and clearing text.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Width returns the current terminal width, or DefaultWidth if unavailable.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return DefaultWidth
}

// IsInteractive reports whether stdout is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ClearPreviousLines clears text that was previously printed to w.
// It calculates how many lines the text occupied at the given width, then moves
// up and clears each line. The cursor is expected to sit on the line right
// below the text, as it does after a trailing newline.
func ClearPreviousLines(w io.Writer, textLength, width int) {
	if width <= 0 {
		width = DefaultWidth
	}
	totalLines := int(math.Ceil(float64(textLength) / float64(width)))
	if totalLines < 1 {
		totalLines = 1
	}

	linesToClear := totalLines + 1
	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K") // start of line, clear it
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A") // up one
		}
	}
}

// Truncate cuts s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
