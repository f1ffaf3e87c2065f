// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"querydeck/cli/internal/terminal"
)

// spinnerFrames are the frames used by every inline spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The returned function stops the spinner and
// clears its line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	text = terminal.Truncate(text, terminal.Width()-4)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len([]rune(line)), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// loadingSpinner returns a loading observer that shows an inline spinner on w
// while loading is true. Nothing is drawn when stdout is not a terminal.
func loadingSpinner(w io.Writer, text string) func(bool) {
	var (
		mu   sync.Mutex
		stop func()
	)
	interactive := terminal.IsInteractive()
	return func(loading bool) {
		if !interactive {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch {
		case loading && stop == nil:
			stop = startInlineSpinner(w, text, spinnerFrames, 100*time.Millisecond)
		case !loading && stop != nil:
			stop()
			stop = nil
		}
	}
}
