// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/history"
	"querydeck/cli/internal/logging"
	"querydeck/cli/internal/query"
	"querydeck/cli/internal/render"
	"querydeck/cli/internal/session"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live channel and show recent queries",
	Long: `Follow the backend's live channel and keep the ten most recent queries on screen.

Queries run by any client of the backend appear here as they execute. The channel
reconnects on its own after a loss. Press Ctrl-C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		board := newWatchBoard(cfg.Server)
		// Reconnect warnings would tear the live area; the board shows them instead.
		log := logger
		if logging.ParseLevel(cfg.LogLevel) != pterm.LogLevelDebug {
			log = logging.New("error", os.Stderr)
		}
		sess, _, err := newSession(board, log)
		if err != nil {
			return err
		}

		board.start()
		defer board.stop()
		return sess.Run(cmd.Context())
	},
}

// watchBoard is a session.View drawing status and history into a pterm area.
// A spinner animates the status line while the channel is reconnecting.
type watchBoard struct {
	server string

	mu      sync.Mutex
	area    *pterm.AreaPrinter
	status  session.Status
	entries []history.Entry
	notice  string
	frame   int

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newWatchBoard(server string) *watchBoard {
	return &watchBoard{server: server, stopCh: make(chan struct{})}
}

func (b *watchBoard) start() {
	cursor.Hide()
	area, err := pterm.DefaultArea.Start()
	if err != nil {
		cursor.Show()
		return
	}
	b.mu.Lock()
	b.area = area
	b.mu.Unlock()
	b.redraw()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.mu.Lock()
				b.frame++
				b.mu.Unlock()
				b.redraw()
			case <-b.stopCh:
				return
			}
		}
	}()
}

func (b *watchBoard) stop() {
	close(b.stopCh)
	b.wg.Wait()
	b.mu.Lock()
	if b.area != nil {
		_ = b.area.Stop()
		b.area = nil
	}
	b.mu.Unlock()
	cursor.Show()
}

func (b *watchBoard) redraw() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.area == nil {
		return
	}
	b.area.Update(b.render())
}

// render must be called with mu held.
func (b *watchBoard) render() string {
	var s strings.Builder
	s.WriteString(pterm.Bold.Sprint("querydeck watch") + pterm.FgGray.Sprintf("  %s\n", b.server))
	status := render.Status(b.status)
	if b.status.Label() != "Connected" && !b.status.GaveUp {
		status = spinnerFrames[b.frame%len(spinnerFrames)] + " " + status
	}
	s.WriteString(status + "\n\n")
	s.WriteString(render.History(b.entries))
	if b.notice != "" {
		s.WriteString("\n" + pterm.FgYellow.Sprint(b.notice) + "\n")
	}
	s.WriteString(pterm.FgGray.Sprint("\nCtrl-C to stop"))
	return s.String()
}

func (b *watchBoard) set(fn func()) {
	b.mu.Lock()
	fn()
	b.mu.Unlock()
	b.redraw()
}

func (b *watchBoard) StatusChanged(s session.Status) {
	b.set(func() { b.status = s })
}

func (b *watchBoard) LoadingChanged(bool) {}

func (b *watchBoard) ResultReady(r query.Result) {
	b.set(func() { b.notice = fmt.Sprintf("last result: %s", r.Kind) })
}

func (b *watchBoard) ErrorShown(msg string) {
	b.set(func() { b.notice = msg })
}

func (b *watchBoard) HistoryChanged(entries []history.Entry) {
	b.set(func() { b.entries = entries })
}

func (b *watchBoard) TablesLoaded([]backend.TableInfo) {}

var _ session.View = (*watchBoard)(nil)

func init() {
	rootCmd.AddCommand(watchCmd)
}
