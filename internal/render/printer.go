// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"fmt"
	"io"
	"sync"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/history"
	"querydeck/cli/internal/query"
	"querydeck/cli/internal/session"

	"github.com/pterm/pterm"
)

// Printer is a session.View that prints each notification to a writer as it
// happens. Loading changes are left to the caller, which usually owns a spinner.
type Printer struct {
	mu sync.Mutex
	w  io.Writer

	// OnLoading, when set, receives loading changes.
	OnLoading func(bool)
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

func (p *Printer) print(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, s)
}

func (p *Printer) StatusChanged(s session.Status) { p.print(Status(s) + "\n") }

func (p *Printer) LoadingChanged(loading bool) {
	if p.OnLoading != nil {
		p.OnLoading(loading)
	}
}

func (p *Printer) ResultReady(r query.Result) { p.print(Result(r)) }

func (p *Printer) ErrorShown(msg string) { p.print(pterm.Error.Sprintln(msg)) }

func (p *Printer) HistoryChanged(entries []history.Entry) { p.print(History(entries)) }

func (p *Printer) TablesLoaded(tables []backend.TableInfo) { p.print(Tables(tables)) }

var _ session.View = (*Printer)(nil)
