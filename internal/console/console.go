// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package console is the interactive terminal UI. It implements session.View on
// top of tview: session notifications are queued onto the UI goroutine, and user
// keys become session intents.
package console

import (
	"context"
	"fmt"
	"strings"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/history"
	"querydeck/cli/internal/query"
	"querydeck/cli/internal/render"
	"querydeck/cli/internal/session"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/sync/errgroup"
)

const helpText = "[yellow]Keys:[white] Ctrl-R Run  Ctrl-L Clear  Tab Cycle  Enter Select  Ctrl-Q Quit"

// Console owns the tview widgets for one session.
type Console struct {
	app  *tview.Application
	sess *session.Session
	ctx  context.Context

	root    *tview.Flex
	status  *tview.TextView
	tables  *tview.List
	history *tview.List
	editor  *tview.TextArea
	results *tview.Table
	message *tview.TextView
	footer  *tview.TextView

	focusOrder []tview.Primitive

	// queue runs fn on the UI goroutine.
	queue func(fn func())
}

// New builds the widget tree. Attach a session before calling Run.
func New() *Console {
	c := &Console{
		app: tview.NewApplication(),
		ctx: context.Background(),
	}
	c.queue = func(fn func()) { c.app.QueueUpdateDraw(fn) }

	c.status = tview.NewTextView().SetDynamicColors(true)
	c.status.SetBorder(true).SetTitle("Connection")

	c.tables = tview.NewList().ShowSecondaryText(false)
	c.tables.SetBorder(true).SetTitle("Tables")
	c.tables.AddItem(render.NoTablesText, "", 0, nil)

	c.history = tview.NewList().ShowSecondaryText(false)
	c.history.SetBorder(true).SetTitle("Recent Queries")
	c.history.AddItem(render.NoHistoryText, "", 0, nil)

	c.editor = tview.NewTextArea()
	c.editor.SetPlaceholder("Enter a query, press Ctrl-R to run")
	c.editor.SetBorder(true).SetTitle("Query")

	c.results = tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	c.results.SetBorder(true).SetTitle("Results")

	c.message = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	c.message.SetBorder(true).SetTitle("Message")

	c.footer = tview.NewTextView().SetDynamicColors(true)
	c.footer.SetText(helpText)

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.status, 3, 0, false).
		AddItem(c.tables, 0, 1, false).
		AddItem(c.history, 0, 1, false)

	center := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.editor, 7, 0, true).
		AddItem(c.message, 4, 0, false).
		AddItem(c.results, 0, 1, false)

	body := tview.NewFlex().
		AddItem(side, 40, 0, false).
		AddItem(center, 0, 1, true)

	c.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(c.footer, 1, 0, false)

	c.focusOrder = []tview.Primitive{c.editor, c.tables, c.history, c.results}
	c.app.SetInputCapture(c.handleKey)
	return c
}

// Attach binds the session whose intents the console forwards.
func (c *Console) Attach(s *session.Session) { c.sess = s }

// Run starts the session and the UI and blocks until the user quits or ctx is
// done.
func (c *Console) Run(ctx context.Context) error {
	if c.sess == nil {
		return fmt.Errorf("console: no session attached")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.ctx = ctx

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.sess.Run(gctx)
	})
	g.Go(func() error {
		_, _ = c.sess.LoadTables(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.app.Stop()
		return nil
	})

	c.app.SetRoot(c.root, true).SetFocus(c.editor).EnableMouse(true)
	err := c.app.Run()
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func (c *Console) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyCtrlR:
		c.submit()
		return nil
	case tcell.KeyCtrlL:
		c.clear()
		return nil
	case tcell.KeyCtrlQ:
		c.app.Stop()
		return nil
	case tcell.KeyTab:
		c.cycleFocus()
		return nil
	}
	return ev
}

func (c *Console) submit() {
	text := c.editor.GetText()
	ctx := c.ctx
	go func() {
		_, _ = c.sess.Submit(ctx, text)
	}()
}

func (c *Console) clear() {
	c.editor.SetText("", true)
	c.results.Clear()
	c.results.SetTitle("Results")
	c.message.Clear()
	c.app.SetFocus(c.editor)
}

func (c *Console) cycleFocus() {
	focused := c.app.GetFocus()
	for i, p := range c.focusOrder {
		if p == focused {
			c.app.SetFocus(c.focusOrder[(i+1)%len(c.focusOrder)])
			return
		}
	}
	c.app.SetFocus(c.editor)
}

// StatusChanged updates the connection indicator.
func (c *Console) StatusChanged(s session.Status) {
	c.queue(func() { c.status.SetText(statusMarkup(s)) })
}

// LoadingChanged shows or clears the running indicator.
func (c *Console) LoadingChanged(loading bool) {
	c.queue(func() {
		if loading {
			c.footer.SetText("[yellow]Running query...")
			c.editor.SetTitle("Query (running)")
			return
		}
		c.footer.SetText(helpText)
		c.editor.SetTitle("Query")
	})
}

// ResultReady replaces the result area with r.
func (c *Console) ResultReady(r query.Result) {
	c.queue(func() { c.showResult(r) })
}

// ErrorShown replaces the result area with msg.
func (c *Console) ErrorShown(msg string) {
	c.queue(func() {
		c.results.Clear()
		c.results.SetTitle("Results")
		c.message.SetText("[red]" + tview.Escape(msg))
	})
}

// HistoryChanged redraws the recent-queries list.
func (c *Console) HistoryChanged(entries []history.Entry) {
	c.queue(func() { c.showHistory(entries) })
}

// TablesLoaded redraws the table list.
func (c *Console) TablesLoaded(tables []backend.TableInfo) {
	c.queue(func() { c.showTables(tables) })
}

func (c *Console) showResult(r query.Result) {
	c.results.Clear()
	c.results.SetTitle("Results")

	var msg strings.Builder
	switch r.Kind {
	case query.Failure:
		msg.WriteString("[red]" + tview.Escape(r.Text))
	case query.Message:
		msg.WriteString("[green]" + tview.Escape(r.Text))
	case query.Tabular:
		fillTable(c.results, r.Columns, r.Rows)
		c.results.SetTitle(fmt.Sprintf("Results (%d rows)", len(r.Rows)))
		msg.WriteString("[green]" + tview.Escape(r.Text))
	}
	if r.ExecutionTime != "" {
		msg.WriteString("\n[gray]Execution time: " + tview.Escape(r.ExecutionTime))
	}
	c.message.SetText(msg.String())
}

func (c *Console) showHistory(entries []history.Entry) {
	c.history.Clear()
	if len(entries) == 0 {
		c.history.AddItem(render.NoHistoryText, "", 0, nil)
		return
	}
	for i, e := range entries {
		idx := i
		mark := "[green]✓[white]"
		if !e.Success {
			mark = "[red]✗[white]"
		}
		label := fmt.Sprintf("%s [gray]%s[white] %s", mark, tview.Escape(e.Timestamp), tview.Escape(e.Label()))
		c.history.AddItem(label, "", 0, func() {
			if q, ok := c.sess.SelectHistory(idx); ok {
				c.editor.SetText(q, true)
				c.app.SetFocus(c.editor)
			}
		})
	}
}

func (c *Console) showTables(tables []backend.TableInfo) {
	c.tables.Clear()
	if len(tables) == 0 {
		c.tables.AddItem(render.NoTablesText, "", 0, nil)
		return
	}
	for _, t := range tables {
		name := t.Name
		label := fmt.Sprintf("%s [gray](%d cols, %d rows)", tview.Escape(name), t.Columns, t.Rows)
		c.tables.AddItem(label, "", 0, func() {
			c.editor.SetText(c.sess.SelectTable(name), true)
			c.app.SetFocus(c.editor)
		})
	}
}

func fillTable(t *tview.Table, columns []string, rows [][]any) {
	for i, col := range columns {
		t.SetCell(0, i, tview.NewTableCell(col).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold).
			SetMaxWidth(render.MaxCellWidth))
	}
	for r, row := range rows {
		for i := range columns {
			var text string
			if i < len(row) {
				text = render.FormatCell(row[i])
			}
			t.SetCell(r+1, i, tview.NewTableCell(text).SetMaxWidth(render.MaxCellWidth))
		}
	}
}

func statusMarkup(s session.Status) string {
	if s.Label() == "Connected" {
		return "[green]●[white] Connected"
	}
	if s.RetryIn > 0 && !s.GaveUp {
		return fmt.Sprintf("[red]●[white] Disconnected [gray](retry %d in %s)", s.Attempt, s.RetryIn)
	}
	return "[red]●[white] Disconnected"
}
