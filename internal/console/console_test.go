// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/bridge/model"
	"querydeck/cli/internal/history"
	"querydeck/cli/internal/query"
	"querydeck/cli/internal/session"

	"github.com/gdamore/tcell/v2"
)

type idleStream struct{ items chan model.Item }

func (s idleStream) Open(context.Context)         {}
func (s idleStream) Items() <-chan model.Item     { return s.items }
func (s idleStream) State() model.ConnectionState { return model.Disconnected }

type stubAPI struct{}

func (stubAPI) RunQuery(_ context.Context, q string) (backend.QueryResponse, error) {
	return backend.QueryResponse{
		Success: true, Message: "ok", ExecutionTime: "0.1s",
		Columns: []string{"q"}, Rows: [][]any{{q}},
	}, nil
}
func (stubAPI) ListTables(context.Context) ([]backend.TableInfo, error) { return nil, nil }
func (stubAPI) DescribeTable(context.Context, string) (backend.TableSchema, error) {
	return backend.TableSchema{}, nil
}
func (stubAPI) Health(context.Context) error { return nil }

// newTestConsole returns a console whose UI updates are delivered on the
// returned channel instead of a running application.
func newTestConsole() (*Console, chan func()) {
	updates := make(chan func(), 16)
	c := New()
	c.queue = func(fn func()) { updates <- fn }
	s := session.New(idleStream{items: make(chan model.Item)}, stubAPI{}, c)
	c.Attach(s)
	return c, updates
}

func drain(updates chan func()) {
	for {
		select {
		case fn := <-updates:
			fn()
		default:
			return
		}
	}
}

func TestStatusChanged(t *testing.T) {
	c, updates := newTestConsole()
	c.StatusChanged(session.Status{State: model.Connected})
	drain(updates)
	if got := c.status.GetText(true); !strings.Contains(got, "Connected") {
		t.Errorf("status = %q", got)
	}
	c.StatusChanged(session.Status{State: model.Disconnected, Attempt: 1, RetryIn: 3 * time.Second})
	drain(updates)
	if got := c.status.GetText(true); !strings.Contains(got, "Disconnected") || !strings.Contains(got, "3s") {
		t.Errorf("status = %q", got)
	}
}

func TestResultReadyFillsTable(t *testing.T) {
	c, updates := newTestConsole()
	c.ResultReady(query.Result{
		Kind:          query.Tabular,
		Columns:       []string{"id", "name"},
		Rows:          [][]any{{1, "John Doe"}, {2, nil}},
		ExecutionTime: "0.12s",
	})
	drain(updates)

	if got := c.results.GetCell(0, 1).Text; got != "name" {
		t.Errorf("header = %q", got)
	}
	if got := c.results.GetCell(1, 1).Text; got != "John Doe" {
		t.Errorf("cell = %q", got)
	}
	if got := c.results.GetCell(2, 1).Text; got != "NULL" {
		t.Errorf("null cell = %q", got)
	}
	if got := c.message.GetText(true); !strings.Contains(got, "0.12s") {
		t.Errorf("message = %q", got)
	}
}

func TestErrorShownReplacesResult(t *testing.T) {
	c, updates := newTestConsole()
	c.ResultReady(query.Result{Kind: query.Tabular, Columns: []string{"a"}, Rows: [][]any{{1}}})
	c.ErrorShown("Please enter a query")
	drain(updates)

	if c.results.GetRowCount() != 0 {
		t.Error("error should clear the previous table")
	}
	if got := c.message.GetText(true); got != "Please enter a query" {
		t.Errorf("message = %q", got)
	}
}

func TestHistoryChanged(t *testing.T) {
	c, updates := newTestConsole()
	if main, _ := c.history.GetItemText(0); main != "No queries executed yet" {
		t.Errorf("placeholder = %q", main)
	}
	c.HistoryChanged([]history.Entry{
		{Query: strings.Repeat("x", 60), Timestamp: "10:00:00", Success: true},
		{Query: "SELECT 1", Timestamp: "09:00:00", Success: false},
	})
	drain(updates)

	if c.history.GetItemCount() != 2 {
		t.Fatalf("items = %d", c.history.GetItemCount())
	}
	main, _ := c.history.GetItemText(0)
	if !strings.Contains(main, strings.Repeat("x", 50)+"...") {
		t.Errorf("label = %q", main)
	}
}

func TestTablesLoaded(t *testing.T) {
	c, updates := newTestConsole()
	c.TablesLoaded([]backend.TableInfo{{Name: "users", Columns: 4, Rows: 3}})
	drain(updates)
	main, _ := c.tables.GetItemText(0)
	if !strings.Contains(main, "users") {
		t.Errorf("table item = %q", main)
	}

	c.TablesLoaded(nil)
	drain(updates)
	if main, _ := c.tables.GetItemText(0); main != "No tables found" {
		t.Errorf("placeholder = %q", main)
	}
}

func TestCtrlRSubmitsEditorText(t *testing.T) {
	c, updates := newTestConsole()
	c.editor.SetText("SELECT * FROM users;", true)

	if ev := c.handleKey(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)); ev != nil {
		t.Fatal("Ctrl-R should be consumed")
	}

	deadline := time.After(2 * time.Second)
	for c.results.GetRowCount() == 0 {
		select {
		case fn := <-updates:
			fn()
		case <-deadline:
			t.Fatal("no result arrived")
		}
	}
	if got := c.results.GetCell(1, 0).Text; got != "SELECT * FROM users;" {
		t.Errorf("echoed query = %q", got)
	}
}

func TestCtrlLClears(t *testing.T) {
	c, updates := newTestConsole()
	c.editor.SetText("SELECT 1", true)
	c.ResultReady(query.Result{Kind: query.Message, Text: "ok"})
	drain(updates)

	c.handleKey(tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl))
	if c.editor.GetText() != "" || c.message.GetText(true) != "" {
		t.Error("Ctrl-L should clear the editor and the result area")
	}
}
