// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session ties the live channel, the query executor and the history
// ledger to one View. A Session is the single owner of that state; there are
// no package-level singletons.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/bridge/model"
	apperr "querydeck/cli/internal/errors"
	"querydeck/cli/internal/history"
	"querydeck/cli/internal/logging"
	"querydeck/cli/internal/query"
)

// Stream is the live channel as seen by the session.
type Stream interface {
	Open(ctx context.Context)
	Items() <-chan model.Item
	State() model.ConnectionState
}

// Session coordinates one console.
type Session struct {
	stream Stream
	api    backend.API
	view   View
	exec   *query.Executor
	ledger *history.Ledger
	logger *slog.Logger

	discardStale bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithDiscardStale controls whether a result is dropped when a newer query was
// submitted before it arrived. Enabled by default.
func WithDiscardStale(on bool) Option {
	return func(s *Session) { s.discardStale = on }
}

// New creates a session. A nil view discards notifications.
func New(stream Stream, api backend.API, view View, opts ...Option) *Session {
	if view == nil {
		view = NopView{}
	}
	s := &Session{
		stream:       stream,
		api:          api,
		view:         view,
		ledger:       history.New(),
		logger:       logging.Discard(),
		discardStale: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.exec = query.NewExecutor(api, s.logger)
	s.exec.OnLoading(s.view.LoadingChanged)
	return s
}

// Ledger returns the session's history ledger.
func (s *Session) Ledger() *history.Ledger { return s.ledger }

// Executor returns the session's query executor.
func (s *Session) Executor() *query.Executor { return s.exec }

// Status returns the live channel's current state.
func (s *Session) Status() model.ConnectionState { return s.stream.State() }

// Run opens the live channel and applies its items in order until ctx is done
// or the channel stops. It returns nil in both cases.
func (s *Session) Run(ctx context.Context) error {
	s.view.StatusChanged(Status{State: s.stream.State()})
	s.stream.Open(ctx)

	items := s.stream.Items()
	for {
		select {
		case <-ctx.Done():
			return nil
		case it, ok := <-items:
			if !ok {
				return nil
			}
			s.apply(it)
		}
	}
}

func (s *Session) apply(it model.Item) {
	switch it.Type {
	case model.ItemConnected:
		s.view.StatusChanged(Status{State: model.Connected})
	case model.ItemDisconnected:
		s.view.StatusChanged(Status{
			State:   model.Disconnected,
			Attempt: it.Attempt,
			RetryIn: it.RetryIn,
			GaveUp:  it.GaveUp,
			Err:     it.Err,
		})
	case model.ItemEvent:
		if it.Event.Kind != model.KindQueryExecuted {
			return
		}
		ev := it.Event.QueryExecuted
		s.ledger.Record(ev.Query, ev.Timestamp, ev.Success)
		s.view.HistoryChanged(s.ledger.Entries())
	}
}

// Submit runs text as a query and shows the outcome. Blank input is reported
// through ErrorShown and returns the Validation error. A result superseded by a
// newer submission is returned but not shown when stale discarding is on.
func (s *Session) Submit(ctx context.Context, text string) (query.Result, error) {
	res, err := s.exec.Run(ctx, text)
	if err != nil {
		if apperr.Is(err, apperr.Validation) {
			s.view.ErrorShown(query.EmptyQueryMessage)
		}
		return res, err
	}
	if s.discardStale && !s.exec.IsLatest(res.Seq) {
		s.logger.Debug("discarding superseded result", "seq", res.Seq)
		return res, nil
	}
	s.view.ResultReady(res)
	return res, nil
}

// LoadTables fetches the catalog and hands it to the view. Failures are logged
// and returned; the view is left untouched.
func (s *Session) LoadTables(ctx context.Context) ([]backend.TableInfo, error) {
	tables, err := s.api.ListTables(ctx)
	if err != nil {
		s.logger.Warn("loading tables failed", "error", logging.Mask(err.Error()))
		return nil, apperr.Wrap(apperr.Transport, "could not load tables", err)
	}
	s.view.TablesLoaded(tables)
	return tables, nil
}

// DescribeTable fetches a table's columns and shows them as a tabular result.
func (s *Session) DescribeTable(ctx context.Context, name string) (backend.TableSchema, error) {
	schema, err := s.api.DescribeTable(ctx, name)
	if err != nil {
		s.logger.Warn("describing table failed", "table", name, "error", logging.Mask(err.Error()))
		s.view.ErrorShown(fmt.Sprintf("Could not describe %s: %v", name, err))
		return backend.TableSchema{}, apperr.Wrap(apperr.Transport, "could not describe table", err)
	}
	s.view.ResultReady(SchemaResult(schema))
	return schema, nil
}

// SchemaResult renders a table schema as a tabular result.
func SchemaResult(schema backend.TableSchema) query.Result {
	rows := make([][]any, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		rows = append(rows, []any{c.Name, c.Type, nullable})
	}
	return query.Result{
		Kind:    query.Tabular,
		Columns: []string{"column", "type", "nullable"},
		Rows:    rows,
		Text:    fmt.Sprintf("%s: %d rows", schema.Name, schema.RowCount),
		Query:   schema.Name,
	}
}

// SelectTable returns the query text pre-filled when a table is picked.
func (s *Session) SelectTable(name string) string {
	return SelectAllQuery(name)
}

// SelectAllQuery builds the SELECT statement for a table name.
func SelectAllQuery(name string) string {
	return "SELECT * FROM " + strings.TrimSpace(name) + ";"
}

// SelectHistory returns the query text of history entry i without running it.
func (s *Session) SelectHistory(i int) (string, bool) {
	e, ok := s.ledger.At(i)
	if !ok {
		return "", false
	}
	return e.Query, true
}
