// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package query submits user-typed queries to the backend and maps the responses
// into display-ready results. It owns the loading indicator: observers see true
// before a request starts and false once the last in-flight request finishes.
package query

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"querydeck/cli/internal/backend"
	apperr "querydeck/cli/internal/errors"
	"querydeck/cli/internal/logging"
)

// EmptyQueryMessage is shown when the user submits nothing but whitespace.
const EmptyQueryMessage = "Please enter a query"

// Executor runs queries against the backend's query endpoint.
type Executor struct {
	api    backend.API
	logger *slog.Logger

	seq atomic.Uint64

	mu         sync.Mutex
	inFlight   int
	observers  []func(bool)
	delivering bool
	delivered  bool
}

// NewExecutor creates an executor. A nil logger discards diagnostics.
func NewExecutor(api backend.API, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{api: api, logger: logger}
}

// OnLoading registers an observer of the loading flag. Observers are called in
// registration order, one value at a time. A change that happens while another
// value is being delivered is delivered right after it by the same goroutine,
// and values that were overtaken in between are skipped.
func (e *Executor) OnLoading(fn func(loading bool)) {
	e.mu.Lock()
	e.observers = append(e.observers, fn)
	e.mu.Unlock()
}

// Loading reports whether any query is in flight.
func (e *Executor) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight > 0
}

// IsLatest reports whether seq belongs to the most recently started query.
func (e *Executor) IsLatest(seq uint64) bool {
	return e.seq.Load() == seq
}

// Run executes one query. Input that is empty after trimming is rejected with a
// Validation error and never reaches the backend. Every other outcome, transport
// failures included, is returned as a Result with a nil error.
func (e *Executor) Run(ctx context.Context, q string) (Result, error) {
	if strings.TrimSpace(q) == "" {
		return Result{}, apperr.New(apperr.Validation, EmptyQueryMessage)
	}

	seq := e.seq.Add(1)
	e.begin()
	defer e.end()

	start := time.Now()
	resp, err := e.api.RunQuery(ctx, q)
	if err != nil {
		e.logger.Warn("query request failed", "seq", seq, "error", logging.Mask(err.Error()))
		return Result{
			Kind:        Failure,
			Text:        "Network error: " + err.Error(),
			FailureKind: apperr.Transport,
			Err:         apperr.Wrap(apperr.Transport, "query request failed", err),
			Query:       q,
			Seq:         seq,
		}, nil
	}

	res := FromResponse(resp)
	res.Query = q
	res.Seq = seq
	e.logger.Debug("query finished",
		"seq", seq,
		"outcome", res.Kind.String(),
		"elapsed", time.Since(start),
	)
	return res, nil
}

// FromResponse maps a backend response verbatim into a Result.
func FromResponse(resp backend.QueryResponse) Result {
	switch {
	case !resp.Success:
		return Result{
			Kind:          Failure,
			Text:          resp.Message,
			ExecutionTime: resp.ExecutionTime,
			FailureKind:   apperr.BackendReported,
		}
	case resp.Columns != nil && resp.Rows != nil:
		return Result{
			Kind:          Tabular,
			Columns:       resp.Columns,
			Rows:          resp.Rows,
			Text:          resp.Message,
			ExecutionTime: resp.ExecutionTime,
		}
	default:
		return Result{
			Kind:          Message,
			Text:          resp.Message,
			ExecutionTime: resp.ExecutionTime,
		}
	}
}

func (e *Executor) begin() {
	e.mu.Lock()
	e.inFlight++
	e.settle()
}

func (e *Executor) end() {
	e.mu.Lock()
	e.inFlight--
	e.settle()
}

// settle delivers the loading flag until observers have seen its current
// value. Only one goroutine delivers at a time; a change made meanwhile is
// picked up by that goroutine, so the last value observed always matches
// inFlight > 0. Called with mu held; returns with mu released.
func (e *Executor) settle() {
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	for {
		want := e.inFlight > 0
		if want == e.delivered {
			e.delivering = false
			e.mu.Unlock()
			return
		}
		e.delivered = want
		obs := e.observers
		e.mu.Unlock()
		for _, fn := range obs {
			fn(want)
		}
		e.mu.Lock()
	}
}
