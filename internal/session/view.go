// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"time"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/bridge/model"
	"querydeck/cli/internal/history"
	"querydeck/cli/internal/query"
)

// Status describes the live channel as shown in the status indicator.
type Status struct {
	State model.ConnectionState
	// Set on disconnects only.
	Attempt int
	RetryIn time.Duration
	GaveUp  bool
	Err     error
}

// Label returns the indicator text.
func (s Status) Label() string {
	if s.State == model.Connected {
		return "Connected"
	}
	return "Disconnected"
}

// View receives everything the session wants shown. Methods are called from the
// goroutine that drove the change; implementations that own a UI loop must hop
// onto it themselves.
type View interface {
	StatusChanged(Status)
	LoadingChanged(loading bool)
	ResultReady(query.Result)
	ErrorShown(message string)
	HistoryChanged([]history.Entry)
	TablesLoaded([]backend.TableInfo)
}

// NopView ignores every notification. Embed it to implement part of View.
type NopView struct{}

func (NopView) StatusChanged(Status)             {}
func (NopView) LoadingChanged(bool)              {}
func (NopView) ResultReady(query.Result)         {}
func (NopView) ErrorShown(string)                {}
func (NopView) HistoryChanged([]history.Entry)   {}
func (NopView) TablesLoaded([]backend.TableInfo) {}
