// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the data carried on the live channel: connection state,
// inbound events and the stream items the channel hands to its consumer.
//
// The types in this package are transport-agnostic so the session and the
// views never depend on the websocket implementation.
package model

import "time"

// ConnectionState is the state of the live channel.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

func (s ConnectionState) String() string {
	if s == Connected {
		return "Connected"
	}
	return "Disconnected"
}

// EventKind enumerates inbound event kinds.
type EventKind string

// KindQueryExecuted reports a query executed by any client of the backend.
const KindQueryExecuted EventKind = "query_executed"

// QueryExecuted is the payload of a query_executed event.
type QueryExecuted struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
}

// InboundEvent is a parsed live-channel frame. Only QueryExecuted is populated,
// and only when Kind is KindQueryExecuted.
type InboundEvent struct {
	Kind          EventKind
	QueryExecuted QueryExecuted
}

// ItemType tags a stream item.
type ItemType int

const (
	// ItemConnected is emitted when the channel has been established.
	ItemConnected ItemType = iota + 1
	// ItemDisconnected is emitted on every loss and every failed attempt.
	ItemDisconnected
	// ItemEvent carries a forwarded inbound event.
	ItemEvent
)

// Item is one element of the channel's ordered stream.
type Item struct {
	Type  ItemType
	State ConnectionState
	Event InboundEvent

	// Disconnected items only.
	Err     error
	Attempt int           // consecutive failures so far, 1-based
	RetryIn time.Duration // delay before the next attempt
	GaveUp  bool          // the backoff policy refused another attempt
}
