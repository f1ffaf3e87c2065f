// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package history keeps the bounded, most-recent-first list of queries the
// backend reports as executed. It lives in memory only.
package history

import (
	"sync"
	"time"
)

// Capacity is the number of entries the ledger retains.
const Capacity = 10

// LabelLimit is the number of query characters shown before a label is cut.
const LabelLimit = 50

// Entry is one executed query as reported by the live channel.
type Entry struct {
	Query string
	// Timestamp is the backend-supplied display label, never parsed.
	Timestamp string
	Success   bool
	// Received is the local time the event arrived.
	Received time.Time
}

// Label returns the query cut to LabelLimit characters, with "..." appended
// when it was cut.
func (e Entry) Label() string {
	r := []rune(e.Query)
	if len(r) <= LabelLimit {
		return e.Query
	}
	return string(r[:LabelLimit]) + "..."
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// New creates an empty ledger holding at most Capacity entries.
func New() *Ledger {
	return &Ledger{capacity: Capacity, now: time.Now}
}

// Record prepends an entry, dropping the oldest ones beyond capacity.
// Duplicates are kept.
func (l *Ledger) Record(query, timestamp string, success bool) {
	e := Entry{Query: query, Timestamp: timestamp, Success: success}

	l.mu.Lock()
	defer l.mu.Unlock()
	e.Received = l.now()

	n := len(l.entries) + 1
	if n > l.capacity {
		n = l.capacity
	}
	next := make([]Entry, n)
	next[0] = e
	copy(next[1:], l.entries)
	l.entries = next
}

// Entries returns a copy of the ledger, most recent first.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// At returns the entry at position i, where 0 is the most recent.
func (l *Ledger) At(i int) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Len returns the number of entries held.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
