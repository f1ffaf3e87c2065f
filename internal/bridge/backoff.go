// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import "time"

// DefaultReconnectDelay is the fixed pause between reconnect attempts.
const DefaultReconnectDelay = 3000 * time.Millisecond

// BackoffPolicy decides how long to wait before the next connection attempt.
// attempt counts consecutive failures and starts at 1. Returning ok=false stops
// the reconnect loop for good.
type BackoffPolicy interface {
	Next(attempt int) (delay time.Duration, ok bool)
}

// FixedBackoff waits the same delay forever.
type FixedBackoff struct {
	Delay time.Duration
}

func (f FixedBackoff) Next(int) (time.Duration, bool) {
	return f.Delay, true
}

// ExponentialBackoff doubles the delay per consecutive failure up to Max
// (five minutes when unset). MaxAttempts of zero means unbounded.
type ExponentialBackoff struct {
	Base        time.Duration
	Max         time.Duration
	MaxAttempts int
}

func (e ExponentialBackoff) Next(attempt int) (time.Duration, bool) {
	if e.MaxAttempts > 0 && attempt > e.MaxAttempts {
		return 0, false
	}
	limit := e.Max
	if limit <= 0 {
		limit = 5 * time.Minute
	}
	d := e.Base
	for i := 1; i < attempt && d < limit; i++ {
		d *= 2
	}
	if d > limit {
		d = limit
	}
	return d, true
}

// NewBackoff builds a policy from its config name. Unknown names get the fixed policy.
func NewBackoff(strategy string, delay, maxDelay time.Duration, maxAttempts int) BackoffPolicy {
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	if strategy == "exponential" {
		return ExponentialBackoff{Base: delay, Max: maxDelay, MaxAttempts: maxAttempts}
	}
	return FixedBackoff{Delay: delay}
}
