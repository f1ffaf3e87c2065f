// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"testing"
	"time"
)

func TestFixedBackoffNeverGivesUp(t *testing.T) {
	b := FixedBackoff{Delay: DefaultReconnectDelay}
	for _, attempt := range []int{1, 2, 10, 1000} {
		d, ok := b.Next(attempt)
		if !ok || d != 3*time.Second {
			t.Errorf("Next(%d) = %v, %v; want 3s, true", attempt, d, ok)
		}
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff{Base: time.Second, Max: 5 * time.Second, MaxAttempts: 5}
	tests := []struct {
		attempt int
		want    time.Duration
		ok      bool
	}{
		{1, time.Second, true},
		{2, 2 * time.Second, true},
		{3, 4 * time.Second, true},
		{4, 5 * time.Second, true},
		{5, 5 * time.Second, true},
		{6, 0, false},
	}
	for _, tt := range tests {
		d, ok := b.Next(tt.attempt)
		if d != tt.want || ok != tt.ok {
			t.Errorf("Next(%d) = %v, %v; want %v, %v", tt.attempt, d, ok, tt.want, tt.ok)
		}
	}
}

func TestExponentialBackoffUncappedStaysBounded(t *testing.T) {
	b := ExponentialBackoff{Base: time.Second}
	d, ok := b.Next(200)
	if !ok || d != 5*time.Minute {
		t.Errorf("Next(200) = %v, %v; want 5m, true", d, ok)
	}
}

func TestNewBackoff(t *testing.T) {
	if _, ok := NewBackoff("fixed", 0, 0, 0).(FixedBackoff); !ok {
		t.Error("fixed strategy should build FixedBackoff")
	}
	if d, _ := NewBackoff("fixed", 0, 0, 0).Next(1); d != DefaultReconnectDelay {
		t.Errorf("zero delay should fall back to default, got %v", d)
	}
	if _, ok := NewBackoff("exponential", time.Second, time.Minute, 3).(ExponentialBackoff); !ok {
		t.Error("exponential strategy should build ExponentialBackoff")
	}
}
