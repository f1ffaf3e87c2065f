// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge maintains the live channel between the CLI and the backend.
// A Channel dials the backend's websocket endpoint, reconnects after every loss
// according to a pluggable BackoffPolicy, and exposes everything that happens as
// one ordered stream of items: lifecycle changes and query_executed events.
//
// The transport is an interface so the state machine can be driven by the
// gorilla/websocket client in production and by fakes in tests.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"querydeck/cli/internal/bridge/model"
	apperr "querydeck/cli/internal/errors"
	"querydeck/cli/internal/logging"
)

// Conn is one established live-channel connection.
type Conn interface {
	// ReadMessage blocks until the next data frame arrives or the connection fails.
	ReadMessage() ([]byte, error)
	Close() error
}

// Transport establishes live-channel connections.
type Transport interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Channel owns one logical live channel to the backend.
type Channel struct {
	url       string
	transport Transport
	backoff   BackoffPolicy
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	state  model.ConnectionState
	opened bool

	items chan model.Item
}

// Option configures a Channel.
type Option func(*Channel)

// WithBackoff replaces the default fixed 3000 ms policy.
func WithBackoff(p BackoffPolicy) Option {
	return func(c *Channel) { c.backoff = p }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Channel) { c.logger = l }
}

// WithSleep replaces the timer used between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Channel) { c.sleep = fn }
}

// WithBuffer sets the item stream's buffer size.
func WithBuffer(n int) Option {
	return func(c *Channel) { c.items = make(chan model.Item, n) }
}

// New creates a channel for the given live URL. Nothing is dialled until Open.
func New(url string, transport Transport, opts ...Option) *Channel {
	c := &Channel{
		url:       url,
		transport: transport,
		backoff:   FixedBackoff{Delay: DefaultReconnectDelay},
		logger:    logging.Discard(),
		sleep:     sleepContext,
		state:     model.Disconnected,
		items:     make(chan model.Item, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the live-channel endpoint.
func (c *Channel) URL() string { return c.url }

// Open starts the connection loop. It is idempotent: only the first call dials,
// later calls return without side effects. The loop runs until ctx is done or
// the backoff policy gives up; then the item stream is closed.
func (c *Channel) Open(ctx context.Context) {
	c.mu.Lock()
	if c.opened {
		c.mu.Unlock()
		return
	}
	c.opened = true
	c.mu.Unlock()

	go c.run(ctx)
}

// State returns the current connection state.
func (c *Channel) State() model.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the ordered stream of lifecycle and event items.
// It must be drained by a single consumer.
func (c *Channel) Items() <-chan model.Item { return c.items }

func (c *Channel) setState(s model.ConnectionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Channel) emit(ctx context.Context, it model.Item) bool {
	select {
	case c.items <- it:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Channel) run(ctx context.Context) {
	defer close(c.items)
	defer c.setState(model.Disconnected)

	failures := 0
	for {
		var loss error
		conn, err := c.transport.Dial(ctx, c.url)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			loss = apperr.Wrap(apperr.ChannelLoss, "could not open live channel", err)
		} else {
			failures = 0
			c.setState(model.Connected)
			c.logger.Info("live channel connected", "url", logging.Mask(c.url))
			if !c.emit(ctx, model.Item{Type: model.ItemConnected, State: model.Connected}) {
				conn.Close()
				return
			}
			err = c.consume(ctx, conn)
			if ctx.Err() != nil {
				return
			}
			loss = apperr.Wrap(apperr.ChannelLoss, "live channel lost", err)
		}

		failures++
		delay, ok := c.backoff.Next(failures)
		c.setState(model.Disconnected)
		c.logger.Info("live channel disconnected",
			"reason", logging.DescribeChannelError(err),
			"attempt", failures,
			"retry_in", delay,
			"giving_up", !ok,
		)
		item := model.Item{
			Type:    model.ItemDisconnected,
			State:   model.Disconnected,
			Err:     loss,
			Attempt: failures,
			RetryIn: delay,
			GaveUp:  !ok,
		}
		if !c.emit(ctx, item) || !ok {
			return
		}
		if err := c.sleep(ctx, delay); err != nil {
			return
		}
	}
}

// consume reads frames until the connection fails. Frames are handled one at a
// time, in arrival order; malformed frames and unknown kinds are dropped.
func (c *Channel) consume(ctx context.Context, conn Conn) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()
	defer conn.Close()

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := DecodeFrame(data)
		if err != nil {
			c.logger.Debug("dropping malformed frame", "error", err, "bytes", len(data))
			continue
		}
		if ev.Kind != model.KindQueryExecuted {
			c.logger.Debug("ignoring frame", "kind", string(ev.Kind))
			continue
		}
		if !c.emit(ctx, model.Item{Type: model.ItemEvent, State: model.Connected, Event: ev}) {
			return ctx.Err()
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
