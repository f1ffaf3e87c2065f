// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package wsclient provides the gorilla/websocket implementation of the
// bridge.Transport interface.
package wsclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"querydeck/cli/internal/bridge"

	"github.com/gorilla/websocket"
)

// Transport dials live channels over websocket.
type Transport struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// New returns a transport with a 10-second handshake timeout that honours
// the proxy environment variables.
func New() *Transport {
	return &Transport{
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		Header: http.Header{"User-Agent": []string{"querydeck-cli"}},
	}
}

// Dial opens a websocket connection to url.
func (t *Transport) Dial(ctx context.Context, url string) (bridge.Conn, error) {
	ws, resp, err := t.Dialer.DialContext(ctx, url, t.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, err
	}
	return &Conn{ws: ws}, nil
}

// Conn adapts a websocket connection to bridge.Conn.
type Conn struct {
	ws *websocket.Conn
}

// ReadMessage returns the next text or binary frame.
func (c *Conn) ReadMessage() ([]byte, error) {
	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if mt == websocket.TextMessage || mt == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// Close closes the underlying connection without a close handshake.
func (c *Conn) Close() error {
	return c.ws.Close()
}
