// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoints derives every backend URL the client talks to from a single
// origin. The live channel sits on the same host as the REST API, with the
// scheme upgraded to its websocket equivalent.
package endpoints

import (
	"fmt"
	"net/url"
	"strings"
)

// REST and live-channel paths served by the backend.
const (
	PathQuery       = "/api/query"
	PathTables      = "/api/tables"
	PathTableSchema = "/api/table/"
	PathHealth      = "/health"
	PathLive        = "/ws"
)

// Endpoints resolves backend URLs for one origin.
type Endpoints struct {
	scheme string // http|https
	host   string
}

// Parse validates an origin such as "https://db.example.com" or "localhost:8080".
// A missing scheme means http; ws/wss origins are mapped back to http/https.
// Any path, query or fragment is ignored.
func Parse(origin string) (Endpoints, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return Endpoints{}, fmt.Errorf("empty server origin")
	}
	if !strings.Contains(origin, "://") {
		origin = "http://" + origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return Endpoints{}, fmt.Errorf("parse server origin: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	case "ws":
		scheme = "http"
	case "wss":
		scheme = "https"
	default:
		return Endpoints{}, fmt.Errorf("unsupported scheme %q in server origin", u.Scheme)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("server origin %q has no host", origin)
	}
	return Endpoints{scheme: scheme, host: u.Host}, nil
}

// Origin returns scheme://host.
func (e Endpoints) Origin() string { return e.scheme + "://" + e.host }

// Host returns the host[:port] part of the origin.
func (e Endpoints) Host() string { return e.host }

// Secure reports whether the origin uses TLS.
func (e Endpoints) Secure() bool { return e.scheme == "https" }

// LiveURL returns the live-channel URL: wss for secure origins, ws otherwise.
func (e Endpoints) LiveURL() string {
	scheme := "ws"
	if e.Secure() {
		scheme = "wss"
	}
	return scheme + "://" + e.host + PathLive
}

func (e Endpoints) Query() string  { return e.Origin() + PathQuery }
func (e Endpoints) Tables() string { return e.Origin() + PathTables }
func (e Endpoints) Health() string { return e.Origin() + PathHealth }

// TableSchema returns the schema URL for one table, path-escaping the name.
func (e Endpoints) TableSchema(name string) string {
	return e.Origin() + PathTableSchema + url.PathEscape(name)
}
