// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/dsn"
)

// Engine executes queries for the development backend. Execute never returns a
// Go error: failures are reported in the response, as the query endpoint does.
type Engine interface {
	Name() string
	Execute(ctx context.Context, query string) backend.QueryResponse
	Tables(ctx context.Context) ([]backend.TableInfo, error)
	Describe(ctx context.Context, table string) (backend.TableSchema, error)
	Close() error
}

// EngineConfig selects and configures an engine.
type EngineConfig struct {
	// Kind is one of demo, sqlite, postgres.
	Kind       string
	SQLitePath string
	DSN        string
}

// OpenEngine builds the engine named by cfg.Kind. With no kind set, a DSN
// selects its engine by scheme and anything else gets the demo engine.
func OpenEngine(ctx context.Context, cfg EngineConfig) (Engine, error) {
	kind := strings.ToLower(cfg.Kind)
	if kind == "" && cfg.DSN != "" {
		kind = string(dsn.Detect(cfg.DSN))
	}
	switch kind {
	case "", "demo":
		return NewDemoEngine(), nil
	case "sqlite":
		path := cfg.SQLitePath
		if dsn.Detect(cfg.DSN) == dsn.KindSQLite {
			path = dsn.SQLitePath(cfg.DSN)
		}
		return OpenSQLite(ctx, path)
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres engine needs a DSN (set serve.dsn or QUERYDECK_DSN)")
		}
		normalized, err := dsn.NormalizePostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return OpenPostgres(ctx, normalized)
	default:
		return nil, fmt.Errorf("unknown engine %q (want demo, sqlite or postgres)", cfg.Kind)
	}
}

// isReadQuery reports whether q returns rows rather than a row count.
func isReadQuery(q string) bool {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(strings.TrimLeft(fields[0], "(")) {
	case "SELECT", "WITH", "VALUES", "SHOW", "EXPLAIN", "PRAGMA", "TABLE":
		return true
	}
	return false
}

// elapsed formats a duration as the execution-time label.
func elapsed(start time.Time) string {
	d := time.Since(start)
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func failure(start time.Time, err error) backend.QueryResponse {
	return backend.QueryResponse{Success: false, Message: err.Error(), ExecutionTime: elapsed(start)}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalizeValue converts driver values into JSON-friendly ones.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		if len(x) == 16 && !printable(x) {
			return formatUUID([16]byte(x))
		}
		return string(x)
	case [16]byte:
		return formatUUID(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}

func formatUUID(v [16]byte) string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7],
		v[8], v[9], v[10], v[11], v[12], v[13], v[14], v[15])
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// ErrNoSuchTable is returned by Describe for unknown tables.
var ErrNoSuchTable = errors.New("no such table")
