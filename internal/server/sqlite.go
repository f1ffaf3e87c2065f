// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"querydeck/cli/internal/backend"

	_ "modernc.org/sqlite"
)

// SQLiteEngine runs queries against a SQLite database.
type SQLiteEngine struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. Pass ":memory:" for an
// in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteEngine, error) {
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection, so an in-memory database is shared and writers never race.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	return &SQLiteEngine{db: db}, nil
}

func (e *SQLiteEngine) Name() string { return "sqlite" }

// Execute runs one statement. Row-returning statements produce columns and
// rows; anything else reports the number of rows affected.
func (e *SQLiteEngine) Execute(ctx context.Context, query string) backend.QueryResponse {
	start := time.Now()
	if !isReadQuery(query) {
		res, err := e.db.ExecContext(ctx, query)
		if err != nil {
			return failure(start, err)
		}
		n, _ := res.RowsAffected()
		return backend.QueryResponse{
			Success:       true,
			Message:       fmt.Sprintf("%d rows affected", n),
			ExecutionTime: elapsed(start),
		}
	}

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return failure(start, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return failure(start, err)
	}
	out := [][]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return failure(start, err)
		}
		for i, v := range vals {
			vals[i] = normalizeValue(v)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return failure(start, err)
	}
	return backend.QueryResponse{
		Success:       true,
		Message:       fmt.Sprintf("%d rows returned", len(out)),
		ExecutionTime: elapsed(start),
		Columns:       cols,
		Rows:          out,
	}
}

// Tables lists user tables with their column and row counts.
func (e *SQLiteEngine) Tables(ctx context.Context) ([]backend.TableInfo, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tables := make([]backend.TableInfo, 0, len(names))
	for _, name := range names {
		schema, err := e.Describe(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, backend.TableInfo{Name: name, Columns: len(schema.Columns), Rows: schema.RowCount})
	}
	return tables, nil
}

// Describe returns a table's columns from PRAGMA table_info.
func (e *SQLiteEngine) Describe(ctx context.Context, table string) (backend.TableSchema, error) {
	rows, err := e.db.QueryContext(ctx, "SELECT name, type, \"notnull\" FROM pragma_table_info(?)", table)
	if err != nil {
		return backend.TableSchema{}, err
	}
	schema := backend.TableSchema{Name: table}
	for rows.Next() {
		var c backend.ColumnInfo
		var notNull int
		if err := rows.Scan(&c.Name, &c.Type, &notNull); err != nil {
			rows.Close()
			return backend.TableSchema{}, err
		}
		c.Nullable = notNull == 0
		schema.Columns = append(schema.Columns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return backend.TableSchema{}, err
	}
	if len(schema.Columns) == 0 {
		return backend.TableSchema{}, fmt.Errorf("%w: %s", ErrNoSuchTable, table)
	}

	if err := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&schema.RowCount); err != nil {
		return backend.TableSchema{}, err
	}
	return schema, nil
}

func (e *SQLiteEngine) Close() error { return e.db.Close() }
