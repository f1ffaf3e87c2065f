// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"fmt"
	"time"

	"querydeck/cli/internal/backend"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEngine runs queries over a pgx connection pool.
// Read queries return columns and rows; writes run in a transaction and
// report the rows affected.
type PostgresEngine struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresEngine, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresEngine{pool: pool}, nil
}

func (e *PostgresEngine) Name() string { return "postgres" }

func (e *PostgresEngine) Execute(ctx context.Context, query string) backend.QueryResponse {
	start := time.Now()
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return failure(start, err)
	}
	defer conn.Release()

	if !isReadQuery(query) {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return failure(start, err)
		}
		defer tx.Rollback(ctx) // no-op after commit

		ct, err := tx.Exec(ctx, query)
		if err != nil {
			return failure(start, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return failure(start, fmt.Errorf("commit failed: %w", err))
		}
		return backend.QueryResponse{
			Success:       true,
			Message:       fmt.Sprintf("%s (%d rows affected)", ct.String(), ct.RowsAffected()),
			ExecutionTime: elapsed(start),
		}
	}

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return failure(start, err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	out := [][]any{}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
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

const pgTablesQuery = `
	SELECT t.table_name,
	       (SELECT COUNT(*) FROM information_schema.columns c
	         WHERE c.table_schema = t.table_schema AND c.table_name = t.table_name),
	       COALESCE(s.n_live_tup, 0)
	  FROM information_schema.tables t
	  LEFT JOIN pg_stat_user_tables s
	    ON s.schemaname = t.table_schema AND s.relname = t.table_name
	 WHERE t.table_schema = 'public' AND t.table_type = 'BASE TABLE'
	 ORDER BY t.table_name`

// Tables lists tables in the public schema. Row counts are the planner's live
// tuple estimates.
func (e *PostgresEngine) Tables(ctx context.Context) ([]backend.TableInfo, error) {
	rows, err := e.pool.Query(ctx, pgTablesQuery)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (backend.TableInfo, error) {
		var t backend.TableInfo
		var cols, live int64
		err := row.Scan(&t.Name, &cols, &live)
		t.Columns, t.Rows = int(cols), int(live)
		return t, err
	})
}

const pgColumnsQuery = `
	SELECT column_name, data_type, is_nullable = 'YES'
	  FROM information_schema.columns
	 WHERE table_schema = 'public' AND table_name = $1
	 ORDER BY ordinal_position`

// Describe returns a table's columns and exact row count.
func (e *PostgresEngine) Describe(ctx context.Context, table string) (backend.TableSchema, error) {
	rows, err := e.pool.Query(ctx, pgColumnsQuery, table)
	if err != nil {
		return backend.TableSchema{}, err
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (backend.ColumnInfo, error) {
		var c backend.ColumnInfo
		err := row.Scan(&c.Name, &c.Type, &c.Nullable)
		return c, err
	})
	if err != nil {
		return backend.TableSchema{}, err
	}
	if len(cols) == 0 {
		return backend.TableSchema{}, fmt.Errorf("%w: %s", ErrNoSuchTable, table)
	}

	schema := backend.TableSchema{Name: table, Columns: cols}
	var count int64
	if err := e.pool.QueryRow(ctx, "SELECT COUNT(*) FROM public."+quoteIdent(table)).Scan(&count); err != nil {
		return backend.TableSchema{}, err
	}
	schema.RowCount = int(count)
	return schema, nil
}

func (e *PostgresEngine) Close() error {
	e.pool.Close()
	return nil
}
