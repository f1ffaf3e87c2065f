// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"strings"

	"querydeck/cli/internal/backend"
)

// DemoEngine simulates a database by recognising statement prefixes. It keeps no
// state and always returns the same canned data.
type DemoEngine struct{}

// NewDemoEngine returns the simulated engine.
func NewDemoEngine() *DemoEngine { return &DemoEngine{} }

func (*DemoEngine) Name() string { return "demo" }

func (*DemoEngine) Execute(_ context.Context, query string) backend.QueryResponse {
	q := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(q, "CREATE TABLE"):
		return backend.QueryResponse{Success: true, Message: "Table created successfully", ExecutionTime: "2ms"}
	case strings.HasPrefix(q, "INSERT INTO"):
		return backend.QueryResponse{Success: true, Message: "1 row inserted", ExecutionTime: "1ms"}
	case strings.HasPrefix(q, "SELECT"):
		return backend.QueryResponse{
			Success:       true,
			Message:       "Query executed successfully",
			ExecutionTime: "3ms",
			Columns:       []string{"id", "name", "age"},
			Rows: [][]any{
				{1, "John Doe", 25},
				{2, "Jane Smith", 30},
				{3, "Bob Johnson", 35},
			},
		}
	case strings.HasPrefix(q, "DROP TABLE"):
		return backend.QueryResponse{Success: true, Message: "Table dropped successfully", ExecutionTime: "1ms"}
	default:
		return backend.QueryResponse{Success: false, Message: "Unknown query type", ExecutionTime: "0ms"}
	}
}

func (*DemoEngine) Tables(context.Context) ([]backend.TableInfo, error) {
	return []backend.TableInfo{
		{Name: "users", Columns: 3, Rows: 150},
		{Name: "orders", Columns: 5, Rows: 1200},
		{Name: "products", Columns: 4, Rows: 45},
	}, nil
}

func (*DemoEngine) Describe(_ context.Context, table string) (backend.TableSchema, error) {
	return backend.TableSchema{
		Name: table,
		Columns: []backend.ColumnInfo{
			{Name: "id", Type: "INTEGER", Nullable: false},
			{Name: "name", Type: "VARCHAR", Nullable: false},
			{Name: "email", Type: "VARCHAR", Nullable: true},
			{Name: "created_at", Type: "TIMESTAMP", Nullable: false},
		},
		RowCount: 150,
	}, nil
}

func (*DemoEngine) Close() error { return nil }
