// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the body returned by POST /api/query.
// Columns and Rows are nil when absent from the payload, which is how a
// non-tabular success is told apart from a tabular one.
type QueryResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ExecutionTime string   `json:"execution_time"`
	Columns       []string `json:"columns,omitempty"`
	Rows          [][]any  `json:"rows,omitempty"`
}

// TableInfo is one catalog entry from GET /api/tables.
type TableInfo struct {
	Name    string `json:"name"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

// ColumnInfo describes a single column in a table schema.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema is returned by GET /api/table/{name}.
type TableSchema struct {
	Name     string       `json:"name"`
	Columns  []ColumnInfo `json:"columns"`
	RowCount int          `json:"row_count"`
}
