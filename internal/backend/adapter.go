// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the
// query console backend. It defines the request/response contract for running a
// query and browsing the table catalog; the live channel lives in internal/bridge.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// RunQuery sends one query and returns the backend's structured outcome.
	// An error means the transport failed; a backend-reported failure comes back
	// as a response with Success=false.
	RunQuery(ctx context.Context, query string) (QueryResponse, error)
	// ListTables returns the table catalog.
	ListTables(ctx context.Context) ([]TableInfo, error)
	// DescribeTable returns column details for one table.
	DescribeTable(ctx context.Context, name string) (TableSchema, error)
	// Health checks that the backend is reachable.
	Health(ctx context.Context) error
}
