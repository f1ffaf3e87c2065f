// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"

	"querydeck/cli/internal/backend"
)

// LocalAPI answers backend calls from an in-process engine, skipping HTTP.
type LocalAPI struct {
	engine Engine
}

// NewLocalAPI wraps engine as a backend.API.
func NewLocalAPI(engine Engine) *LocalAPI { return &LocalAPI{engine: engine} }

func (l *LocalAPI) RunQuery(ctx context.Context, query string) (backend.QueryResponse, error) {
	return l.engine.Execute(ctx, query), nil
}

func (l *LocalAPI) ListTables(ctx context.Context) ([]backend.TableInfo, error) {
	return l.engine.Tables(ctx)
}

func (l *LocalAPI) DescribeTable(ctx context.Context, name string) (backend.TableSchema, error) {
	return l.engine.Describe(ctx, name)
}

func (l *LocalAPI) Health(context.Context) error { return nil }

var _ backend.API = (*LocalAPI)(nil)
