// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"os"
	"testing"
)

// Runs only when QUERYDECK_TEST_DSN points at a disposable database.
func TestPostgresEngine(t *testing.T) {
	dsn := os.Getenv("QUERYDECK_TEST_DSN")
	if dsn == "" {
		t.Skip("QUERYDECK_TEST_DSN not set")
	}
	ctx := context.Background()
	e, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	setup := []string{
		"DROP TABLE IF EXISTS querydeck_probe",
		"CREATE TABLE querydeck_probe (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), name text NOT NULL)",
		"INSERT INTO querydeck_probe (name) VALUES ('a'), ('b')",
	}
	for _, q := range setup {
		if res := e.Execute(ctx, q); !res.Success {
			t.Fatalf("Execute(%q) = %s", q, res.Message)
		}
	}
	defer e.Execute(ctx, "DROP TABLE IF EXISTS querydeck_probe")

	res := e.Execute(ctx, "SELECT id, name FROM querydeck_probe ORDER BY name")
	if !res.Success || len(res.Rows) != 2 {
		t.Fatalf("select = %+v", res)
	}
	if id, ok := res.Rows[0][0].(string); !ok || len(id) != 36 {
		t.Errorf("uuid cell = %#v, want a formatted string", res.Rows[0][0])
	}

	schema, err := e.Describe(ctx, "querydeck_probe")
	if err != nil || len(schema.Columns) != 2 || schema.RowCount != 2 {
		t.Errorf("Describe() = %+v, %v", schema, err)
	}
}
