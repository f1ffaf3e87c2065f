// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"strconv"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/session"

	"github.com/pterm/pterm"
)

// NoTablesText is shown for an empty catalog.
const NoTablesText = "No tables found"

// Tables renders the table catalog.
func Tables(tables []backend.TableInfo) string {
	if len(tables) == 0 {
		return pterm.FgGray.Sprint(NoTablesText) + "\n"
	}
	rows := make([][]any, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, []any{t.Name, strconv.Itoa(t.Columns), strconv.Itoa(t.Rows)})
	}
	return Table([]string{"table", "columns", "rows"}, rows)
}

// Schema renders one table's column list.
func Schema(schema backend.TableSchema) string {
	return Result(session.SchemaResult(schema))
}
