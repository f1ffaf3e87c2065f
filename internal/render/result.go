// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render turns session state into terminal text with pterm. Every
// renderer returns a string so callers can print it, place it in an area, or
// compare it in tests.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"querydeck/cli/internal/query"
	"querydeck/cli/internal/terminal"

	"github.com/pterm/pterm"
)

// NullText is how a missing cell value is displayed.
const NullText = "NULL"

// MaxCellWidth caps a single cell so one long value cannot blow up the table.
const MaxCellWidth = 60

// FormatCell renders one cell value as text.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return string(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// Result renders a query outcome: a table for tabular results, a status line
// for messages and failures, followed by the execution time when present.
func Result(r query.Result) string {
	var b strings.Builder
	switch r.Kind {
	case query.Tabular:
		b.WriteString(Table(r.Columns, r.Rows))
		footer := fmt.Sprintf("%d %s", len(r.Rows), plural(len(r.Rows), "row", "rows"))
		if r.ExecutionTime != "" {
			footer += " in " + r.ExecutionTime
		}
		b.WriteString(pterm.FgGray.Sprint(footer))
		b.WriteString("\n")
		return b.String()
	case query.Message:
		b.WriteString(pterm.Success.Sprintln(r.Text))
	case query.Failure:
		b.WriteString(pterm.Error.Sprintln(r.Text))
	default:
		return ""
	}
	if r.ExecutionTime != "" {
		b.WriteString(pterm.FgGray.Sprint("Execution time: " + r.ExecutionTime))
		b.WriteString("\n")
	}
	return b.String()
}

// Table renders columns and positional rows. Rows shorter than the header are
// padded with empty cells; extra cells are dropped.
func Table(columns []string, rows [][]any) string {
	data := make(pterm.TableData, 0, len(rows)+1)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = terminal.Truncate(c, MaxCellWidth)
	}
	data = append(data, header)
	for _, row := range rows {
		line := make([]string, len(columns))
		for i := range columns {
			if i < len(row) {
				line[i] = terminal.Truncate(FormatCell(row[i]), MaxCellWidth)
			}
		}
		data = append(data, line)
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return strings.Join(header, "\t") + "\n"
	}
	return out + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
