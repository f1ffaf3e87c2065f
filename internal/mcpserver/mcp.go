// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mcpserver exposes a console session to MCP clients: queries can be
// run, the catalog browsed, and the live history read.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"querydeck/cli/internal/history"
	"querydeck/cli/internal/query"
	"querydeck/cli/internal/session"
)

// Version is reported to MCP clients.
var Version = "dev"

// New creates an MCP server with the querydeck tools and resources registered.
func New(sess *session.Session) *server.MCPServer {
	s := server.NewMCPServer(
		"querydeck",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("querydeck: run queries against the configured query console backend and read its live history."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("run_query",
			mcp.WithDescription("Run one query on the backend and return its result as JSON."),
			mcp.WithString("query", mcp.Description("The query text"), mcp.Required()),
		),
		runQuery(sess),
	)
	s.AddTool(
		mcp.NewTool("list_tables",
			mcp.WithDescription("List tables with their column and row counts."),
		),
		listTables(sess),
	)
	s.AddTool(
		mcp.NewTool("describe_table",
			mcp.WithDescription("Describe the columns of one table."),
			mcp.WithString("name", mcp.Description("Table name"), mcp.Required()),
		),
		describeTable(sess),
	)
	s.AddTool(
		mcp.NewTool("recent_queries",
			mcp.WithDescription("Return the most recent queries executed by any client, newest first."),
		),
		recentQueries(sess),
	)

	s.AddResource(
		mcp.NewResource(
			"querydeck://history",
			"Recent Queries",
			mcp.WithResourceDescription("Last 10 queries reported on the live channel"),
			mcp.WithMIMEType("application/json"),
		),
		historyResource(sess),
	)
	return s
}

type resultPayload struct {
	Outcome       string   `json:"outcome"`
	Message       string   `json:"message,omitempty"`
	ExecutionTime string   `json:"execution_time,omitempty"`
	Columns       []string `json:"columns,omitempty"`
	Rows          [][]any  `json:"rows,omitempty"`
}

type historyPayload struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
}

func runQuery(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}
		res, err := sess.Submit(ctx, q)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		payload := resultPayload{
			Outcome:       res.Kind.String(),
			Message:       res.Text,
			ExecutionTime: res.ExecutionTime,
			Columns:       res.Columns,
			Rows:          res.Rows,
		}
		text, err := marshal(payload)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		if res.Kind == query.Failure {
			return mcpError(text), nil
		}
		return mcpText(text), nil
	}
}

func listTables(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tables, err := sess.LoadTables(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list tables: %v", err)), nil
		}
		text, err := marshal(tables)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(text), nil
	}
}

func describeTable(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}
		schema, err := sess.DescribeTable(ctx, name)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to describe %s: %v", name, err)), nil
		}
		text, err := marshal(schema)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(text), nil
	}
}

func recentQueries(sess *session.Session) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := marshal(historyEntries(sess.Ledger().Entries()))
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(text), nil
	}
}

func historyResource(sess *session.Session) server.ResourceHandlerFunc {
	return func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := marshal(historyEntries(sess.Ledger().Entries()))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal history: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	}
}

func historyEntries(entries []history.Entry) []historyPayload {
	out := make([]historyPayload, len(entries))
	for i, e := range entries {
		out[i] = historyPayload{Query: e.Query, Timestamp: e.Timestamp, Success: e.Success}
	}
	return out
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(b), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
