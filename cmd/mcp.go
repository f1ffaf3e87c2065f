// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"os"

	"querydeck/cli/internal/mcpserver"
	"querydeck/cli/internal/session"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout.

Tools: run_query, list_tables, describe_table, recent_queries. Recent queries come
from the backend's live channel, followed for as long as the server runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol.
		sess, _, err := newSession(session.NopView{}, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return sess.Run(gctx)
		})
		g.Go(func() error {
			defer cancel()
			stdio := server.NewStdioServer(mcpserver.New(sess))
			return stdio.Listen(gctx, os.Stdin, os.Stdout)
		})
		err = g.Wait()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
