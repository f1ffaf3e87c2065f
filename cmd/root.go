// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for querydeck.
// It implements the interactive console, one-shot query and catalog commands,
// the live history watcher, the development backend and the MCP server using
// the Cobra CLI framework.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"querydeck/cli/internal/config"
	"querydeck/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagServer   string
	flagLogLevel string
	flagVerbose  bool

	// cfg is the resolved configuration for the running command.
	cfg config.Config
	// logger writes diagnostics to stderr unless a command redirects it.
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "querydeck",
	Short:         "Terminal client for a query console backend",
	Long:          `querydeck sends queries to a query console backend, renders their results, and follows the backend's live channel to keep a short history of queries executed by any client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("server") {
			c.Server = flagServer
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = flagLogLevel
		}
		if flagVerbose {
			c.LogLevel = "debug"
		}
		cfg = c
		logger = logging.New(cfg.LogLevel, os.Stderr)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI application. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("", err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Backend origin, e.g. http://localhost:8080 (overrides config and "+config.EnvServer+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Shorthand for --log-level debug")
}
