// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"querydeck/cli/internal/dsn"
	"querydeck/cli/internal/server"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	flagServeAddr       string
	flagServeEngine     string
	flagServeSQLitePath string
	flagServeDSN        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a development backend",
	Long: `Run a development backend exposing the query, catalog and live-channel endpoints.

Engines:
  demo      simulated responses, no database (default)
  sqlite    embedded SQLite, in-memory unless --sqlite-path is set
  postgres  a PostgreSQL database reached through --dsn

Every executed query is announced on the live channel at /ws.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Serve.Addr = flagServeAddr
		}
		if flags.Changed("engine") {
			cfg.Serve.Engine = flagServeEngine
		}
		if flags.Changed("sqlite-path") {
			cfg.Serve.SQLitePath = flagServeSQLitePath
		}
		if flags.Changed("dsn") {
			cfg.Serve.DSN = flagServeDSN
			if !flags.Changed("engine") {
				// Let the DSN scheme pick the engine.
				cfg.Serve.Engine = ""
			}
		}

		engine, err := server.OpenEngine(cmd.Context(), engineConfig())
		if err != nil {
			return fmt.Errorf("opening %s engine: %w", engineLabel(), err)
		}
		defer engine.Close()

		pterm.Info.Printfln("querydeck backend on %s (engine: %s)", cfg.Serve.Addr, engine.Name())
		if target := engineTarget(engine.Name()); target != "" {
			pterm.Info.Printfln("database: %s", target)
		}
		pterm.Info.Println("press Ctrl-C to stop")

		return server.New(engine, logger).ListenAndServe(cmd.Context(), cfg.Serve.Addr)
	},
}

func engineLabel() string {
	if cfg.Serve.Engine == "" {
		return "configured"
	}
	return cfg.Serve.Engine
}

// engineTarget describes what the engine is connected to, without secrets.
func engineTarget(name string) string {
	switch name {
	case "postgres":
		info, err := dsn.ParsePostgres(cfg.Serve.DSN)
		if err != nil {
			return ""
		}
		return info.Redacted()
	case "sqlite":
		if dsn.Detect(cfg.Serve.DSN) == dsn.KindSQLite {
			return dsn.SQLitePath(cfg.Serve.DSN)
		}
		return cfg.Serve.SQLitePath
	}
	return ""
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&flagServeEngine, "engine", "", "Engine: demo, sqlite or postgres")
	serveCmd.Flags().StringVar(&flagServeSQLitePath, "sqlite-path", "", "SQLite database file for the sqlite engine")
	serveCmd.Flags().StringVar(&flagServeDSN, "dsn", "", "Database connection string (postgres://... or sqlite://...)")
	rootCmd.AddCommand(serveCmd)
}
