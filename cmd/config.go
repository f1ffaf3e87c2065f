// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"

	"querydeck/cli/internal/config"
	"querydeck/cli/internal/dsn"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := cfg
		if info, err := dsn.ParsePostgres(shown.Serve.DSN); err == nil {
			shown.Serve.DSN = info.Redacted()
		}
		b, err := json.MarshalIndent(shown, "", "  ")
		if err != nil {
			return err
		}
		if p, err := config.Path(); err == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), pterm.FgGray.Sprint("# "+p))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Change one setting in the config file.

Keys: server, log_level, discard_stale_results, reconnect.strategy, reconnect.delay_ms,
reconnect.max_delay_ms, reconnect.max_attempts, serve.addr, serve.engine,
serve.sqlite_path, serve.dsn.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Start from the file, not the flag- and env-adjusted cfg.
		c, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(c); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		pterm.Success.Printfln("%s updated", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
