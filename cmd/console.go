// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"querydeck/cli/internal/console"
	"querydeck/cli/internal/logging"

	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive query console",
	Long: `Open the interactive query console.

Type a query in the editor and press Ctrl-R to run it. Selecting a table fills the
editor with a SELECT for it; selecting a recent query loads its text without running it.

Keys: Ctrl-R run, Ctrl-L clear, Tab next pane, Ctrl-Q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The console owns the terminal, so diagnostics go to a file.
		f, path, err := logging.OpenConsoleLog()
		if err != nil {
			return fmt.Errorf("opening console log: %w", err)
		}
		defer f.Close()
		log := logging.New(cfg.LogLevel, f)
		log.Info("console starting", "server", cfg.Server)

		con := console.New()
		sess, _, err := newSession(con, log)
		if err != nil {
			return err
		}
		con.Attach(sess)

		if err := con.Run(cmd.Context()); err != nil {
			return fmt.Errorf("console: %w (log: %s)", err, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
