// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"

	"querydeck/cli/internal/httperrors"
	"querydeck/cli/internal/render"

	"github.com/spf13/cobra"
)

var flagTablesJSON bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the backend's tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, err := newAPI()
		if err != nil {
			return err
		}

		done := loadingSpinner(cmd.ErrOrStderr(), "Loading tables...")
		done(true)
		tables, err := api.ListTables(cmd.Context())
		done(false)
		if err != nil {
			return httperrors.FormatNetworkError(err, "listing tables", cfg.Server)
		}

		if flagTablesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tables)
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Tables(tables))
		return nil
	},
}

func init() {
	tablesCmd.Flags().BoolVar(&flagTablesJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(tablesCmd)
}
