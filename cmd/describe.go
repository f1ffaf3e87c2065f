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

var flagDescribeJSON bool

var describeCmd = &cobra.Command{
	Use:   "describe <table>",
	Short: "Show the columns of one table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, err := newAPI()
		if err != nil {
			return err
		}

		done := loadingSpinner(cmd.ErrOrStderr(), "Loading "+args[0]+"...")
		done(true)
		schema, err := api.DescribeTable(cmd.Context(), args[0])
		done(false)
		if err != nil {
			return httperrors.FormatNetworkError(err, "describing "+args[0], cfg.Server)
		}

		if flagDescribeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Schema(schema))
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&flagDescribeJSON, "json", false, "Print the schema as JSON")
	rootCmd.AddCommand(describeCmd)
}
