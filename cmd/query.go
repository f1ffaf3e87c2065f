// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"querydeck/cli/internal/backend"
	apperr "querydeck/cli/internal/errors"
	"querydeck/cli/internal/httperrors"
	"querydeck/cli/internal/query"
	"querydeck/cli/internal/render"

	"github.com/spf13/cobra"
)

var (
	flagQueryJSON  bool
	flagQueryLocal bool
)

// errQueryFailed is returned when the backend reports a failed query, after the
// failure has already been printed.
var errQueryFailed = errors.New("query failed")

var queryCmd = &cobra.Command{
	Use:   "query <query>",
	Short: "Run one query and print its result",
	Long: `Run one query against the backend and print the result.

The query is taken from the arguments, joined by spaces. Pass "-" to read it from stdin.
With --local the configured development engine runs in-process instead of calling the backend.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := queryText(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		var api backend.API
		if flagQueryLocal {
			local, closeEngine, err := newLocalAPI(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()
			api = local
		} else {
			_, remote, err := newAPI()
			if err != nil {
				return err
			}
			api = remote
		}

		res, err := runOneQuery(cmd.Context(), api, text, cmd.ErrOrStderr())
		if err != nil {
			if apperr.Is(err, apperr.Validation) {
				return errors.New(query.EmptyQueryMessage)
			}
			return err
		}

		if flagQueryJSON {
			if err := writeResultJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
		} else if res.FailureKind != apperr.Transport {
			fmt.Fprint(cmd.OutOrStdout(), render.Result(res))
		}

		switch {
		case res.FailureKind == apperr.Transport:
			return httperrors.FormatNetworkError(errors.Unwrap(res.Err), "running the query", cfg.Server)
		case !res.Succeeded():
			return errQueryFailed
		}
		return nil
	},
}

// queryText joins the arguments into one query, or reads stdin for "-".
func queryText(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading query from stdin: %w", err)
		}
		return string(b), nil
	}
	return strings.Join(args, " "), nil
}

func runOneQuery(ctx context.Context, api backend.API, text string, spinnerOut io.Writer) (query.Result, error) {
	exec := query.NewExecutor(api, logger)
	if !flagQueryJSON {
		exec.OnLoading(loadingSpinner(spinnerOut, "Running query..."))
	}
	return exec.Run(ctx, text)
}

// resultJSON mirrors the query endpoint's response shape.
type resultJSON struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ExecutionTime string   `json:"execution_time,omitempty"`
	Columns       []string `json:"columns,omitempty"`
	Rows          [][]any  `json:"rows,omitempty"`
}

func writeResultJSON(w io.Writer, res query.Result) error {
	out := resultJSON{
		Success:       res.Succeeded(),
		Message:       res.Text,
		ExecutionTime: res.ExecutionTime,
		Columns:       res.Columns,
		Rows:          res.Rows,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	queryCmd.Flags().BoolVar(&flagQueryJSON, "json", false, "Print the result as JSON")
	queryCmd.Flags().BoolVar(&flagQueryLocal, "local", false, "Run against the configured development engine in-process")
	rootCmd.AddCommand(queryCmd)
}
