// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"querydeck/cli/internal/bridge/wsclient"
	"querydeck/cli/internal/httperrors"
	"querydeck/cli/internal/logging"
	"querydeck/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// probeTimeout bounds each status check.
const probeTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the backend and its live channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, api, err := newAPI()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		interactive := terminal.IsInteractive()
		checking := fmt.Sprintf("Checking %s ...", ep.Origin())
		if interactive {
			fmt.Fprintln(out, checking)
		}

		hctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		healthErr := api.Health(hctx)
		cancel()

		lctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		liveErr := probeLive(lctx, ep.LiveURL())
		cancel()

		if interactive {
			terminal.ClearPreviousLines(out, len(checking), terminal.Width())
		}

		data := pterm.TableData{
			{"check", "target", "result"},
			{"backend", ep.Health(), checkResult(healthErr)},
			{"live channel", ep.LiveURL(), checkResult(liveErr)},
		}
		table, rerr := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
		if rerr != nil {
			return rerr
		}
		fmt.Fprintln(out, table)

		if healthErr != nil {
			return httperrors.FormatNetworkError(healthErr, "checking the backend", cfg.Server)
		}
		if liveErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), logging.FormatChannelLoss(liveErr))
			return fmt.Errorf("live channel unavailable: %w", liveErr)
		}
		return nil
	},
}

// probeLive opens and immediately closes one live-channel connection.
func probeLive(ctx context.Context, url string) error {
	conn, err := wsclient.New().Dial(ctx, url)
	if err != nil {
		return err
	}
	return conn.Close()
}

func checkResult(err error) string {
	if err == nil {
		return pterm.FgGreen.Sprint("ok")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pterm.FgRed.Sprint("timed out")
	}
	return pterm.FgRed.Sprint(terminal.Truncate(logging.Mask(err.Error()), 60))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
