// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"fmt"
	"strings"

	"querydeck/cli/internal/history"
	"querydeck/cli/internal/logging"
	"querydeck/cli/internal/session"

	"github.com/pterm/pterm"
)

// NoHistoryText is shown while the ledger is empty.
const NoHistoryText = "No queries executed yet"

// History renders ledger entries most recent first, one bullet per entry.
func History(entries []history.Entry) string {
	if len(entries) == 0 {
		return pterm.FgGray.Sprint(NoHistoryText) + "\n"
	}
	items := make([]pterm.BulletListItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, pterm.BulletListItem{
			Level:  0,
			Text:   fmt.Sprintf("%s %s", pterm.FgGray.Sprint(e.Timestamp), e.Label()),
			Bullet: outcomeMark(e.Success),
		})
	}
	out, err := pterm.DefaultBulletList.WithItems(items).Srender()
	if err != nil {
		var b strings.Builder
		for _, e := range entries {
			b.WriteString(e.Label())
			b.WriteString("\n")
		}
		return b.String()
	}
	return out
}

func outcomeMark(ok bool) string {
	if ok {
		return pterm.FgGreen.Sprint("✓")
	}
	return pterm.FgRed.Sprint("✗")
}

// Status renders the connection indicator.
func Status(s session.Status) string {
	if s.Label() == "Connected" {
		return pterm.FgGreen.Sprint("● Connected")
	}
	line := pterm.FgRed.Sprint("● Disconnected")
	switch {
	case s.GaveUp:
		line += pterm.FgGray.Sprint(" (gave up reconnecting)")
	case s.RetryIn > 0:
		line += pterm.FgGray.Sprintf(" (retrying in %s, attempt %d)", s.RetryIn, s.Attempt)
	}
	if s.Err != nil {
		line += "\n  " + pterm.FgGray.Sprint(logging.DescribeChannelError(s.Err))
	}
	return line
}
