// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"querydeck/cli/internal/xdg"

	"github.com/pterm/pterm"
)

// ParseLevel maps a config level name onto a pterm log level.
// Unknown names fall back to info.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New returns a structured logger writing through pterm's slog handler.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	pl := pterm.DefaultLogger.WithLevel(ParseLevel(level)).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(pl))
}

// Discard returns a logger that drops every record. Used by tests and library
// callers that do not care about diagnostics.
func Discard() *slog.Logger {
	return New("off", io.Discard)
}

// OpenConsoleLog opens the log file used while the interactive console owns the
// terminal. The caller closes the returned file.
func OpenConsoleLog() (*os.File, string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, "", err
	}
	p := filepath.Join(dir, "console.log")
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, "", err
	}
	return f, p, nil
}
