// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"net"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
)

// ChannelErrorType represents the category of a live-channel failure.
type ChannelErrorType int

const (
	ChannelErrorUnknown ChannelErrorType = iota
	ChannelErrorClosed
	ChannelErrorRefused
	ChannelErrorHandshake
	ChannelErrorTimeout
	ChannelErrorNetwork
)

// ParseChannelError categorizes why the live channel dropped or failed to open.
func ParseChannelError(err error) ChannelErrorType {
	if err == nil {
		return ChannelErrorUnknown
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ChannelErrorClosed
	}
	if errors.Is(err, websocket.ErrBadHandshake) {
		return ChannelErrorHandshake
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ChannelErrorTimeout
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "connection refused"):
		return ChannelErrorRefused
	case strings.Contains(lower, "bad handshake"):
		return ChannelErrorHandshake
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return ChannelErrorTimeout
	case strings.Contains(lower, "reset") || strings.Contains(lower, "broken pipe") ||
		strings.Contains(lower, "eof") || strings.Contains(lower, "no such host"):
		return ChannelErrorNetwork
	}
	return ChannelErrorUnknown
}

// DescribeChannelError returns a one-line, masked explanation suitable for a status bar.
func DescribeChannelError(err error) string {
	if err == nil {
		return ""
	}
	switch ParseChannelError(err) {
	case ChannelErrorClosed:
		return "server closed the live channel"
	case ChannelErrorRefused:
		return "backend is not accepting connections"
	case ChannelErrorHandshake:
		return "backend rejected the live-channel upgrade"
	case ChannelErrorTimeout:
		return "live channel timed out"
	case ChannelErrorNetwork:
		return "network interrupted"
	}
	return Mask(err.Error())
}

// FormatChannelLoss formats a live-channel failure for the one-shot commands.
func FormatChannelLoss(err error) string {
	var b strings.Builder
	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Live channel unavailable"))
	b.WriteString("\n")
	b.WriteString(DescribeChannelError(err))
	b.WriteString("\n")
	switch ParseChannelError(err) {
	case ChannelErrorRefused, ChannelErrorNetwork:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Is the backend running? Try 'querydeck serve' for a local one"))
	case ChannelErrorHandshake:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check that the server origin points at a querydeck backend"))
	default:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ The client keeps retrying in the background"))
	}
	if err != nil {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(err.Error())))
	}
	return b.String()
}
