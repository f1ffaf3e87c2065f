// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for backend requests.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Category is the diagnosed cause of a network failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	Refused
	TLS
	Server
)

// Classify detects the most likely cause of a network failure.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Generic
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return Refused
	case isSSLError(err):
		return TLS
	case isServerError(err.Error()):
		return Server
	default:
		return Generic
	}
}

// FormatNetworkError converts technical network errors into a troubleshooting
// message for the given backend and prints it. The returned error wraps err.
func FormatNetworkError(err error, context, server string) error {
	if err == nil {
		return nil
	}

	displayErrorMessage(err, context, ExtractHostFromURL(server))

	return fmt.Errorf("network error: %w", err)
}

func displayErrorMessage(err error, context, host string) {
	switch Classify(err) {
	case Timeout:
		showTimeoutError(context, host)
	case DNS:
		showDNSError(context, host)
	case Refused:
		showConnectionRefusedError(context, host)
	case TLS:
		showSSLError(context)
	case Server:
		showServerError(context, host)
	default:
		showGenericError(context, host, err.Error())
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "returned 500") ||
		strings.Contains(lower, "returned 502") ||
		strings.Contains(lower, "returned 503") ||
		strings.Contains(lower, "returned 504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable")
}

func showTimeoutError(context, host string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Printf("%s took too long to respond. This could mean:\n", host)
	pterm.Println("  • The query is still running on a busy database")
	pterm.Println("  • A firewall is silently dropping the connection")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Check the server setting:\n", host)
	pterm.Println("  • querydeck config show")
	pterm.Println("  • querydeck config set server http://<host>:<port>")
	pterm.Println()
}

func showConnectionRefusedError(context, host string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Printf("Nothing is listening on %s. This could mean:\n", host)
	pterm.Println("  • The backend is not running (try: querydeck serve)")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish a secure connection. Try:")
	pterm.Println("  • Check your system date and time")
	pterm.Println("  • Use http:// for a local backend without TLS")
	pterm.Println()
}

func showServerError(context, host string) {
	pterm.Printf("⚠️  Server error while %s\n", context)
	pterm.Println()
	pterm.Printf("The backend at %s reported an internal error.\n", host)
	pterm.Println("Check the backend logs for details.")
	pterm.Println()
}

func showGenericError(context, host, errDetails string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, context)
	pterm.Println()

	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
