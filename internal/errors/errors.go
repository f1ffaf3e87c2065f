// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the console can hit is tagged with a machine-readable Kind so the
// session and the views can decide how to surface it: validation problems and
// backend-reported failures go to the result area, transport failures are turned
// into a Failure outcome, channel loss only changes the status indicator and
// malformed frames are dropped.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates input rejected locally, before any network call.
	Validation Kind = "validation"
	// Transport indicates a network or decoding failure talking to the query endpoint.
	Transport Kind = "transport"
	// BackendReported indicates the query endpoint itself reported a failure.
	BackendReported Kind = "backend_reported"
	// ChannelLoss indicates the live channel dropped or could not be established.
	ChannelLoss Kind = "channel_loss"
	// MalformedFrame indicates an inbound live-channel payload that could not be parsed.
	MalformedFrame Kind = "malformed_frame"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
