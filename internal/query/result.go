// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package query

import apperr "querydeck/cli/internal/errors"

// Kind classifies a query outcome.
type Kind int

const (
	// Tabular is a successful result carrying columns and rows.
	Tabular Kind = iota + 1
	// Message is a successful result without tabular data.
	Message
	// Failure is a failed execution, reported by the backend or by the transport.
	Failure
)

func (k Kind) String() string {
	switch k {
	case Tabular:
		return "tabular"
	case Message:
		return "message"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one executed query.
type Result struct {
	Kind Kind

	// Tabular only. Rows are rendered positionally against Columns.
	Columns []string
	Rows    [][]any

	// Text is the backend message for Message and Failure results.
	Text string
	// ExecutionTime is an opaque label supplied by the backend, possibly empty.
	ExecutionTime string

	// FailureKind is apperr.BackendReported or apperr.Transport for Failure results.
	FailureKind apperr.Kind
	// Err is the underlying cause for transport failures.
	Err error

	Query string
	Seq   uint64
}

// Succeeded reports whether the query ran successfully.
func (r Result) Succeeded() bool { return r.Kind == Tabular || r.Kind == Message }
