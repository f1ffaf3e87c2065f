// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"

	"querydeck/cli/internal/endpoints"
)

// New creates a backend API implementation for the given endpoints.
// A nil client uses a default http.Client.
func New(ep endpoints.Endpoints, client *http.Client) *HTTP {
	return newHTTP(ep, client)
}
