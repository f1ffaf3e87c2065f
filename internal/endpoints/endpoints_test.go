// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoints

import "testing"

func TestParseAndLiveURL(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		wantBase string
		wantLive string
	}{
		{"insecure origin", "http://localhost:8080", "http://localhost:8080", "ws://localhost:8080/ws"},
		{"secure origin", "https://db.example.com", "https://db.example.com", "wss://db.example.com/ws"},
		{"no scheme", "localhost:8080", "http://localhost:8080", "ws://localhost:8080/ws"},
		{"path ignored", "https://db.example.com/console/index.html?x=1", "https://db.example.com", "wss://db.example.com/ws"},
		{"ws origin", "wss://db.example.com:8443", "https://db.example.com:8443", "wss://db.example.com:8443/ws"},
		{"upper-case scheme", "HTTPS://db.example.com", "https://db.example.com", "wss://db.example.com/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.origin)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.origin, err)
			}
			if got := e.Origin(); got != tt.wantBase {
				t.Errorf("Origin() = %q, want %q", got, tt.wantBase)
			}
			if got := e.LiveURL(); got != tt.wantLive {
				t.Errorf("LiveURL() = %q, want %q", got, tt.wantLive)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, origin := range []string{"", "   ", "ftp://files.example.com", "http://"} {
		if _, err := Parse(origin); err == nil {
			t.Errorf("Parse(%q): expected error", origin)
		}
	}
}

func TestRESTURLs(t *testing.T) {
	e, err := Parse("http://localhost:8080")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Query(); got != "http://localhost:8080/api/query" {
		t.Errorf("Query() = %q", got)
	}
	if got := e.Tables(); got != "http://localhost:8080/api/tables" {
		t.Errorf("Tables() = %q", got)
	}
	if got := e.TableSchema("order items"); got != "http://localhost:8080/api/table/order%20items" {
		t.Errorf("TableSchema() = %q", got)
	}
}
