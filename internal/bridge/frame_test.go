// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"testing"

	"querydeck/cli/internal/bridge/model"
	apperr "querydeck/cli/internal/errors"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		wantKind  model.EventKind
		wantQuery string
		wantErr   bool
	}{
		{
			name:      "type field",
			frame:     `{"type":"query_executed","query":"SELECT 1","timestamp":"12:00:00","success":true}`,
			wantKind:  model.KindQueryExecuted,
			wantQuery: "SELECT 1",
		},
		{
			name:      "kind wins over type",
			frame:     `{"kind":"query_executed","type":"other","query":"SELECT 2"}`,
			wantKind:  model.KindQueryExecuted,
			wantQuery: "SELECT 2",
		},
		{
			name:     "unknown kind",
			frame:    `{"type":"presence","clients":3}`,
			wantKind: "presence",
		},
		{
			name:     "no kind at all",
			frame:    `{"query":"SELECT 1"}`,
			wantKind: "",
		},
		{name: "not json", frame: `hello`, wantErr: true},
		{name: "array", frame: `[]`, wantErr: true},
		{name: "null", frame: `null`, wantErr: true},
		{name: "numeric kind", frame: `{"kind":7}`, wantErr: true},
		{name: "bad payload", frame: `{"type":"query_executed","success":"yes"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeFrame([]byte(tt.frame))
			if tt.wantErr {
				if !apperr.Is(err, apperr.MalformedFrame) {
					t.Fatalf("DecodeFrame() error = %v, want malformed_frame", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeFrame() unexpected error: %v", err)
			}
			if ev.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", ev.Kind, tt.wantKind)
			}
			if ev.QueryExecuted.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", ev.QueryExecuted.Query, tt.wantQuery)
			}
		})
	}
}
