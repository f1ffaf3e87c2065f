// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/endpoints"
	apperr "querydeck/cli/internal/errors"
)

// fakeAPI answers RunQuery from a function and counts calls.
type fakeAPI struct {
	mu    sync.Mutex
	calls int
	run   func(ctx context.Context, q string) (backend.QueryResponse, error)
}

func (f *fakeAPI) RunQuery(ctx context.Context, q string) (backend.QueryResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.run(ctx, q)
}

func (f *fakeAPI) ListTables(context.Context) ([]backend.TableInfo, error) { return nil, nil }

func (f *fakeAPI) DescribeTable(context.Context, string) (backend.TableSchema, error) {
	return backend.TableSchema{}, nil
}

func (f *fakeAPI) Health(context.Context) error { return nil }

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func respond(resp backend.QueryResponse, err error) *fakeAPI {
	return &fakeAPI{run: func(context.Context, string) (backend.QueryResponse, error) { return resp, err }}
}

func TestRunRejectsBlankInput(t *testing.T) {
	api := respond(backend.QueryResponse{Success: true}, nil)
	ex := NewExecutor(api, nil)
	var transitions []bool
	ex.OnLoading(func(b bool) { transitions = append(transitions, b) })

	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := ex.Run(context.Background(), q)
		if !apperr.Is(err, apperr.Validation) {
			t.Errorf("Run(%q) error = %v, want validation", q, err)
		}
		if err == nil || !strings.Contains(err.Error(), EmptyQueryMessage) {
			t.Errorf("Run(%q) error should say %q", q, EmptyQueryMessage)
		}
	}
	if api.Calls() != 0 {
		t.Errorf("backend called %d times for blank input", api.Calls())
	}
	if len(transitions) != 0 {
		t.Errorf("loading toggled for blank input: %v", transitions)
	}
}

func TestRunMapsResponses(t *testing.T) {
	tests := []struct {
		name     string
		resp     backend.QueryResponse
		wantKind Kind
		wantText string
	}{
		{
			name: "tabular",
			resp: backend.QueryResponse{
				Success: true, Message: "2 rows", ExecutionTime: "0.1s",
				Columns: []string{"id", "name"},
				Rows:    [][]any{{1, "John Doe"}, {2, "Jane Smith"}},
			},
			wantKind: Tabular,
			wantText: "2 rows",
		},
		{
			name:     "empty tabular",
			resp:     backend.QueryResponse{Success: true, Columns: []string{"id"}, Rows: [][]any{}},
			wantKind: Tabular,
		},
		{
			name:     "columns without rows",
			resp:     backend.QueryResponse{Success: true, Message: "ok", Columns: []string{"id"}},
			wantKind: Message,
			wantText: "ok",
		},
		{
			name:     "message",
			resp:     backend.QueryResponse{Success: true, Message: "Table created successfully", ExecutionTime: "0.05s"},
			wantKind: Message,
			wantText: "Table created successfully",
		},
		{
			name:     "backend failure",
			resp:     backend.QueryResponse{Success: false, Message: "Unknown query type"},
			wantKind: Failure,
			wantText: "Unknown query type",
		},
		{
			name:     "failure with rows still a failure",
			resp:     backend.QueryResponse{Success: false, Message: "boom", Columns: []string{"a"}, Rows: [][]any{{1}}},
			wantKind: Failure,
			wantText: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewExecutor(respond(tt.resp, nil), nil)
			res, err := ex.Run(context.Background(), "SELECT 1")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", res.Kind, tt.wantKind)
			}
			if res.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", res.Text, tt.wantText)
			}
			if res.ExecutionTime != tt.resp.ExecutionTime {
				t.Errorf("ExecutionTime = %q, want %q", res.ExecutionTime, tt.resp.ExecutionTime)
			}
			if res.Kind == Failure && res.FailureKind != apperr.BackendReported {
				t.Errorf("FailureKind = %q, want backend_reported", res.FailureKind)
			}
		})
	}
}

func TestRunTransportFailure(t *testing.T) {
	ex := NewExecutor(respond(backend.QueryResponse{}, errors.New("dial tcp 127.0.0.1:1: connection refused")), nil)
	var transitions []bool
	ex.OnLoading(func(b bool) { transitions = append(transitions, b) })

	res, err := ex.Run(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("transport failures must not surface as errors, got %v", err)
	}
	if res.Kind != Failure || res.FailureKind != apperr.Transport {
		t.Fatalf("got %+v, want transport failure", res)
	}
	if !strings.HasPrefix(res.Text, "Network error: ") {
		t.Errorf("Text = %q, want Network error prefix", res.Text)
	}
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("loading transitions = %v, want [true false]", transitions)
	}
}

func TestRunNonJSONBodyIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	ep, err := endpoints.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	ex := NewExecutor(backend.New(ep, srv.Client()), nil)
	res, err := ex.Run(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatal(err)
	}
	if res.FailureKind != apperr.Transport {
		t.Errorf("FailureKind = %q, want transport", res.FailureKind)
	}
}

func TestRunAgainstHTTPBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Query executed successfully","execution_time":"0.12s","columns":["id","price"],"rows":[[1,9.50]]}`))
	}))
	defer srv.Close()

	ep, _ := endpoints.Parse(srv.URL)
	ex := NewExecutor(backend.New(ep, srv.Client()), nil)
	res, err := ex.Run(context.Background(), "SELECT * FROM products;")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != Tabular || len(res.Rows) != 1 {
		t.Fatalf("got %+v", res)
	}
	if n, ok := res.Rows[0][1].(json.Number); !ok || n.String() != "9.50" {
		t.Errorf("cell = %#v, want json.Number 9.50", res.Rows[0][1])
	}
}

func TestLoadingStaysTrueUntilLastCallFinishes(t *testing.T) {
	release := map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})}
	started := make(chan struct{}, 2)
	api := &fakeAPI{run: func(ctx context.Context, q string) (backend.QueryResponse, error) {
		started <- struct{}{}
		<-release[q]
		return backend.QueryResponse{Success: true, Message: q}, nil
	}}
	ex := NewExecutor(api, nil)

	var mu sync.Mutex
	var transitions []bool
	ex.OnLoading(func(b bool) {
		mu.Lock()
		transitions = append(transitions, b)
		mu.Unlock()
	})

	results := make(map[string]chan Result)
	for _, q := range []string{"a", "b"} {
		done := make(chan Result, 1)
		results[q] = done
		go func(q string) {
			res, _ := ex.Run(context.Background(), q)
			done <- res
		}(q)
	}
	<-started
	<-started

	close(release["a"])
	resA := <-results["a"]
	if !ex.Loading() {
		t.Fatal("loading cleared while a call was still in flight")
	}
	close(release["b"])
	resB := <-results["b"]

	if ex.Loading() {
		t.Error("loading still set after all calls finished")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("transitions = %v, want [true false]", transitions)
	}
	if resA.Seq == resB.Seq {
		t.Error("each call needs its own sequence number")
	}
}

func TestIsLatest(t *testing.T) {
	ex := NewExecutor(respond(backend.QueryResponse{Success: true}, nil), nil)
	first, _ := ex.Run(context.Background(), "SELECT 1")
	if !ex.IsLatest(first.Seq) {
		t.Error("only call should be latest")
	}
	second, _ := ex.Run(context.Background(), "SELECT 2")
	if ex.IsLatest(first.Seq) {
		t.Error("first call should be superseded")
	}
	if !ex.IsLatest(second.Seq) {
		t.Error("second call should be latest")
	}
}

func TestLoadingObserverEndsOnCurrentValue(t *testing.T) {
	releaseB := make(chan struct{})
	bStarted := make(chan struct{})
	api := &fakeAPI{run: func(ctx context.Context, q string) (backend.QueryResponse, error) {
		if q == "b" {
			close(bStarted)
			<-releaseB
		}
		return backend.QueryResponse{Success: true, Message: q}, nil
	}}
	ex := NewExecutor(api, nil)

	var (
		mu     sync.Mutex
		last   bool
		startB sync.Once
	)
	bResult := make(chan Result, 1)
	ex.OnLoading(func(loading bool) {
		if !loading {
			// A new query starts while the previous false is still being delivered.
			startB.Do(func() {
				go func() {
					res, _ := ex.Run(context.Background(), "b")
					bResult <- res
				}()
				<-bStarted
			})
		}
		mu.Lock()
		last = loading
		mu.Unlock()
	})

	if _, err := ex.Run(context.Background(), "a"); err != nil {
		t.Fatalf("Run(a): %v", err)
	}

	mu.Lock()
	seen := last
	mu.Unlock()
	if !ex.Loading() || !seen {
		t.Fatalf("Loading() = %v, observer last saw %v while b is in flight", ex.Loading(), seen)
	}

	close(releaseB)
	<-bResult
	mu.Lock()
	defer mu.Unlock()
	if last {
		t.Error("observer still sees loading after every call finished")
	}
}
