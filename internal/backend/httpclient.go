package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"querydeck/cli/internal/endpoints"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier the backend can log.
const RequestIDHeader = "X-Request-ID"

// HTTP implements API over the backend's REST endpoints.
type HTTP struct {
	// endpoints resolves URLs for the configured origin
	endpoints endpoints.Endpoints
	// client is the underlying HTTP client; queries carry no timeout of their own
	client *http.Client
	// catalogTimeout bounds catalog and health calls
	catalogTimeout time.Duration
	userAgent      string
}

// newHTTP creates a new HTTP client for the given endpoints.
func newHTTP(ep endpoints.Endpoints, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTP{
		endpoints:      ep,
		client:         client,
		catalogTimeout: 10 * time.Second,
		userAgent:      "querydeck-cli",
	}
}

func (h *HTTP) newRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// RunQuery calls POST /api/query. The body is decoded whatever the status code,
// since the backend reports query failures in the payload. Numbers are kept as
// json.Number so cells render exactly as sent.
func (h *HTTP) RunQuery(ctx context.Context, query string) (QueryResponse, error) {
	var out QueryResponse
	req, err := h.newRequest(ctx, http.MethodPost, h.endpoints.Query(), QueryRequest{Query: query})
	if err != nil {
		return out, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return QueryResponse{}, fmt.Errorf("server returned %d with an unreadable body: %w", resp.StatusCode, err)
	}
	return out, nil
}

// ListTables calls GET /api/tables.
func (h *HTTP) ListTables(ctx context.Context) ([]TableInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, h.catalogTimeout)
	defer cancel()

	var tables []TableInfo
	if err := h.getJSON(ctx, h.endpoints.Tables(), &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// DescribeTable calls GET /api/table/{name}.
func (h *HTTP) DescribeTable(ctx context.Context, name string) (TableSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, h.catalogTimeout)
	defer cancel()

	var schema TableSchema
	err := h.getJSON(ctx, h.endpoints.TableSchema(name), &schema)
	return schema, err
}

// Health calls GET /health.
func (h *HTTP) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.catalogTimeout)
	defer cancel()

	var out struct {
		Status string `json:"status"`
	}
	if err := h.getJSON(ctx, h.endpoints.Health(), &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("backend reported status %q", out.Status)
	}
	return nil
}

func (h *HTTP) getJSON(ctx context.Context, url string, v any) error {
	req, err := h.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, v)
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
