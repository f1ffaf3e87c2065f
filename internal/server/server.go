// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server is the development backend behind `querydeck serve`. It exposes
// the query, catalog and health endpoints plus the /ws live channel, and
// announces every executed query to all live clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/endpoints"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

const maxRequestBodySize = 1 << 20 // 1MB

// QueryExecutedMessage is broadcast on the live channel after every query.
// Both "type" and "kind" carry the event name so older and newer clients agree.
type QueryExecutedMessage struct {
	Type      string `json:"type"`
	Kind      string `json:"kind"`
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
}

// Server wires an Engine and a Hub to HTTP.
type Server struct {
	engine Engine
	hub    *Hub
	logger *slog.Logger
	now    func() time.Time
}

// New creates a server over engine.
func New(engine Engine, logger *slog.Logger) *Server {
	return &Server{
		engine: engine,
		hub:    NewHub(logger),
		logger: logger,
		now:    time.Now,
	}
}

// Hub returns the live-channel hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get(endpoints.PathHealth, s.handleHealth)
	r.Post(endpoints.PathQuery, s.handleQuery)
	r.Get(endpoints.PathTables, s.handleTables)
	r.Get(endpoints.PathTableSchema+"{name}", s.handleTableSchema)
	r.Get(endpoints.PathLive, s.hub.ServeHTTP)
	return r
}

// ListenAndServe serves on addr until ctx is done. The hub and the HTTP
// server share one lifecycle: either failing stops both.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.hub.Run(gctx)
	})
	g.Go(func() error {
		s.logger.Info("backend listening", "addr", ln.Addr().String(), "engine", s.engine.Name())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"engine":  s.engine.Name(),
		"clients": s.hub.Clients(),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var req backend.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	res := s.engine.Execute(r.Context(), req.Query)
	s.logger.Info("query executed",
		"request_id", middleware.GetReqID(r.Context()),
		"success", res.Success,
		"execution_time", res.ExecutionTime,
	)
	s.announce(req.Query, res.Success)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) announce(query string, success bool) {
	msg, err := json.Marshal(QueryExecutedMessage{
		Type:      "query_executed",
		Kind:      "query_executed",
		Query:     query,
		Timestamp: s.now().Format("15:04:05"),
		Success:   success,
	})
	if err != nil {
		s.logger.Error("encoding live message", "error", err)
		return
	}
	s.hub.Broadcast(msg)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.engine.Tables(r.Context())
	if err != nil {
		httpError(w, http.StatusInternalServerError, "listing tables: %v", err)
		return
	}
	if tables == nil {
		tables = []backend.TableInfo{}
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleTableSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	schema, err := s.engine.Describe(r.Context(), name)
	if errors.Is(err, ErrNoSuchTable) {
		httpError(w, http.StatusNotFound, "%v", err)
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "describing table: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}
