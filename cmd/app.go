// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"querydeck/cli/internal/backend"
	"querydeck/cli/internal/bridge"
	"querydeck/cli/internal/bridge/wsclient"
	"querydeck/cli/internal/endpoints"
	"querydeck/cli/internal/server"
	"querydeck/cli/internal/session"
)

// resolveEndpoints parses the configured backend origin.
func resolveEndpoints() (endpoints.Endpoints, error) {
	ep, err := endpoints.Parse(cfg.Server)
	if err != nil {
		return endpoints.Endpoints{}, fmt.Errorf("invalid server %q: %w", cfg.Server, err)
	}
	return ep, nil
}

// newAPI returns the REST client for the configured backend. Queries run until
// they finish or the command's context is cancelled.
func newAPI() (endpoints.Endpoints, backend.API, error) {
	ep, err := resolveEndpoints()
	if err != nil {
		return ep, nil, err
	}
	return ep, backend.New(ep, nil), nil
}

// newLocalAPI opens the configured development engine in-process, so a
// command can run without a backend listening anywhere.
func newLocalAPI(ctx context.Context) (backend.API, func() error, error) {
	engine, err := server.OpenEngine(ctx, engineConfig())
	if err != nil {
		return nil, nil, err
	}
	return server.NewLocalAPI(engine), engine.Close, nil
}

func engineConfig() server.EngineConfig {
	return server.EngineConfig{
		Kind:       cfg.Serve.Engine,
		SQLitePath: cfg.Serve.SQLitePath,
		DSN:        cfg.Serve.DSN,
	}
}

// newChannel builds the live channel for ep using the configured reconnect policy.
func newChannel(ep endpoints.Endpoints, log *slog.Logger) *bridge.Channel {
	policy := bridge.NewBackoff(
		cfg.Reconnect.Strategy,
		cfg.Reconnect.Delay(),
		cfg.Reconnect.MaxDelay(),
		cfg.Reconnect.MaxAttempts,
	)
	return bridge.New(ep.LiveURL(), wsclient.New(),
		bridge.WithBackoff(policy),
		bridge.WithLogger(log),
	)
}

// newSession wires the live channel and REST client for the configured backend
// into a session presenting through view.
func newSession(view session.View, log *slog.Logger) (*session.Session, *bridge.Channel, error) {
	ep, api, err := newAPI()
	if err != nil {
		return nil, nil, err
	}
	ch := newChannel(ep, log)
	sess := session.New(ch, api, view,
		session.WithLogger(log),
		session.WithDiscardStale(cfg.DiscardStaleResults),
	)
	return sess, ch, nil
}
