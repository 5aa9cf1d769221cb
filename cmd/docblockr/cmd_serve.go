// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AleutianAI/docblockr/services/docblock"
	"github.com/AleutianAI/docblockr/services/docblock/config"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr        string
	traceStdout bool
	watch       bool
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the docblock HTTP API",
		Long: `Serve exposes generate, batch and outline over HTTP under /v1/docblock,
with Prometheus metrics on /metrics. Logs are JSON on stderr.`,
		Example: `  docblockr serve
  docblockr serve --addr 127.0.0.1:9000 --watch --trace-stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "Listen address (default: server.addr from settings)")
	f.BoolVar(&opts.traceStdout, "trace-stdout", false, "Export trace spans to stderr")
	f.BoolVar(&opts.watch, "watch", false, "Reload settings when a settings file changes")

	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := global.loader()
	settings, err := global.loadSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: settings.Log.SlogLevel(),
	})))
	if settings.Log.SlogLevel() <= slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext so spans join the caller's trace.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.traceStdout {
		shutdown, err := setupStdoutTracing(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("Failed to flush traces", slog.String("error", err.Error()))
			}
		}()
	}

	svc, err := docblock.NewService(docblock.ServiceConfig{Settings: settings})
	if err != nil {
		return err
	}

	if opts.watch {
		go watchSettings(ctx, loader, svc, global.logLevel)
	}

	addr := settings.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           docblock.NewRouter(docblock.NewHandlers(svc), settings.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting docblockr server",
			slog.String("address", addr),
			slog.String("version", docblock.Version),
			slog.String("formatter", settings.Formatter))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("Shutting down docblockr server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// setupStdoutTracing installs a tracer provider that pretty-prints spans
// to w and returns its shutdown function.
func setupStdoutTracing(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// watchSettings pushes reloaded settings into svc until ctx is done. An
// explicit --log-level keeps winning over the files.
func watchSettings(ctx context.Context, loader *config.Loader, svc *docblock.Service, logLevel string) {
	err := config.Watch(ctx, loader, func(next *config.Settings) {
		if logLevel != "" {
			next.Log.Level = logLevel
		}
		if err := svc.UpdateSettings(next); err != nil {
			slog.Warn("Ignoring reloaded settings", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		slog.Error("Settings watch stopped", slog.String("error", err.Error()))
	}
}
