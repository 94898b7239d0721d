//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Command flowmodel serves the flow model operations of a project over
// HTTP or MCP, or runs a single operation.
//
//	flowmodel serve [-config file] [-project dir]
//	flowmodel mcp   [-config file] [-project dir]
//	flowmodel exec  [-config file] [-project dir] -op name [-request json]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trpc.group/trpc-go/trpc-flowmodel-go/config"
	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/server"
	fmcp "trpc.group/trpc-go/trpc-flowmodel-go/server/mcp"
	"trpc.group/trpc-go/trpc-flowmodel-go/service"
	"trpc.group/trpc-go/trpc-flowmodel-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-flowmodel-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// version is set at build time.
var version = "dev"

const shutdownTimeout = 5 * time.Second

var errUsage = errors.New("usage: flowmodel serve|mcp|exec [flags]")

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type cliFlags struct {
	Config  string
	Project string
	Op      string
	Request string
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	if cmd == "version" {
		_, err := fmt.Fprintln(stdout, version)
		return err
	}

	var flags cliFlags
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&flags.Config, "config", "flowmodel.yaml", "path to the configuration file")
	fs.StringVar(&flags.Project, "project", "", "project root, overrides the configuration")
	if cmd == "exec" {
		fs.StringVar(&flags.Op, "op", "", "operation name")
		fs.StringVar(&flags.Request, "request", "", "JSON request, read from stdin when empty")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}
	if flags.Project != "" {
		cfg.Project = flags.Project
	}
	if cmd == "mcp" {
		// stdout carries the protocol.
		log.SetOutput(os.Stderr)
	}
	log.SetLevel(cfg.Log.Level)

	switch cmd {
	case "serve", "mcp", "exec":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	cleanup, err := startTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer cleanup()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	switch cmd {
	case "serve":
		return serve(ctx, svc, cfg.Server)
	case "mcp":
		return fmcp.New(svc, "flowmodel", version).Start()
	default:
		return execute(ctx, svc, flags, stdin, stdout)
	}
}

func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	project, err := workspace.Load(ctx, cfg.Project)
	if err != nil {
		return nil, err
	}
	log.Infof("project %s loaded from %s", project.Module(), cfg.Project)
	return service.New(project, service.WithCatalog(cfg.Catalog)), nil
}

func startTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}
	cleanTrace, err := trace.Start(ctx, trace.WithEndpoint(cfg.Endpoint), trace.WithProtocol(cfg.Protocol))
	if err != nil {
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	mp, err := metric.NewMeterProvider(ctx, metric.WithEndpoint(cfg.Endpoint), metric.WithProtocol(cfg.Protocol))
	if err != nil {
		_ = cleanTrace()
		return nil, fmt.Errorf("start metrics: %w", err)
	}
	if err := metric.InitMeterProvider(mp); err != nil {
		_ = cleanTrace()
		return nil, err
	}
	return func() {
		if err := cleanTrace(); err != nil {
			log.Warnf("shutdown tracer provider: %v", err)
		}
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Warnf("shutdown meter provider: %v", err)
		}
	}, nil
}

func serve(ctx context.Context, svc *service.Service, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(svc, server.WithAllowedOrigins(cfg.AllowedOrigins...)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func execute(ctx context.Context, svc *service.Service, flags cliFlags, stdin io.Reader, stdout io.Writer) error {
	if flags.Op == "" {
		return fmt.Errorf("%w: -op is required", errUsage)
	}
	payload := []byte(flags.Request)
	if len(payload) == 0 && stdin != nil {
		var err error
		if payload, err = io.ReadAll(stdin); err != nil {
			return fmt.Errorf("read request: %w", err)
		}
	}
	out, err := svc.Execute(ctx, flags.Op, payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}
