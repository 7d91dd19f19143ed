// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// serve.go - Local emulator server command for sugarai.
//
// Command: sugarai serve
// Short:   Run a local Sugar-AI service emulator
//
// Examples:
//
//	sugarai serve
//	sugarai serve --port 9000 --rate 10 --quota 50
//	sugarai serve --keys devkey1,devkey2
//	sugarai serve --latency 2s --timeout-first 2
//	sugarai serve --down
//
// Flags:
//
//	--host HOST        listen host (default from settings)
//	--port PORT        listen port (default from settings)
//	--rate N           requests per key per minute
//	--quota N          total question quota per key
//	--keys K1,K2       accepted API keys (default: accept any)
//	--latency DUR      delay every answer by DUR (e.g. 500ms, 2s)
//	--timeout-first N  answer the first N asks with 504, then recover
//	--down             answer every ask with 503
//
// The emulator exists so the TUI and CLI can be exercised end to end
// without the real service: point base_url at it and every retry,
// quota, and failure path can be driven locally.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/server"
)

// serveShutdownTimeout bounds connection draining on Ctrl+C.
const serveShutdownTimeout = 5 * time.Second

// HandleServe starts the local emulator and blocks until interrupted.
func HandleServe(args Args) error {
	cfg := config.Global()
	parser := NewArgParser(args.Raw)

	host := parser.FlagOrDefault("host", cfg.Server.Host)
	port := parser.FlagIntOrDefault("port", cfg.Server.Port)
	rate := parser.FlagIntOrDefault("rate", cfg.Server.RatePerMin)
	quota := parser.FlagIntOrDefault("quota", cfg.Server.QuotaTotal)

	server.Version = Version

	srv := server.NewServer(host, port).
		WithRateLimit(rate).
		WithQuota(quota)

	if keys := parser.Flag("keys"); keys != "" {
		var list []string
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				list = append(list, k)
			}
		}
		srv.WithAPIKeys(list)
	}

	faults := &server.FaultConfig{
		ServiceDown:  parser.BoolFlag("down"),
		TimeoutFirst: parser.FlagIntOrDefault("timeout-first", 0),
	}
	if raw := parser.Flag("latency"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return NewValidationErrorWithExample("latency", raw,
				"must be a duration", "500ms, 2s, 1m")
		}
		faults.Latency = d
	}
	if faults.ServiceDown || faults.TimeoutFirst > 0 || faults.Latency > 0 {
		srv.WithFaults(faults)
	}

	if !args.Quiet {
		fmt.Printf("Sugar-AI emulator listening on http://%s\n", srv.Addr())
		fmt.Printf("Point the client at it: sugarai config set base_url http://%s\n", srv.Addr())
		fmt.Println("Press Ctrl+C to stop.")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapError(err, "running server")
		}
		return nil

	case sig := <-sigCh:
		if !args.Quiet {
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
		}
		ctx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return WrapError(err, "shutting down server")
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapError(err, "running server")
		}
		return nil
	}
}
