// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// tokendiffd serves comparisons over HTTP.
//
// Usage:
//
//	tokendiffd [-addr :8080] [-max-body 1048576] [-max-tokens 2000] [-log-format text] [-log-level info]
//
// See [znkr.io/tokendiff/internal/server] for the API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"znkr.io/tokendiff/internal/logging"
	"znkr.io/tokendiff/internal/server"
)

type config struct {
	addr      string
	maxBody   int64
	maxTokens int
	logFormat string
	logLevel  string
}

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	var cfg config
	fs := flag.NewFlagSet("tokendiffd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.addr, "addr", ":8080", "address to listen on")
	fs.Int64Var(&cfg.maxBody, "max-body", server.DefaultConfig.MaxBodyBytes, "maximum request body size in bytes, 0 disables the limit")
	fs.IntVar(&cfg.maxTokens, "max-tokens", server.DefaultConfig.MaxTokens, "maximum number of tokens per comparison, 0 disables the limit; worst case memory per request is about 8·N² bytes (33 MB for 2000)")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "log format, text or json")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "minimum log level, one of debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected command line arguments: %v", fs.Args())
	}
	return &cfg, nil
}

// run serves until ctx is canceled. If ready is not nil, it receives the listening address once
// the server accepts connections.
func run(ctx context.Context, args []string, stderr io.Writer, ready chan<- net.Addr) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.logFormat)
	if err != nil {
		return err
	}
	log, err := logging.New(stderr, format, level)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %v", cfg.addr, err)
	}
	srv := &http.Server{
		Handler: server.New(server.Config{
			MaxBodyBytes: cfg.maxBody,
			MaxTokens:    cfg.maxTokens,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.Info("listening", "addr", ln.Addr().String(), "max_body", cfg.maxBody, "max_tokens", cfg.maxTokens)
	if ready != nil {
		ready <- ln.Addr()
	}

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %v", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %v", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %v", err)
	}
	return nil
}
