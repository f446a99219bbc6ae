package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/logscope/internal/httpserver"
	"github.com/tinytelemetry/logscope/internal/normalize"
	"github.com/tinytelemetry/logscope/internal/patterns"
	"github.com/tinytelemetry/logscope/internal/resolver"
	"github.com/tinytelemetry/logscope/internal/service"
	"github.com/tinytelemetry/logscope/internal/socketrpc"
)

// runServer starts the analysis service with the socket RPC and HTTP surfaces.
func runServer(cfg appConfig) error {
	log, cleanupLogger := configureRuntimeLogger(cfg.LogLevel)
	defer cleanupLogger()

	// Optional user normalization rules layered on the built-in passes.
	var keyFunc patterns.KeyFunc
	if cfg.RulesFile != "" {
		rules, err := normalize.LoadRules(cfg.RulesFile)
		if err != nil {
			return fmt.Errorf("failed to load normalization rules: %w", err)
		}
		keyFunc = normalize.NewNormalizer(rules).Normalize
		log.WithField("rules", len(rules)).Info("loaded extra normalization rules")
	}

	svc := service.New(resolver.New(cfg.LogDir), keyFunc, log)
	log.WithField("log_dir", cfg.LogDir).Info("analysis service ready")

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, svc)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
		log.WithField("addr", cfg.APIAddr).Info("HTTP API listening")
	}

	sockServer := socketrpc.NewServer(cfg.SocketPath, svc, log)
	if err := sockServer.Start(); err != nil {
		log.WithError(err).Warn("failed to start socket server")
	} else {
		defer sockServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now — not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	g, gctx := errgroup.WithContext(ctx)

	// Wait for context cancellation (from signal handler) in the errgroup.
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("server: errgroup exited with error")
	}

	cancel()
	signal.Stop(sigCh)

	return nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// configureRuntimeLogger sends runtime logs to a state-dir file so the
// console stays usable, falling back to stderr when that fails.
func configureRuntimeLogger(level string) (*logrus.Logger, func()) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return log, func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "logscope")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return log, func() {}
	}

	logPath := filepath.Join(logDir, "logscope.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log, func() {}
	}

	log.SetOutput(f)
	return log, func() {
		_ = f.Close()
	}
}
