package main

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

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/config"
	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/metrics"
	"github.com/kailas-cloud/homesearch/internal/session"
	chiTransport "github.com/kailas-cloud/homesearch/internal/transport/chi"
	searchuc "github.com/kailas-cloud/homesearch/internal/usecase/search"
	"github.com/kailas-cloud/homesearch/internal/version"
)

// localUser is the member every request runs as when no tokens are configured.
var localUser = domain.User{ID: "local", DisplayName: "Local User"}

func main() {
	if err := newCLIApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve runs the HTTP API until SIGINT or SIGTERM, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting homesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("Connected to database")

	// Register engine metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	tokens := cfg.Auth.Users()
	var sess searchuc.SessionProvider = session.Context{}
	if len(tokens) == 0 {
		logger.Warn("No auth tokens configured, every request runs as the local user",
			zap.String("user_id", localUser.ID))
		sess = session.Static{User: localUser}
	}

	e, err := newEngine(store, cfg, sess, metrics.Default, logger)
	if err != nil {
		store.Close()
		return err
	}
	defer e.Close()

	server := chiTransport.NewServer(e.search, e.health, sess, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(tokens),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// parseList splits a comma-separated flag value, dropping blanks.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseKinds validates a comma-separated list of record kinds.
func parseKinds(s string) ([]record.Kind, error) {
	names := parseList(s)
	if len(names) == 0 {
		return nil, nil
	}
	kinds := make([]record.Kind, 0, len(names))
	for _, n := range names {
		k, err := record.ParseKind(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
