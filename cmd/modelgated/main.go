// Command modelgated runs the prompt dispatch HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelgate/modelgate"
	"github.com/modelgate/modelgate/internal/logging"
	"github.com/modelgate/modelgate/internal/requestlog"
	"github.com/modelgate/modelgate/internal/secrets"
	"github.com/modelgate/modelgate/internal/version"
)

func main() {
	log := logging.Logger

	cfg := &modelgate.Config{}
	if cfgPath := os.Getenv("MODELGATE_CONFIG"); cfgPath != "" {
		loaded, err := modelgate.LoadConfig(cfgPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if name := os.Getenv("SECRET_NAME"); name != "" {
		cfg.SecretName = name
	}
	if err := modelgate.ValidateConfig(*cfg); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// One secret-store client per process; it is a connection object
	// only, secret data is re-fetched on every dispatch.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := secrets.NewClient(ctx)
	if err != nil {
		log.Error("failed to create secret store client", "error", err)
		os.Exit(1)
	}
	resolver := secrets.NewResolver(client, cfg.SecretName)

	dispatcher, err := modelgate.NewDispatcher(*cfg, resolver)
	if err != nil {
		log.Error("failed to create dispatcher", "error", err)
		os.Exit(1)
	}

	auditLog, err := newAuditWriter(cfg.RequestLog)
	if err != nil {
		log.Error("failed to open dispatch log", "error", err)
		os.Exit(1)
	}

	r := newRouter(dispatcher, auditLog, cfg.ProviderTimeout())

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
		if c, ok := auditLog.(*requestlog.SQLWriter); ok {
			_ = c.Close()
		}
	}()

	log.Info("modelgated listening",
		"version", version.Short(),
		"addr", addr,
		"secret", cfg.SecretName,
		"live_providers", cfg.Providers.Live,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stop()
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newAuditWriter(cfg modelgate.RequestLogConfig) (requestlog.Writer, error) {
	switch cfg.Driver {
	case "sqlite":
		return requestlog.NewSQLiteWriter(cfg.DSN)
	case "postgres":
		return requestlog.NewPostgresWriter(cfg.DSN)
	}
	return requestlog.NoopWriter{}, nil
}
