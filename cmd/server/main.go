package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"browser-mcp/internal/di"
	"browser-mcp/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := di.LoadConfig(envService)
	addr := envService.GetWithDefault("HTTP_ADDR", ":8787")
	shutdownTimeout := envService.GetDuration("SHUTDOWN_TIMEOUT", di.DefaultShutdownTimeout)

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: container.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("Server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server failed", "error", err)
			container.Close(context.Background())
			os.Exit(1)
		}
	case <-ctx.Done():
		container.Logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// SSE streams never end on their own; close MCP sessions before draining HTTP.
	container.Close(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
}
