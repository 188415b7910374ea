package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tinymeal/internal/accounts"
	"tinymeal/internal/ai"
	"tinymeal/internal/auth"
	"tinymeal/internal/cache"
	"tinymeal/internal/config"
	"tinymeal/internal/invites"
	"tinymeal/internal/recipes"
	"tinymeal/internal/sharing"
	"tinymeal/internal/shopping"
)

func runServer(cfg *config.Config, addr string) error {
	store, err := cache.MakeCache()
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	aiClient, err := ai.NewFromConfig(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	accountStorage := accounts.NewStorage(store)
	authClient := auth.New(cfg, accountStorage)

	shoppingStore := shopping.NewStore(store)
	consolidator := shopping.NewConsolidator(shoppingStore, aiClient)

	recipeStorage := recipes.NewStorage(store)
	generator := recipes.NewGenerator(aiClient, recipeStorage, accountStorage)

	shareService := sharing.NewService(store, cfg.Share.BaseURL)
	inviteMailer := invites.NewMailer(cfg)

	mux := http.NewServeMux()
	authClient.Register(mux)
	accounts.NewHandler(accountStorage, authClient).Register(mux)
	shopping.NewHandler(shoppingStore, consolidator, authClient).Register(mux)
	recipes.NewHandler(generator, recipeStorage, authClient).Register(mux)
	sharing.NewHandler(shareService, authClient, accountStorage, recipeStorage, consolidator).Register(mux)
	invites.NewHandler(inviteMailer, authClient).Register(mux)

	ro := &readyOnce{}
	ro.Add(cacheProbe(store))
	mux.Handle("GET /ready", ro)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: WithMiddleware(mux),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Serving Tiny Meal Planner", "address", addr, "ai_provider", cfg.AI.Provider)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)
		return gracefulShutdown(server, generator.Wait)
	}
}

// cacheProbe round trips a document so readiness reflects storage access,
// not just process liveness.
func cacheProbe(store cache.Cache) func(context.Context) error {
	return func(ctx context.Context) error {
		key := "ready/probe"
		if err := store.Put(ctx, key, time.Now().Format(time.RFC3339), cache.Unconditional()); err != nil {
			return fmt.Errorf("cache write: %w", err)
		}
		reader, err := store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("cache read: %w", err)
		}
		return reader.Close()
	}
}

func gracefulShutdown(svr *http.Server, generatorWait func()) error {
	// Outstanding requests get 25 seconds (kubernetes grants 30).
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("Server close error", "error", closeErr)
		}
		return err
	}

	done := make(chan struct{})
	go func() {
		generatorWait()
		close(done)
	}()

	slog.Info("Waiting for provenance worker to drain")
	select {
	case <-done:
		slog.Info("Provenance worker drained")
	case <-ctx.Done():
		slog.Warn("Timeout waiting for provenance worker")
		return ctx.Err()
	}
	return nil
}
