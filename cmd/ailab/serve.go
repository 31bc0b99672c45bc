package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"ailab/internal/ai"
	"ailab/internal/cache"
	"ailab/internal/config"
	"ailab/internal/handlers"
	"ailab/internal/lab"
	"ailab/internal/middleware"
	"ailab/internal/render"
	"ailab/internal/router"
	"ailab/internal/session"
	"ailab/internal/stats"
)

// AI routes allow this many requests per client per minute.
const aiRequestsPerMinute = 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Valkey for the fragment and speech caches (optional; the
	// site works without it).
	var valkeyClient *redis.Client
	if cfg.UseValkey() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer valkeyClient.Close()
	} else {
		slog.Warn("valkey not configured, caching disabled")
	}

	grids := cache.NewFragmentCache(valkeyClient, cache.DefaultFragmentTTL)
	speech := cache.NewSpeechCache(valkeyClient, cache.DefaultSpeechTTL)

	// Templates may have changed since the fragments were cached.
	grids.InvalidateAll(ctx)

	// Initialize the HTML template renderer. In dev mode, templates load
	// the unminified HTMX build.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, cfg.AIConfigs())
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
		"speech", aiRegistry.SupportsSpeech(),
	)

	// Background workers: live counters, idle session sweeper and rate
	// limiter cleanup. All stop when ctx is cancelled.
	simulator := stats.New(cfg.StatsInterval)
	go simulator.Run(ctx)

	sessionStore := session.NewStore(func() *lab.Session {
		return lab.NewSession(lab.Options{SyncDelay: cfg.SyncDelay})
	}, !cfg.IsDev())
	go sessionStore.Run(ctx, session.DefaultSweepInterval)
	// Deferred so sessions close only after Shutdown has drained requests.
	defer sessionStore.Close()

	aiLimiter := middleware.NewRateLimiter(aiRequestsPerMinute, time.Minute)
	go aiLimiter.Run(ctx, time.Minute)

	// Create handler groups with their dependencies.
	site := handlers.NewSite(renderer, simulator, grids, aiRegistry, cfg.CheckoutURL)
	r := router.New(router.Deps{
		Sessions:      sessionStore,
		Site:          site,
		Admin:         handlers.NewAdmin(site, ai.NewDrafter(aiRegistry), aiRegistry),
		Chat:          handlers.NewChat(renderer, aiRegistry, speech),
		AILimiter:     aiLimiter,
		SecureCookies: !cfg.IsDev(),
	})

	// WriteTimeout must accommodate AI endpoints that wait on LLM
	// responses. The chat stream clears its own deadline.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
