package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/Janus/adapters/clubdata"
	"github.com/XavierBriggs/Janus/adapters/identity"
	"github.com/XavierBriggs/Janus/adapters/lineups"
	"github.com/XavierBriggs/Janus/adapters/theoddsapi"
	"github.com/XavierBriggs/Janus/internal/cache"
	"github.com/XavierBriggs/Janus/internal/clubs"
	"github.com/XavierBriggs/Janus/internal/config"
	"github.com/XavierBriggs/Janus/internal/export"
	"github.com/XavierBriggs/Janus/internal/handlers"
	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/internal/odds"
	"github.com/XavierBriggs/Janus/internal/orchestrator"
	"github.com/XavierBriggs/Janus/internal/ratelimit"
	"github.com/XavierBriggs/Janus/internal/registry"
	"github.com/XavierBriggs/Janus/internal/scheduler"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/oddsmath"
	"github.com/XavierBriggs/Janus/sports/soccer"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", os.Getenv("JANUS_CONFIG"), "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration from file and environment
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	m := metrics.New()

	// Initialize Redis connection
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		fmt.Printf("invalid REDIS_URL: %v\n", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Connected to Redis")
	store := cache.NewRedisStore(redisClient)

	// Export sinks
	var sinks export.Multi
	if cfg.Export.FilePath != "" {
		sinks = append(sinks, export.NewFileSink(cfg.Export.FilePath))
		fmt.Printf("✓ Exporting to %s\n", cfg.Export.FilePath)
	}

	var pgSink *export.PostgresSink
	if cfg.Export.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.Export.PostgresDSN)
		if err != nil {
			fmt.Printf("failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			fmt.Printf("failed to ping Postgres: %v\n", err)
			os.Exit(1)
		}

		pgSink = export.NewPostgresSink(db, logger)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			fmt.Printf("failed to create export schema: %v\n", err)
			os.Exit(1)
		}
		pgSink.Start(ctx)
		sinks = append(sinks, pgSink)

		fmt.Println("✓ Connected to Postgres export store")
	}

	var sink contracts.ExportSink
	if len(sinks) > 0 {
		sink = sinks
	}

	// Upstream adapters
	oddsOpts := []theoddsapi.Option{
		theoddsapi.WithRateLimit(cfg.OddsAPI.RateLimit),
		theoddsapi.WithLogger(logger),
		theoddsapi.WithMetrics(m),
	}
	if cfg.OddsAPI.BaseURL != "" {
		oddsOpts = append(oddsOpts, theoddsapi.WithBaseURL(cfg.OddsAPI.BaseURL))
	}
	oddsClient := theoddsapi.NewClient(cfg.OddsAPI.APIKey, oddsOpts...)
	clubClient := clubdata.NewClient(cfg.ClubData.BaseURL, clubdata.WithMetrics(m))
	lineupClient := lineups.NewClient(cfg.Lineups.BaseURL, lineups.WithMetrics(m))

	verifier, err := identity.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		fmt.Printf("failed to create token verifier: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Initialized upstream adapters")

	// Initialize competition registry and register known competitions
	competitions := registry.NewCompetitionRegistry(func(key string) contracts.CompetitionModule {
		return soccer.NewModule(soccer.DefaultConfig(key))
	})
	for _, c := range soccer.Competitions() {
		if err := competitions.Register(soccer.NewModule(c)); err != nil {
			fmt.Printf("failed to register %s: %v\n", c.SportKey, err)
			os.Exit(1)
		}
	}

	fmt.Printf("✓ Registered %d competition(s)\n", competitions.Count())

	fetcher := odds.NewFetcher(oddsClient, store, competitions, logger, m)
	pipeline := odds.NewPipeline(fetcher, sink, logger, m, odds.WithMethod(oddsmath.Method(cfg.OddsAPI.DevigMethod)))

	orch := orchestrator.New(orchestrator.Config{
		Directory: clubs.NewDirectory(clubClient, store, logger, m),
		Pipeline:  pipeline,
		Lineups:   lineupClient,
		Cache:     store,
		Sink:      sink,
		Logger:    logger,
		Metrics:   m,
	})

	// Optional cache warmer
	var warmer *scheduler.Scheduler
	if cfg.Warmer.Enabled {
		warmer = scheduler.NewScheduler(fetcher, competitions, logger,
			scheduler.WithCompetitions(cfg.Warmer.Competitions...),
			scheduler.WithJitter(30))
		if err := warmer.Start(ctx); err != nil {
			fmt.Printf("failed to start cache warmer: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Cache warmer started")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Service:        orch,
		Identity:       verifier,
		Limiter:        ratelimit.NewLimiter(store, cfg.RateLimit.Quota, cfg.RateLimit.Window),
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Janus listening on :%s\n", cfg.Server.Port)
		fmt.Printf("  Rate limit: %d per %v\n", cfg.RateLimit.Quota, cfg.RateLimit.Window)
		fmt.Printf("  Devig method: %s\n", cfg.OddsAPI.DevigMethod)
		fmt.Println()
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		fmt.Printf("\n✓ Received %v, shutting down gracefully...\n", sig)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
		server.Close()
	}

	if warmer != nil {
		warmer.Stop()
	}
	if pgSink != nil {
		pgSink.Stop()
	}

	select {
	case <-shutdownCtx.Done():
		fmt.Println("✗ Shutdown timeout exceeded")
		os.Exit(1)
	default:
		fmt.Println("✓ Janus stopped")
	}
}
