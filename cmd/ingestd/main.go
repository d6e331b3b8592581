package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"content_ingest/internal/config"
	"content_ingest/internal/fetcher"
	"content_ingest/internal/pipeline"
	"content_ingest/internal/prober"
	"content_ingest/internal/registry"
	"content_ingest/internal/scheduler"
	"content_ingest/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Draft pipeline queue
	draftQueue, err := pipeline.NewRabbitMQ(pipeline.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer draftQueue.Close()

	// Stores
	sourceStore := postgres.NewSourceStore(db)
	contentStore := postgres.NewContentStore(db)
	txManager := postgres.NewTransactionManager(db)

	// Health prober
	healthProber := prober.New(prober.Config{
		Timeout:          cfg.Probe.Timeout,
		SocialProfileURL: cfg.Probe.SocialProfileURL,
		UserAgent:        cfg.Probe.UserAgent,
	}, logger)

	// Source registry
	sources := registry.NewService(sourceStore, healthProber, logger)

	// Content fetchers, one per source type
	fetchCfg := fetcher.Config{
		Timeout:          cfg.Fetch.Timeout,
		MaxItems:         cfg.Fetch.MaxItems,
		MaxPages:         cfg.Fetch.MaxPages,
		SocialAPIBaseURL: cfg.Fetch.SocialAPIBaseURL,
		UserAgent:        cfg.Fetch.UserAgent,
		MaxAttempts:      cfg.Fetch.Retry.MaxAttempts,
		InitialBackoff:   cfg.Fetch.Retry.InitialBackoff,
		MaxBackoff:       cfg.Fetch.Retry.MaxBackoff,
	}
	fetchers := fetcher.NewDispatcher(
		fetcher.NewRSS(fetchCfg, logger),
		fetcher.NewSocial(fetchCfg, logger),
	)

	sched := scheduler.New(
		sources,
		healthProber,
		fetchers,
		contentStore,
		draftQueue,
		txManager,
		logger,
		cfg.Scheduler,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics listener started", "addr", cfg.Metrics.Addr)
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	logger.Info("starting content ingest scheduler",
		"tick_interval", cfg.Scheduler.TickInterval,
		"fetch_interval", cfg.Scheduler.FetchInterval,
		"probe_interval", cfg.Scheduler.ProbeInterval,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
