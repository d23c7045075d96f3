package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vytor/quizflash/internal/api"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/metrics"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizsource"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/worker"
	"github.com/vytor/quizflash/web"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	opts := []logger.Option{
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithRotatingFile(cfg.LogFile))
	}
	log := logger.New(opts...)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Quizflash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("data_path=%s", cfg.DataPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("reveal_delay=%v", cfg.RevealDelay())
	log.Debug("cheat_window=%v", cfg.CheatWindow())
	log.Debug("session_ttl=%v", cfg.SessionTTL())
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)
	log.Debug("rate_limit=%d/s burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)

	quizzes, err := quizsource.New().Load(context.Background(), cfg.DataPath)
	if err != nil {
		log.Error("failed to load quizzes: %v", err)
		os.Exit(1)
	}
	log.Info("loaded %d quizzes", len(quizzes))

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.Templates())
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)

	// Initialize repositories and services
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	prefRepo := sqlite.NewPreferenceRepository(database.DB)

	preferenceService := services.NewPreferenceService(prefRepo, cfg.DefaultTheme)
	attemptService := services.NewAttemptService(attemptRepo)
	sessionService := services.NewSessionService(
		quizzes,
		quiz.Settings{RevealDelay: cfg.RevealDelay(), CheatWindow: cfg.CheatWindow()},
		preferenceService,
		jobs.NewWorkerQueue(pool, attemptRepo),
		m,
	)

	srv := &api.Server{
		Sessions:       sessionService,
		Preferences:    preferenceService,
		Attempts:       attemptService,
		Quizzes:        quizzes,
		DB:             database,
		Templates:      tmpl,
		Static:         web.Static(),
		Metrics:        m,
		RateLimitRPS:   float64(cfg.RateLimitRPS),
		RateLimitBurst: cfg.RateLimitBurst,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	go sweepSessions(ctx, pool, sessionService, cfg.SweepInterval(), cfg.SessionTTL())

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain queued attempts before the database closes.
	log.Debug("stopping worker pool")
	pool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Quizflash Server Stopped")
	log.Info("===========================================")
}

// sweepSessions periodically queues a job that evicts idle visitor sessions.
func sweepSessions(ctx context.Context, pool *worker.Pool, sweeper worker.SessionSweeper, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pool.Submit(&worker.SweepSessionsJob{Sweeper: sweeper, Idle: idle}); err != nil {
				logger.Warn("failed to queue session sweep: %v", err)
			}
		}
	}
}
