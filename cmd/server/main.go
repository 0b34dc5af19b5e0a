package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/config"
	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/jobs"
	"github.com/quizdeck/quizdeck/internal/logger"
	"github.com/quizdeck/quizdeck/internal/repository/sqlite"
	"github.com/quizdeck/quizdeck/internal/services"
	"github.com/quizdeck/quizdeck/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("QuizDeck starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("bank_dir=%s", cfg.BankDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	catalogRepo := sqlite.NewCatalogRepository(database.DB)
	historyRepo := sqlite.NewHistoryRepository(database.DB)

	bankService := services.NewBankService(catalogRepo, historyRepo)
	sessionService := services.NewSessionService(catalogRepo, historyRepo, bankService,
		time.Duration(cfg.DefaultSecondsPerItem)*time.Second)
	metricsService := services.NewMetricsService(catalogRepo, historyRepo)
	importService := services.NewImportService(catalogRepo)
	defer sessionService.Close()

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	jobQueue := jobs.NewWorkerQueue(importPool, importService)

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	// Load seed banks before serving traffic starts caring about them.
	paths, err := importService.ScanDir(ctx, cfg.BankDir)
	if err != nil {
		log.Warn("bank directory scan failed: %v", err)
	}
	for _, path := range paths {
		if err := jobQueue.EnqueueBankImport(path); err != nil {
			log.Warn("failed to enqueue bank import for %s: %v", path, err)
		}
	}

	srv := &api.Server{
		SessionService: sessionService,
		MetricsService: metricsService,
		BankService:    bankService,
		ImportService:  importService,
		JobQueue:       jobQueue,
		BankDir:        cfg.BankDir,
	}

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

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	importPool.Stop()
	log.Info("QuizDeck stopped")
}
