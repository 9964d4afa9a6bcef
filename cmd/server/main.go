package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/rebux/internal/api"
	"github.com/vytor/rebux/internal/config"
	"github.com/vytor/rebux/internal/db"
	"github.com/vytor/rebux/internal/gemini"
	"github.com/vytor/rebux/internal/jobs"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/metrics"
	"github.com/vytor/rebux/internal/repository"
	"github.com/vytor/rebux/internal/repository/redisstore"
	"github.com/vytor/rebux/internal/repository/sqlite"
	"github.com/vytor/rebux/internal/services"
	"github.com/vytor/rebux/internal/unsplash"
	"github.com/vytor/rebux/internal/worker"
	"github.com/vytor/rebux/internal/youtube"
	"github.com/vytor/rebux/web"
)

const sessionPurgeInterval = time.Hour

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Rebux Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_backend=%s", cfg.SessionBackend)
	log.Debug("gemini_model=%s", cfg.GeminiModel)
	log.Debug("image_request_interval=%v", cfg.ImageRequestInterval)
	log.Debug("generation_worker_count=%d", cfg.GenerationWorkerCount)
	log.Debug("generation_queue_size=%d", cfg.GenerationQueueSize)
	log.Debug("trigger_batch_size=%d", cfg.TriggerBatchSize)
	log.Debug("download_dir=%s", cfg.DownloadDir)
	if cfg.GeminiAPIKey == "" || cfg.UnsplashAPIKey == "" {
		log.Warn("GEMINI_API_KEY or UNSPLASH_API_KEY is empty, level generation will fail")
	}

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store
	var sessionRepo repository.SessionRepository
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		repo, rdb, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessionRepo = repo
		log.Info("sessions stored in redis at %s", cfg.RedisAddr)
	default:
		sessionRepo = sqlite.NewSessionRepository(database.DB)
		log.Info("sessions stored in sqlite")
	}

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.Templates)
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	m := metrics.New()
	puzzleRepo := sqlite.NewPuzzleRepository(database.DB)

	// External clients
	llm, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error("failed to create gemini client: %v", err)
		os.Exit(1)
	}
	images := unsplash.New(cfg.UnsplashAPIKey, cfg.ImageRequestInterval)
	videos := youtube.New(cfg.YtDlpPath, cfg.DownloadDir)

	// Initialize worker pools
	generationPool := worker.NewPool("generation", cfg.GenerationWorkerCount, cfg.GenerationQueueSize)
	maintenancePool := worker.NewPool("maintenance", 1, 4)

	generator := services.NewGeneratorService(puzzleRepo, llm, images, m)
	taskQueue := jobs.NewWorkerQueue(generationPool, maintenancePool, generator, sessionRepo.PurgeExpired)

	srv := &api.Server{
		GameService:  services.NewGameService(puzzleRepo, sessionRepo, taskQueue, m, cfg.SessionTTL(), cfg.TriggerBatchSize),
		VideoService: services.NewVideoService(videos),
		Templates:    tmpl,
		Metrics:      m,
		DB:           database,
		SessionTTL:   cfg.SessionTTL(),

		AdminCredentials: cfg.AdminCredentials(),
	}

	generationPool.Start(ctx)
	maintenancePool.Start(ctx)
	go schedulePurge(ctx, taskQueue)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     srv.Routes(),
		ReadTimeout: 15 * time.Second,
		// downloads stream whole video files
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
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

	// Cancel worker context
	log.Debug("stopping worker pools")
	cancel()
	generationPool.Stop()
	maintenancePool.Stop()

	log.Info("===========================================")
	log.Info("Rebux Server Stopped")
	log.Info("===========================================")
}

// schedulePurge asks the maintenance pool to drop expired sessions every hour.
func schedulePurge(ctx context.Context, q jobs.TaskQueue) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := q.EnqueueSessionPurge(); err != nil {
				logger.Warn("session purge not enqueued: %v", err)
			}
		}
	}
}
