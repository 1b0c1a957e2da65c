package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/YouYou-1402/ai-meeting-transcriber/pkg/validator"

	_ "github.com/YouYou-1402/ai-meeting-transcriber/docs"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/adapter/handler"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/adapter/repository"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/cache"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/database"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/media"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/storage"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/watcher"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/export"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/meeting"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/pipeline"
	pkgai "github.com/YouYou-1402/ai-meeting-transcriber/pkg/ai"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/executor"
)

// @title           AI Meeting Transcriber API
// @version         1.0
// @description     Upload meeting recordings, transcribe them, generate structured minutes and export Word documents.

// @contact.name   API Support

// @license.name  MIT

// @host      localhost:5000
// @BasePath  /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Applying sql-migrate migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Initialize Redis; the API degrades to an in-process cache without it
	log.Println("📦 Connecting to Redis...")
	var cacheBackend cache.Cache
	if redisCache, err := cache.NewRedisCache(cfg); err != nil {
		logger.Warn("⚠️ Redis unavailable, using in-process cache",
			zap.String("addr", cfg.GetRedisAddr()),
			zap.Error(err))
		cacheBackend = cache.NewMemoryStore()
	} else {
		cacheBackend = redisCache
	}
	defer cacheBackend.Close()
	progress := cache.NewProgressStore(cacheBackend, cfg.Redis.ProgressTTL, cfg.Redis.StatsTTL)

	// Initialize storage backend
	log.Printf("🗄️  Initializing %s storage...", cfg.Storage.Backend)
	store, err := storage.NewStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize media tooling (requires ffmpeg/ffprobe on PATH)
	log.Println("🎬 Locating ffmpeg toolchain...")
	exec := executor.New()
	prober, err := media.NewProber(exec)
	if err != nil {
		log.Fatalf("Failed to initialize media prober: %v", err)
	}
	extractor, err := media.NewExtractor(exec)
	if err != nil {
		log.Fatalf("Failed to initialize audio extractor: %v", err)
	}

	// Initialize AI providers
	log.Println("🤖 Initializing AI providers...")
	var transcriber pkgai.Transcriber
	switch cfg.Transcriber.Provider {
	case "whisper-http":
		transcriber = pkgai.NewWhisperHTTP(cfg.Transcriber.BaseURL, cfg.Transcriber.APIKey, cfg.Transcriber.Model, cfg.Transcriber.Timeout)
	case "whisper-cli":
		transcriber = pkgai.NewWhisperCLI(cfg.Transcriber.BinaryPath, cfg.Transcriber.ModelPath, exec)
	case "assemblyai":
		transcriber = pkgai.NewAssemblyAI(cfg.Transcriber.APIKey)
	default:
		log.Fatalf("Unknown transcriber provider: %s", cfg.Transcriber.Provider)
	}
	log.Printf("🎙️  Transcriber: %s", transcriber.Name())

	var chat pkgai.ChatCompleter
	switch cfg.Summarizer.Provider {
	case "openai":
		chat = pkgai.NewOpenAIChat(cfg.Summarizer.BaseURL, cfg.Summarizer.APIKey, cfg.Summarizer.Model, cfg.Summarizer.Temperature, cfg.Summarizer.MaxTokens, cfg.Summarizer.Timeout)
	case "gemini":
		chat = pkgai.NewGeminiChat(cfg.Summarizer.APIKey, cfg.Summarizer.Model)
	default:
		log.Fatalf("Unknown summarizer provider: %s", cfg.Summarizer.Provider)
	}
	log.Printf("📝 Summarizer: %s", chat.Name())

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	minutesRepo := repository.NewMinutesRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Initialize services
	log.Println("✨ Initializing services...")
	exportService := export.NewDocxService(documentRepo, store, cfg, logger)
	pipelineService := pipeline.NewPipelineService(
		meetingRepo, transcriptRepo, minutesRepo, jobRepo,
		store, prober, extractor, transcriber, chat, exportService,
		progress, cfg, logger,
	)
	meetingService := meeting.NewMeetingService(
		meetingRepo, transcriptRepo, minutesRepo, documentRepo, jobRepo,
		store, prober, pipelineService, progress,
		cfg, logger,
	)

	// Start the processing worker pool
	log.Printf("👷 Starting %d pipeline workers...", cfg.Worker.PoolSize)
	if err := pipelineService.StartWorkerPool(context.Background(), cfg.Worker.PoolSize); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Start the drop-folder watcher when enabled
	watcherCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	var inboxWatcher *watcher.InboxWatcher
	if cfg.Watcher.Enabled {
		log.Printf("📂 Watching inbox directory: %s", cfg.Watcher.Dir)
		allowed := append([]string{}, cfg.Upload.AudioExtensions...)
		allowed = append(allowed, cfg.Upload.VideoExtensions...)
		inboxWatcher, err = watcher.New(
			cfg.Watcher.Dir,
			cfg.Watcher.SettleDelay,
			allowed,
			func(ctx context.Context, path string) error {
				_, err := meetingService.IngestLocalFile(ctx, path, "watcher")
				return err
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to initialize inbox watcher: %v", err)
		}
		go func() {
			if err := inboxWatcher.Start(watcherCtx); err != nil && watcherCtx.Err() == nil {
				logger.Error("❌ Inbox watcher stopped", zap.Error(err))
			}
		}()
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeetingHandler(meetingService, cfg, logger)
	router := handler.NewRouter(cfg, meetingHandler, db, cacheBackend)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	if inboxWatcher != nil {
		stopWatcher()
		if err := inboxWatcher.Stop(); err != nil {
			logger.Warn("⚠️ Inbox watcher shutdown", zap.Error(err))
		}
	}

	// Let in-flight pipeline jobs finish their current stage
	if err := pipelineService.StopWorkerPool(); err != nil {
		logger.Warn("⚠️ Worker pool shutdown", zap.Error(err))
	}

	log.Println("👋 Server stopped")
}
