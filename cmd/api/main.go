package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/resume-assistant/internal/config"
	"alfredoptarigan/resume-assistant/internal/logger"
	"alfredoptarigan/resume-assistant/internal/repositories"
	"alfredoptarigan/resume-assistant/internal/server"
	"alfredoptarigan/resume-assistant/internal/services"
)

func main() {
	// Load configuration
	cfg, envErr := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Info("No .env file found. Using environment and default values.")
	}
	log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; generation requests will fail until it is configured")
	}

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", zap.Error(err))
	}
	if db == nil {
		log.Info("Generation log disabled (DB_ENABLED=false)")
	}

	// Initialize repositories
	logRepo := repositories.NewGenerationLogRepository(db)

	// Initialize services
	geminiService := services.NewGeminiService(cfg.Gemini, log)
	generationService := services.NewGenerationService(
		geminiService,
		logRepo,
		cfg.Gemini.StructuredATS,
		log,
	)
	documentParser := services.NewDocumentParserService()
	log.Info("✅ Services initialized successfully", zap.String("model", geminiService.ModelName()))

	app := server.New(server.Dependencies{
		Config:            cfg,
		GenerationService: generationService,
		DocumentParser:    documentParser,
		Logger:            log,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info(fmt.Sprintf("🚀 Server running on port %s", cfg.Server.Port),
		zap.String("allowed_origin", cfg.CORS.AllowedOrigin),
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
