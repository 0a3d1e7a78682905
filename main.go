package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"botpanel/internal/analyzer"
	"botpanel/internal/bot"
	"botpanel/internal/commands"
	"botpanel/internal/config"
	"botpanel/internal/handler"
	"botpanel/internal/provider"
	"botpanel/internal/repository"
	"botpanel/internal/router"
	"botpanel/internal/server"
	"botpanel/internal/service"
	"botpanel/internal/storage"
	"botpanel/internal/transport"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	users := repository.NewUserRepository(db, logger)
	groups := repository.NewGroupRepository(db, logger)
	contributions := repository.NewContributionRepository(db, logger)
	requests := repository.NewRequestRepository(db, logger)
	polls := repository.NewPollRepository(db, logger)
	manhwas := repository.NewManhwaRepository(db, logger)
	logs := repository.NewLogRepository(db, logger)
	settings := repository.NewSettingsRepository(db, logger)

	// Content analysis, optionally backed by Gemini
	var (
		gen analyzer.Generator
		qa  commands.QA
	)
	if cfg.Gemini.Enabled {
		gemini, err := analyzer.NewGeminiClient(analyzer.GeminiConfig{
			APIKey:     cfg.Gemini.APIKey,
			ModelName:  cfg.Gemini.ModelName,
			MaxRetries: cfg.Gemini.MaxRetries,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize Gemini client, continuing without AI", zap.Error(err))
		} else {
			defer gemini.Close()
			gen = gemini
			qa = gemini
		}
	}
	contentAnalyzer := analyzer.New(gen, nil, logger)

	// Media storage
	store, err := storage.NewFileStore(cfg.Storage.MediaDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	// Chat session
	tgBot, err := bot.NewBot(cfg.Telegram.BotToken, logger)
	if err != nil {
		logger.Warn("Failed to initialize chat bot, continuing without it", zap.Error(err))
		tgBot = nil
	}
	var client transport.Client
	if tgBot != nil {
		client = tgBot
	}

	// Command handling and the provider pipeline
	pipeline := provider.NewPipeline(groups, contributions, logs, contentAnalyzer, store, client, logger)
	handlers := commands.NewHandlers(users, groups, contributions, requests, polls, manhwas, logs, settings,
		contentAnalyzer, qa, logger)
	rt := router.New(handlers, pipeline, users, groups, logger)

	// Panel API
	authService := service.NewAuthService(users, cfg.Auth.JWTSecret, logger)
	authHandler := handler.NewAuthHandler(authService, users, logger)
	panelHandler := handler.NewPanelHandler(contributions, requests, polls, groups, users, manhwas, logs, settings, logger)
	providerHandler := handler.NewProviderHandler(contributions, logger)
	srv := server.NewServer(authService, authHandler, panelHandler, providerHandler, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if tgBot != nil {
		go func() {
			if err := tgBot.Start(ctx, rt); err != nil {
				logger.Error("Chat bot failed", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := srv.Run(cfg.Server.Port); err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("Application stopped.")
}
