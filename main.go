package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"faq-bot/cache"
	"faq-bot/config"
	"faq-bot/database"
	"faq-bot/llmclient"
	"faq-bot/matcher"
	"faq-bot/resolver"
	"faq-bot/web"
)

const sessionStoreSize = 10000
const clarificationTimeout = 15 * time.Minute

func main() {
	ctx := context.Background()

	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	store, err := database.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	// --- Ensure Schema Exists ---
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	sessions, err := resolver.NewSessionStore(sessionStoreSize, clarificationTimeout)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}

	llm := llmclient.New(cfg, logger)
	faqMatcher := matcher.New(store, cfg.MatchThreshold, logger)
	responseCache := cache.New(store, cfg.CacheTTLHours, logger)
	res := resolver.New(faqMatcher, responseCache, llm, store, sessions, cfg.MaxQuestionLength, logger)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start background cache sweep
	cleanupService := web.NewCleanupService(store, logger)
	go web.StartCacheCleanup(ctx, cfg, cleanupService, logger)

	// Initialize web server
	webServer := web.NewServer(res, store, logger, cfg)

	// Start web server
	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting FAQ bot web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
