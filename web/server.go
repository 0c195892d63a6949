package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faq-bot/config"
	"faq-bot/database"
	"faq-bot/resolver"
	"faq-bot/web/handlers"
	"faq-bot/web/middleware"
)

type Server struct {
	router   *gin.Engine
	resolver *resolver.Resolver
	store    *database.PostgresStore
	logger   *zap.Logger
	config   *config.Config
	limiter  *middleware.UserRateLimiter
}

func NewServer(res *resolver.Resolver, store *database.PostgresStore, logger *zap.Logger, cfg *config.Config) *Server {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})

	limiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		MessagesPerMinute: cfg.RateLimitPerMin,
		BurstSize:         cfg.RateLimitBurstSize,
	}, logger)

	server := &Server{
		router:   router,
		resolver: res,
		store:    store,
		logger:   logger,
		config:   cfg,
		limiter:  limiter,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	askHandler := handlers.NewAskHandler(s.resolver, s.logger)
	faqHandler := handlers.NewFAQHandler(s.store, s.config.TopNFAQ, s.logger)
	adminHandler := handlers.NewAdminHandler(s.store, s.logger)

	// Conversation routes
	chat := s.router.Group("/", middleware.SessionMiddleware())
	chat.POST("/ask", middleware.RateLimitMiddleware(s.limiter), askHandler.Ask)
	chat.POST("/clarify", middleware.RateLimitMiddleware(s.limiter), askHandler.Clarify)

	// FAQ browsing
	chat.GET("/faq", faqHandler.List)
	chat.GET("/faq/:id", faqHandler.Show)

	// Administration
	admin := s.router.Group("/admin", middleware.AdminAuthMiddleware(s.config.AdminToken))
	admin.POST("/faq", adminHandler.CreateFAQ)
	admin.PUT("/faq/:id", adminHandler.UpdateFAQ)
	admin.DELETE("/faq/:id", adminHandler.DeleteFAQ)
	admin.GET("/unanswered", adminHandler.ListUnanswered)
	admin.DELETE("/unanswered/:id", adminHandler.DeleteUnanswered)
	admin.POST("/cache/clear", adminHandler.ClearCache)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.limiter.Stop()
	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
