package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	MessagesPerMinute int           // Max questions per session per minute
	BurstSize         int           // Allow burst of N requests
	CleanupInterval   time.Duration // How often to clean up old entries
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Remaining returns the number of tokens remaining
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokens := min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	return int(tokens)
}

// UserRateLimiter manages question rate limits per conversation session
type UserRateLimiter struct {
	config      RateLimiterConfig
	limits      map[uuid.UUID]*TokenBucket
	mu          sync.RWMutex
	logger      *zap.Logger
	stopCleanup chan struct{}
}

// NewUserRateLimiter creates a new session-keyed rate limiter
func NewUserRateLimiter(config RateLimiterConfig, logger *zap.Logger) *UserRateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 10 * time.Minute
	}
	limiter := &UserRateLimiter{
		config:      config,
		limits:      make(map[uuid.UUID]*TokenBucket),
		logger:      logger,
		stopCleanup: make(chan struct{}),
	}

	// Start cleanup goroutine
	go limiter.cleanupRoutine()

	return limiter
}

// cleanupRoutine periodically removes stale entries
func (rl *UserRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup drops all buckets once the map grows large; inactive sessions
// simply get a fresh bucket next time.
func (rl *UserRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limits) > 1000 {
		rl.logger.Info("Cleaning up rate limiter cache", zap.Int("limiters", len(rl.limits)))
		rl.limits = make(map[uuid.UUID]*TokenBucket)
	}
}

// Stop stops the cleanup routine
func (rl *UserRateLimiter) Stop() {
	close(rl.stopCleanup)
}

// Allow checks if a question can be submitted for the given session
func (rl *UserRateLimiter) Allow(sessionID uuid.UUID) bool {
	rl.mu.Lock()
	bucket, exists := rl.limits[sessionID]
	if !exists {
		// Create new bucket: burst tokens, refill at MessagesPerMinute/60 per second
		refillRate := float64(rl.config.MessagesPerMinute) / 60.0
		bucket = NewTokenBucket(float64(rl.config.BurstSize), refillRate)
		rl.limits[sessionID] = bucket
	}
	rl.mu.Unlock()

	return bucket.Allow()
}

// Limit returns remaining tokens for a session
func (rl *UserRateLimiter) Limit(sessionID uuid.UUID) (remaining int, limit int) {
	rl.mu.RLock()
	bucket, exists := rl.limits[sessionID]
	rl.mu.RUnlock()

	if !exists {
		return rl.config.BurstSize, rl.config.BurstSize
	}
	return bucket.Remaining(), rl.config.BurstSize
}

// RateLimitMiddleware creates a Gin middleware limiting questions per session
func RateLimitMiddleware(limiter *UserRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionIDValue, exists := c.Get("sessionID")
		if !exists {
			// Session middleware should run before this
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session not initialized"})
			return
		}

		sessionID := sessionIDValue.(uuid.UUID)
		allowed := limiter.Allow(sessionID)
		remaining, limit := limiter.Limit(sessionID)

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			// Get logger from context
			logger, _ := c.Get("logger")
			zapLogger, _ := logger.(*zap.Logger)
			if zapLogger != nil {
				zapLogger.Warn("Rate limit exceeded",
					zap.String("session_id", sessionID.String()),
					zap.Int("limit", limit))
			}

			c.Header("Retry-After", "60") // Suggest retry after 60 seconds
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"limit":       limit,
				"remaining":   remaining,
				"retry_after": 60,
			})
			return
		}

		c.Next()
	}
}
