package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError logs the underlying error and replies with a message safe
// to show the user.
func respondWithError(c *gin.Context, statusCode int, err error, userMessage string, logger *zap.Logger) {
	if logger != nil {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondWithClientError replies to a validation failure; nothing to log.
func respondWithClientError(c *gin.Context, statusCode int, userMessage string) {
	c.JSON(statusCode, gin.H{"error": userMessage})
}
