package handlers

import (
	"slotfinder/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger from the Gin context.
func getLogger(c *gin.Context) *zap.Logger {
	return middleware.RequestLogger(c)
}
