package utils

import (
	"net/http"

	"slotfinder/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				middleware.RequestLogger(c).Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	middleware.RequestLogger(c).Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// APIError writes the error shape used by the /locations and /appointments
// endpoints: {"err": ..., "errType": ...}.
func APIError(c *gin.Context, status int, errType string, err error) {
	middleware.RequestLogger(c).Warn("request failed", zap.String("errType", errType), zap.Error(err))
	c.JSON(status, gin.H{"err": err.Error(), "errType": errType})
}
