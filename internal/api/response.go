package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aiResume/internal/api/middleware"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)                { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string)      { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)       { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)        { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)        { Error(c, http.StatusConflict, msg) }
func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }
func Internal(c *gin.Context, msg string)        { Error(c, http.StatusInternalServerError, msg) }
func Unavailable(c *gin.Context, msg string)     { Error(c, http.StatusServiceUnavailable, msg) }

// userIDFromContext 读取 AuthMiddleware 写入的用户 ID。
func userIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	return userID, userID != ""
}
