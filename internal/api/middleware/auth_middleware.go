package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aiResume/internal/auth"
)

// UserIDKey 是 gin.Context 中保存当前用户 ID 的键。
const UserIDKey = "userID"

// TokenValidator 校验指定类型的令牌。
type TokenValidator interface {
	ValidateTokenOfType(token, tokenType string) (*auth.TokenClaims, error)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AuthMiddleware 校验访问令牌并将 userID 注入上下文。
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := validator.ValidateTokenOfType(rawToken, auth.TokenTypeAccess)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// BearerToken 从 Authorization 头中取出 Bearer 令牌。
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
