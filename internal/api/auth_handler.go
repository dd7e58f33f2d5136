package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"aiResume/internal/api/middleware"
	"aiResume/internal/auth"
	"aiResume/internal/config"
	"aiResume/internal/database"
	"aiResume/internal/store"
)

const refreshTokenCookieName = "refresh_token"

// AuthHandler 处理注册、登录、刷新、退出与当前用户查询。
type AuthHandler struct {
	users       *store.Users
	authService *auth.AuthService
	redis       authRedis
	cfg         config.AuthConfig
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(users *store.Users, authService *auth.AuthService, redisClient authRedis, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		users:       users,
		authService: authService,
		redis:       redisClient,
		cfg:         cfg,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *database.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	Message     string        `json:"message,omitempty"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *userResponse `json:"user,omitempty"`
}

// Register 创建新用户账号，成功后直接签发令牌。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		BadRequest(c, "Username, email, and password are required")
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		BadRequest(c, "Invalid email format")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		BadRequest(c, fmt.Sprintf("Password must be at least %d characters long", auth.MinPasswordLength))
		return
	}
	username := strings.TrimSpace(req.Username)

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("username", username))

	if _, err := h.users.FindByEmail(ctx, email); err == nil {
		Conflict(c, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if _, err := h.users.FindByUsername(ctx, username); err == nil {
		Conflict(c, "Username already taken")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	hashed, err := h.authService.HashPassword(req.Password)
	if err != nil {
		logger.Error("hash password failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	user := &database.User{Username: username, Email: email, PasswordHash: hashed}
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			Conflict(c, "Email or username already registered")
			return
		}
		logger.Error("create user failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("user registered", slog.String("user_id", user.ID))
	h.replyWithTokens(c, http.StatusCreated, user, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验邮箱与密码并返回 Token。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Email and password are required")
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	logger := middleware.LoggerFromContext(c).With(slog.String("email", email))

	// 速率限制：每 IP+邮箱 每小时 N 次
	rateKey := loginRateKeyPrefix + c.ClientIP() + ":" + email + ":" + time.Now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour)
	if err != nil {
		logger.Warn("login rate counter unavailable", slog.Any("error", err))
		count = 0
	}
	if h.cfg.LoginRateLimitPerHour > 0 && count > int64(h.cfg.LoginRateLimitPerHour) {
		TooManyRequests(c, "rate limit exceeded")
		return
	}

	if ttl, _ := h.redis.TTL(ctx, loginLockKeyPrefix+email).Result(); ttl > 0 {
		TooManyRequests(c, "account temporarily locked")
		return
	}

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("login failed: user not found")
			h.recordLoginFailure(ctx, email)
			Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if !h.authService.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.String("user_id", user.ID))
		h.recordLoginFailure(ctx, email)
		Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	_ = h.redis.Del(ctx, loginFailKeyPrefix+email).Err()
	h.replyWithTokens(c, http.StatusOK, user, "Login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh 校验刷新令牌并颁发新的 TokenPair，旧令牌随即失效。
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	claims, ok := h.validRefreshClaims(c, logger)
	if !ok {
		Unauthorized(c)
		return
	}

	user, err := h.users.FindByID(ctx, claims.UserID)
	if err != nil {
		logger.Info("refresh user not found", slog.Any("error", err))
		Unauthorized(c)
		return
	}

	if err := h.revokeRefreshToken(ctx, claims.ID, claims.ExpiresAt); err != nil {
		logger.Error("refresh revoke old token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.replyWithTokens(c, http.StatusOK, user, "")
}

// Logout 将刷新令牌加入黑名单并清除 Cookie。
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	claims, ok := h.validRefreshClaims(c, logger)
	if ok {
		if err := h.revokeRefreshToken(ctx, claims.ID, claims.ExpiresAt); err != nil {
			logger.Error("logout revoke token failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   strings.TrimSpace(h.cfg.CookieDomain),
	})
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Me 返回当前登录用户的信息。
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			NotFound(c, "User not found")
			return
		}
		middleware.LoggerFromContext(c).Error("load current user failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// validRefreshClaims 取出并校验刷新令牌，已拉黑的令牌视为无效。
func (h *AuthHandler) validRefreshClaims(c *gin.Context, logger *slog.Logger) (*auth.TokenClaims, bool) {
	refreshToken := extractRefreshToken(c)
	if refreshToken == "" {
		return nil, false
	}

	claims, err := h.authService.ValidateTokenOfType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		logger.Info("refresh token invalid", slog.Any("error", err))
		return nil, false
	}
	if claims.ID == "" {
		logger.Info("refresh token missing jti")
		return nil, false
	}

	revoked, err := h.redis.Exists(c.Request.Context(), refreshTokenBlacklistKeyPrefix+claims.ID).Result()
	if err != nil {
		logger.Error("refresh token blacklist lookup failed", slog.Any("error", err))
		return nil, false
	}
	if revoked > 0 {
		logger.Info("refresh token revoked", slog.String("jti", claims.ID))
		return nil, false
	}
	return claims, true
}

func (h *AuthHandler) replyWithTokens(c *gin.Context, status int, user *database.User, message string) {
	pair, err := h.authService.GenerateTokenPair(user.ID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate token pair failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	resp := newUserResponse(user)
	c.JSON(status, tokenResponse{
		Message:     message,
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.authService.AccessTokenTTL().Seconds()),
		User:        &resp,
	})
}

func extractRefreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshTokenCookieName); err == nil && token != "" {
		return token
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, refreshToken string) {
	ttl := h.authService.RefreshTokenTTL()
	if ttl <= 0 {
		ttl = time.Hour
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    refreshToken,
		MaxAge:   int(ttl.Seconds()),
		Path:     "/",
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   strings.TrimSpace(h.cfg.CookieDomain),
		Expires:  time.Now().Add(ttl),
	})
}

func (h *AuthHandler) revokeRefreshToken(ctx context.Context, jti string, expiresAt *jwt.NumericDate) error {
	ttl := h.authService.RefreshTokenTTL()
	if expiresAt != nil {
		ttl = time.Until(expiresAt.Time)
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return h.redis.Set(ctx, refreshTokenBlacklistKeyPrefix+jti, "revoked", ttl).Err()
}

func (h *AuthHandler) recordLoginFailure(ctx context.Context, email string) {
	failKey := loginFailKeyPrefix + email
	count, err := incrWithTTL(ctx, h.redis, failKey, h.cfg.LoginLockTTL)
	if err != nil {
		return
	}
	if h.cfg.LoginLockThreshold > 0 && count >= int64(h.cfg.LoginLockThreshold) {
		_ = h.redis.Set(ctx, loginLockKeyPrefix+email, "1", h.cfg.LoginLockTTL).Err()
	}
}

func isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}
