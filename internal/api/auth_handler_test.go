package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiResume/internal/api/middleware"
)

type authEnv struct {
	router *gin.Engine
	redis  *fakeRedis
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	st := newTestStore(t)
	svc := newTestAuthService(t)
	rdb := newFakeRedis()
	h := NewAuthHandler(st.Users, svc, rdb, testAuthConfig())

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", middleware.AuthMiddleware(svc), h.Me)
	return &authEnv{router: r, redis: rdb}
}

func (e *authEnv) register(t *testing.T) map[string]any {
	t.Helper()
	w := doJSON(t, e.router, http.MethodPost, "/auth/register", map[string]string{
		"username": "jane",
		"email":    "Jane@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func TestRegisterIssuesTokensAndMeResolvesUser(t *testing.T) {
	env := newAuthEnv(t)
	body := env.register(t)

	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["email"])

	w := doJSON(t, env.router, http.MethodGet, "/auth/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, user["id"], me["id"])
	assert.Equal(t, "jane", me["username"])
}

func TestRegisterValidation(t *testing.T) {
	env := newAuthEnv(t)
	env.register(t)

	tests := []struct {
		body   map[string]string
		status int
		msg    string
	}{
		{map[string]string{"username": "bob"}, http.StatusBadRequest, "Username, email, and password are required"},
		{map[string]string{"username": "   ", "email": "blank@example.com", "password": "secret123"}, http.StatusBadRequest, "Username, email, and password are required"},
		{map[string]string{"username": "bob", "email": "nope", "password": "secret123"}, http.StatusBadRequest, "Invalid email format"},
		{map[string]string{"username": "bob", "email": "bob@example.com", "password": "123"}, http.StatusBadRequest, "Password must be at least 6 characters long"},
		{map[string]string{"username": "bob", "email": "jane@example.com", "password": "secret123"}, http.StatusConflict, "Email already registered"},
		{map[string]string{"username": "jane", "email": "other@example.com", "password": "secret123"}, http.StatusConflict, "Username already taken"},
	}
	for _, tt := range tests {
		w := doJSON(t, env.router, http.MethodPost, "/auth/register", tt.body)
		assert.Equal(t, tt.status, w.Code, w.Body.String())
		if tt.msg != "" {
			assert.Equal(t, tt.msg, decode(t, w)["error"])
		}
	}
}

func TestLoginFailuresLockAccount(t *testing.T) {
	env := newAuthEnv(t)
	env.register(t)

	for i := 0; i < 3; i++ {
		w := doJSON(t, env.router, http.MethodPost, "/auth/login", map[string]string{"email": "jane@example.com", "password": "wrong-pass"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w)["error"])
	}

	w := doJSON(t, env.router, http.MethodPost, "/auth/login", map[string]string{"email": "jane@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLoginSucceedsWithCaseInsensitiveEmail(t *testing.T) {
	env := newAuthEnv(t)
	env.register(t)

	w := doJSON(t, env.router, http.MethodPost, "/auth/login", map[string]string{"email": "JANE@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["access_token"])

	w = doJSON(t, env.router, http.MethodPost, "/auth/login", map[string]string{"email": "jane@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", decode(t, w)["error"])
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	env := newAuthEnv(t)
	env.register(t)

	cookie := refreshCookie(t, doJSON(t, env.router, http.MethodPost, "/auth/login",
		map[string]string{"email": "jane@example.com", "password": "secret123"}).Result().Cookies())

	w := doJSON(t, env.router, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": cookie})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := refreshCookie(t, w.Result().Cookies())
	assert.NotEqual(t, cookie, rotated)

	// 旧令牌已被拉黑。
	w = doJSON(t, env.router, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": cookie})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, env.router, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": rotated})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful", decode(t, w)["message"])

	w = doJSON(t, env.router, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": rotated})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func refreshCookie(t *testing.T, cookies []*http.Cookie) string {
	t.Helper()
	for _, c := range cookies {
		if c.Name == refreshTokenCookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("refresh cookie not set")
	return ""
}
