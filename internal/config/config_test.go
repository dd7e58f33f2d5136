package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, []string{"*"}, cfg.API.CORSAllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("GITHUB_TIMEOUT", "3s")
	t.Setenv("GEMINI_MODEL", "gemini-pro")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.API.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "gemini-pro", cfg.LLM.Model)
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key")
}

func TestSigningKeysPrefersInlinePEM(t *testing.T) {
	cfg := AuthConfig{
		PrivateKeyPEM:  `-----BEGIN KEY-----\nabc\n-----END KEY-----`,
		PublicKeyPEM:   "pub",
		PrivateKeyFile: "/does/not/exist",
	}

	priv, pub, err := cfg.SigningKeys()
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN KEY-----\nabc\n-----END KEY-----", string(priv))
	assert.Equal(t, "pub", string(pub))
}

func TestSigningKeysMissing(t *testing.T) {
	_, _, err := AuthConfig{}.SigningKeys()
	require.Error(t, err)
}
