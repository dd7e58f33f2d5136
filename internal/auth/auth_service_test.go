package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	svc, err := NewAuthService(privPEM, pubPEM, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestService(t)
	userID := "0f8fad5b-d9cb-469f-a165-70867728950e"

	pair, err := svc.GenerateTokenPair(userID)
	require.NoError(t, err)

	access, err := svc.ValidateTokenOfType(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, access.UserID)
	assert.Empty(t, access.ID)

	refresh, err := svc.ValidateTokenOfType(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refresh.ID)

	_, err = svc.ValidateTokenOfType(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.GenerateTokenPair("user-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestService(t)
	foreign, err := other.GenerateTokenPair("user-1")
	require.NoError(t, err)
	_, err = newTestService(t).ValidateToken(foreign.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewAuthServiceRequiresKeys(t *testing.T) {
	_, err := NewAuthService(nil, []byte("x"), time.Hour, time.Hour)
	assert.Error(t, err)
	_, err = NewAuthService([]byte("not pem"), []byte("not pem"), time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))

	assert.ErrorIs(t, ValidatePassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("123456"))

	generated, err := GeneratePassword(16)
	require.NoError(t, err)
	assert.Len(t, generated, 16)
}

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	_, err = NormalizeEmail("alice@localhost")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
