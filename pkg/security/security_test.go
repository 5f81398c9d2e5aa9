package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testSecret = "segredo-de-teste-com-mais-de-32-bytes"

func TestKeyManager_RoundTrip(t *testing.T) {
	km, err := NewKeyManager(testSecret, zaptest.NewLogger(t))
	require.NoError(t, err)

	token, issued, err := km.GenerateToken(42, "ana", "cotizador", "Marketing", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := km.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "cotizador", claims.Rol)
	assert.Equal(t, "Marketing", claims.Area)
	assert.Equal(t, issued.ID, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestKeyManager_Expired(t *testing.T) {
	km, err := NewKeyManager(testSecret, zaptest.NewLogger(t))
	require.NoError(t, err)

	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	km.now = func() time.Time { return issuedAt }
	token, _, err := km.GenerateToken(1, "ana", "cotizador", "", time.Hour)
	require.NoError(t, err)

	km.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = km.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestKeyManager_Rejects(t *testing.T) {
	km, err := NewKeyManager(testSecret, zaptest.NewLogger(t))
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		other, err := NewKeyManager(strings.Repeat("z", MinSecretLength), zaptest.NewLogger(t))
		require.NoError(t, err)
		token, _, err := other.GenerateToken(1, "ana", "admin", "", time.Hour)
		require.NoError(t, err)

		_, err = km.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := &Claims{Username: "ana", RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = km.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := km.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
		_, err := c.UserID()
		assert.Error(t, err)
	})
}

func TestNewKeyManager_Secrets(t *testing.T) {
	_, err := NewKeyManager("curto", zaptest.NewLogger(t))
	assert.Error(t, err)

	km, err := NewKeyManager("", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Len(t, km.secretKey, MinSecretLength)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("12345", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "12345", hash)

	match, err := CheckPassword(hash, "12345")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CheckPassword(hash, "54321")
	require.NoError(t, err)
	assert.False(t, match)

	match, err = CheckPassword("", "12345")
	require.NoError(t, err)
	assert.False(t, match)
}
