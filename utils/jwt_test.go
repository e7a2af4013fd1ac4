package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", 30)

	token, err := GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	InitJWT("test-secret", 30)

	token, err := GenerateToken("user-123")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	// 换密钥后旧令牌失效
	InitJWT("another-secret", 30)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenHash(t *testing.T) {
	plain, hash := GenerateRefreshToken()

	assert.NotEmpty(t, plain)
	assert.NotEqual(t, plain, hash)
	assert.Equal(t, hash, HashRefreshToken(plain))

	plain2, hash2 := GenerateRefreshToken()
	assert.NotEqual(t, plain, plain2)
	assert.NotEqual(t, hash, hash2)
}
