package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refreshToken, err := GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, token, refreshToken)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.UserType)
	assert.InDelta(t, time.Now().Add(AccessTokenTTL).Unix(), claims.ExpiresAt, 5)

	refreshClaims, err := ParseToken(refreshToken)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(RefreshTokenTTL).Unix(), refreshClaims.ExpiresAt, 5)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, _, err := GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, _, err := GenerateJWT("id", "user@example.com", "user")
	assert.Error(t, err)
}

func TestTokenBlacklist(t *testing.T) {
	token := "some-token"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}

func TestSweepBlacklistRemovesExpired(t *testing.T) {
	BlacklistToken("expired-token", time.Now().Add(-time.Minute))
	BlacklistToken("live-token", time.Now().Add(time.Hour))

	sweepBlacklist(time.Now())

	assert.False(t, IsTokenBlacklisted("expired-token"))
	assert.True(t, IsTokenBlacklisted("live-token"))
}

func TestBlacklistConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				token := fmt.Sprintf("token-%d-%d", n, j)
				BlacklistToken(token, time.Now().Add(time.Minute))
				IsTokenBlacklisted(token)
				sweepBlacklist(time.Now().Add(2 * time.Minute))
			}
		}(i)
	}
	wg.Wait()
}
