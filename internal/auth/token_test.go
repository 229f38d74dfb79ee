package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.SubjectTypeUser, true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	token, _, err := tm.GenerateToken("user-1", domain.SubjectTypeUser, false)
	require.NoError(t, err)

	other := NewTokenManager("another-secret", 30)
	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	_, err := tm.ParseToken("not.a.token")
	require.Error(t, err)
}

func TestNewTokenManagerDefaultsTTL(t *testing.T) {
	tm := NewTokenManager("s", 0)
	assert.Equal(t, time.Hour, tm.TTL())
}

func TestPasswordHashAndCompare(t *testing.T) {
	hashed, err := HashPassword("super-secret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "super-secret", hashed)

	require.NoError(t, ComparePassword(hashed, "super-secret"))
	require.Error(t, ComparePassword(hashed, "wrong"))
}
