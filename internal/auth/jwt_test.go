package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 168*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "jane")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "vidtube", claims.Issuer)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := newTestManager()

	// Back-to-back issuance lands on the same second; the jti must
	// still make the tokens distinct so rotation can revoke the first.
	first, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	second, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, HashToken(first), HashToken(second))
}

func TestTokenFamiliesAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken("user-1", "jane")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// Tokens signed with one secret must fail validation under the other.
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewTokenManager("access-secret-for-tests", "refresh-secret-for-tests", -time.Minute, 168*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "jane")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("a-completely-different-secret", "refresh-secret-for-tests", 15*time.Minute, 168*time.Hour)

	token, err := other.GenerateAccessToken("user-1", "jane")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateAccessToken("not.a.jwt")
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-token")
	h2 := HashToken("some-token")
	h3 := HashToken("other-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}
