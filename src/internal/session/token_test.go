package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", "bankist", time.Hour)

	raw, expires, err := tokens.Issue("sid-1", "js")
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "js", claims.Username)
	assert.Equal(t, expires.Unix(), claims.ExpiresAt.Unix())
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", "bankist", time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issued }

	raw, _, err := tokens.Issue("sid-1", "js")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectWrongIssuerAndGarbage(t *testing.T) {
	raw, _, err := NewTokens("secret", "someone-else", time.Hour).Issue("sid-1", "js")
	require.NoError(t, err)

	_, err = NewTokens("secret", "bankist", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("secret", "bankist", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
