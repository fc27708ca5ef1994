package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, jti, err := GenerateAccessToken(7, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)

	uid, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.EqualValues(t, 7, uid)
}

func TestValidateAccessToken_ExpiredSentinel(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, _, err := GenerateAccessToken(7, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenBad)
}

func TestValidateAccessToken_BadTokenSentinel(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenBad)

	// a token signed with a different secret is rejected the same way
	t.Setenv("JWT_SECRET", "other-secret")
	token, _, err := GenerateAccessToken(7, time.Minute)
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "test-secret")

	_, err = ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenBad)
}
