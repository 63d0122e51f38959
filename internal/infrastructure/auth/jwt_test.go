package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Issue("u-1", "alice")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)

	token, err := tm.Issue("u-1", "alice")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue("u-1", "alice")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	_, err := tm.Validate("definitely.not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
