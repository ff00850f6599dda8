package jwt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndVerify(t *testing.T) {
	m := NewManager("secret", 3600)

	token, err := m.GenerateToken(Claims{
		UserID:  "editor",
		Actions: []string{"read", "write"},
		Mounts:  []string{"1:/forms/"},
		Locale:  "ko",
	})
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.UserID)
	assert.Equal(t, "editor", claims.Subject)
	assert.Equal(t, []string{"1:/forms/"}, claims.Mounts)
	assert.False(t, claims.Admin)
}

func TestManager_VerifyToken_Errors(t *testing.T) {
	m := NewManager("secret", 3600)

	_, err := m.VerifyToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	other := NewManager("other-secret", 3600)
	token, err := other.GenerateToken(Claims{UserID: "x"})
	require.NoError(t, err)
	_, err = m.VerifyToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired := NewManager("secret", -60)
	token, err = expired.GenerateToken(Claims{UserID: "x"})
	require.NoError(t, err)
	_, err = m.VerifyToken(token)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}
