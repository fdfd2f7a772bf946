package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "chat-server")

	token, err := m.Generate(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "chat-server", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, "chat-server")

	token, err := m.Generate(1, "alice")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWrongSecret(t *testing.T) {
	other := NewManager("other-secret", time.Hour, "chat-server")
	token, err := other.Generate(1, "alice")
	require.NoError(t, err)

	m := NewManager("test-secret", time.Hour, "chat-server")
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "chat-server")

	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
