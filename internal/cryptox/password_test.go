package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	h, err := HashPassword("Abcde1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=1,p=4$"))
	assert.Len(t, strings.Split(h, "$"), 6)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("Abcde1")
	require.NoError(t, err)
	b, err := HashPassword("Abcde1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword(t *testing.T) {
	h, err := HashPassword("Abcde1")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("Abcde1", h))
	assert.ErrorIs(t, VerifyPassword("Abcde2", h), ErrPasswordMismatch)
}

func TestVerifyPassword_BadFormat(t *testing.T) {
	for _, enc := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	} {
		err := VerifyPassword("x", enc)
		assert.Error(t, err, enc)
		assert.NotErrorIs(t, err, ErrPasswordMismatch, enc)
	}
}
