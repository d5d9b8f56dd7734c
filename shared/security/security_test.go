package security

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	passwords := []string{"secret12", "p", "correct horse battery staple", "пароль-ünïcode"}

	for _, password := range passwords {
		t.Run(password, func(t *testing.T) {
			hash, err := HashPassword(password)
			require.NoError(t, err)
			assert.NotEqual(t, password, hash)
			assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

			ok, err := VerifyPassword(password, hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = VerifyPassword(password+"x", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	first, err := HashPassword("secret12")
	require.NoError(t, err)
	second, err := HashPassword("secret12")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("secret12", "not-a-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestIssueToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := IssueToken()
		require.NoError(t, err)
		assert.Len(t, token, AccessTokenBytes*2)

		_, err = hex.DecodeString(token)
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "token issued twice")
		seen[token] = struct{}{}
	}
}
