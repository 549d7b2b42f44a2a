package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "$2a$10$short"} {
		ok, err := VerifyPassword("secret1", hash)
		require.False(t, ok)
		require.ErrorIs(t, err, ErrMalformedHash, hash)
	}
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "a@example.com", NormalizeEmail("  A@Example.COM "))
}

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("a@example.com"))

	var verr *ValidationError
	for _, bad := range []string{"", "nope", "a@b", "Name <a@example.com>"} {
		err := ValidateEmail(bad)
		require.True(t, errors.As(err, &verr), bad)
		require.Equal(t, "email", verr.Field)
	}
}

func TestValidatePassword(t *testing.T) {
	require.Error(t, ValidatePassword("12345"))
	require.NoError(t, ValidatePassword("123456"))
	require.NoError(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes)))

	err := ValidatePassword(strings.Repeat("a", MaxPasswordBytes+1))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "password", verr.Field)

	// Four bytes per rune: 19 runes exceed the byte limit.
	require.Error(t, ValidatePassword(strings.Repeat("😀", 19)))
}
