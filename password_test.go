package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pw1")
	require.NoError(t, err)
	h2, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)

	require.True(t, CheckPassword("pw1", hash))
	require.False(t, CheckPassword("wrongpw", hash))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("pw1", "not-a-bcrypt-hash"))
	require.False(t, CheckPassword("pw1", ""))
}
