package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	service := NewBcryptPasswordService(bcrypt.MinCost)

	hash, err := service.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	ok, err := service.VerifyPassword("correct-horse-battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	service := NewBcryptPasswordService(bcrypt.MinCost)

	_, err := service.HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword_EmptyInputs(t *testing.T) {
	service := NewBcryptPasswordService(bcrypt.MinCost)

	_, err := service.VerifyPassword("", "some-hash")
	assert.Error(t, err)

	_, err = service.VerifyPassword("some-password", "")
	assert.Error(t, err)
}
