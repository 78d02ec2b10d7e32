package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestHashSecret(t *testing.T) {
	t.Run("Successfully hash secret", func(t *testing.T) {
		hashed, err := HashSecret("mySecurePassword123")

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, "mySecurePassword123", hashed)
	})

	t.Run("Different hashes for same secret", func(t *testing.T) {
		hash1, _ := HashSecret("1234")
		hash2, _ := HashSecret("1234")

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckSecret(t *testing.T) {
	hashed, _ := HashSecret("4321")

	t.Run("Correct secret", func(t *testing.T) {
		assert.True(t, CheckSecret(hashed, "4321"))
	})

	t.Run("Incorrect secret", func(t *testing.T) {
		assert.False(t, CheckSecret(hashed, "1234"))
	})

	t.Run("Empty secret", func(t *testing.T) {
		assert.False(t, CheckSecret(hashed, ""))
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken("u-1", "rahul", "user", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "rahul", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestGeneratePinToken(t *testing.T) {
	token, err := GeneratePinToken("u-2", "priya", "user", testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypePin, claims.TokenType)
}

func TestValidateToken_Errors(t *testing.T) {
	t.Run("Wrong secret", func(t *testing.T) {
		token, _ := GenerateAccessToken("u-1", "rahul", "user", testSecret)

		_, err := ValidateToken(token, "another-secret")
		assert.Error(t, err)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.Error(t, err)
	})

	t.Run("Empty secret", func(t *testing.T) {
		_, err := ValidateToken("whatever", "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})

	t.Run("Empty secret on generation", func(t *testing.T) {
		_, err := GenerateAccessToken("u-1", "rahul", "user", "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})
}
