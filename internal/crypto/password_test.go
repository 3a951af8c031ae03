package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize)

	salt2, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2, "соли должны различаться")
}

func TestHashPassword_Verify(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "argon2id$"))

	assert.NoError(t, VerifyPassword("correct horse battery", hash))
	assert.Error(t, VerifyPassword("wrong password", hash))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_InvalidFormat(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "wrong prefix", encoded: "bcrypt$abc$def"},
		{name: "bad salt", encoded: "argon2id$!!!$AAAA"},
		{name: "bad hash", encoded: "argon2id$AAAA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, VerifyPassword("pw", tt.encoded))
		})
	}
}

func TestNamespaceKey(t *testing.T) {
	a := NamespaceKey("alice@example.com")
	assert.Len(t, a, 32)
	assert.Equal(t, a, NamespaceKey("  Alice@Example.com "), "регистр и пробелы не влияют")
	assert.NotEqual(t, a, NamespaceKey("bob@example.com"))
	assert.NotContains(t, a, "alice")
}
