package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pass1234")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "pass1234", hash)

	assert.NoError(t, CheckPassword(hash, "pass1234"))
	assert.Error(t, CheckPassword(hash, "pass12345"))
	assert.Error(t, CheckPassword("not-a-hash", "pass1234"))
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Forest Hiker", "the-forest-hiker"},
		{"Café Crème Tour", "cafe-creme-tour"},
		{"  spaced   out  ", "spaced-out"},
		{"100% Wild & Free!", "100-wild-free"},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.in), tt.in)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 10, ParseIntDefault("", 10))
	assert.Equal(t, 3, ParseIntDefault("3", 10))
	assert.Equal(t, 10, ParseIntDefault("abc", 10))
	assert.Equal(t, -2, ParseIntDefault("-2", 10))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "leo@example.com", NormalizeEmail("  Leo@Example.COM "))
	assert.Equal(t, "a@b.io", NormalizeEmail("a@b.io"))
}
