package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Ahmed@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ahmed@example.com", email)

	for _, bad := range []string{"", "not-an-email", "a@b", "user@.com", "user @example.com"} {
		_, err := SanitizeEmail(bad)
		assert.Error(t, err, bad)
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestValidateFullName(t *testing.T) {
	assert.NoError(t, ValidateFullName("Ahmed Hassan"))
	assert.NoError(t, ValidateFullName("Li"))
	assert.Error(t, ValidateFullName("A"))
	assert.Error(t, ValidateFullName(" "))
	assert.Error(t, ValidateFullName(strings.Repeat("x", 101)))
	assert.NoError(t, ValidateFullName(strings.Repeat("x", 100)))
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("+20 100 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "+201001234567", phone)

	phone, err = SanitizePhone("")
	require.NoError(t, err)
	assert.Empty(t, phone)

	_, err = SanitizePhone("123")
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.Regexp(t, `^[1-9]\d{5}$`, code)
		seen[code] = true
	}
	// 50 draws from 900000 values repeating every time means a broken generator
	assert.Greater(t, len(seen), 1)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, CheckPassword("correct horse battery", hash))
	assert.Error(t, CheckPassword("wrong password", hash))

	_, err = HashPassword("short")
	assert.Error(t, err)
}
