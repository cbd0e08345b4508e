package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("pw1")
	require.NoError(t, err)
	second, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 60)
	assert.True(t, VerifyPassword("pw1", first))
	assert.True(t, VerifyPassword("pw1", second))
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		digest   string
		want     bool
	}{
		{"matching password", "correct horse", digest, true},
		{"other password", "battery staple", digest, false},
		{"empty password", "", digest, false},
		{"malformed digest", "correct horse", "not-a-bcrypt-hash", false},
		{"empty digest", "correct horse", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.password, tt.digest))
		})
	}
}

func TestHashPassword_LongPasswords(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"at bcrypt limit", strings.Repeat("p", 72)},
		{"one past bcrypt limit", strings.Repeat("p", 73)},
		{"multibyte", strings.Repeat("ß", 100)},
		{"very long", strings.Repeat("passphrase ", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.True(t, VerifyPassword(tt.password, digest))
		})
	}
}

func TestVerifyPassword_LongPasswordsDifferAfterLimit(t *testing.T) {
	prefix := strings.Repeat("p", 72)
	digest, err := HashPassword(prefix + "A")
	require.NoError(t, err)

	assert.False(t, VerifyPassword(prefix+"B", digest))
	assert.False(t, VerifyPassword(prefix, digest))
}
