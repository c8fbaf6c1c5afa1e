package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	passwords := []string{"Str0ng!Pass", "another-Pa55#", "ÜnicodePässw0rd!"}

	for _, password := range passwords {
		t.Run(password, func(t *testing.T) {
			hash, err := HashPassword(password)
			require.NoError(t, err)
			assert.NotEqual(t, password, hash)

			assert.True(t, ComparePassword(password, hash))
			assert.False(t, ComparePassword(password+"x", hash))
		})
	}
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	second, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestComparePasswordInvalidHash(t *testing.T) {
	assert.False(t, ComparePassword("Str0ng!Pass", "not-a-bcrypt-hash"))
}
