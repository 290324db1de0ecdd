package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher()

	for _, p := range []string{"s3cret", "", "ñandú-pässwörd", strings.Repeat("x", 72)} {
		hash, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)
		assert.True(t, h.Verify(p, hash), "password %q must verify against its own hash", p)
	}
}

func TestPasswordHasher_UsesFixedCost(t *testing.T) {
	h := NewPasswordHasher()
	hash, err := h.Hash("pass123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestPasswordHasher_Mismatch(t *testing.T) {
	h := NewPasswordHasher()
	hash, err := h.Hash("goodpass")
	require.NoError(t, err)

	assert.False(t, h.Verify("badpass", hash))
	assert.False(t, h.Verify("goodpass", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("goodpass", ""))
}

func TestPasswordHasher_FailureIsPropagated(t *testing.T) {
	h := NewPasswordHasher()

	_, err := h.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCodec)
}
