package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenManager_IssueVerify(t *testing.T) {
	m := NewTokenManager("secret", 0)

	tok, err := m.Issue("user-1")
	require.NoError(t, err)

	uid, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestTokenManager_DefaultTTLIsSevenDays(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", 0).WithClock(fixedClock(issued))

	tok, err := m.Issue("user-1")
	require.NoError(t, err)

	m.WithClock(fixedClock(issued.Add(7*24*time.Hour - time.Minute)))
	_, err = m.Verify(tok)
	assert.NoError(t, err)

	m.WithClock(fixedClock(issued.Add(7*24*time.Hour + time.Second)))
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tok, err := NewTokenManager("secret", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenManager_RejectsMalformed(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid, "token %q", tok)
	}
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenManager_RejectsMissingExpiryOrUser(t *testing.T) {
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	m := NewTokenManager("secret", time.Hour)
	for _, tok := range []string{noExp, noUser} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	}
}
