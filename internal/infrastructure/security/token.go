package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

// DefaultTokenTTL is how long an identity token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the payload of an identity token.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 identity tokens. There is no
// revocation: expiry is the only bound on a token's life.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue signs a token for userID that expires after the configured TTL.
func (m *TokenManager) Issue(userID string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("issue token: empty secret")
	}
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Every failure collapses to domain.ErrTokenInvalid.
func (m *TokenManager) Verify(token string) (string, error) {
	if token == "" || len(m.secret) == 0 {
		return "", domain.ErrTokenInvalid
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}
