package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

// PasswordCost is the bcrypt work factor used for every stored password.
const PasswordCost = 10

// PasswordHasher implements ports.PasswordHasher with bcrypt.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: PasswordCost}
}

// Hash returns the bcrypt hash of plaintext. Failures of the primitive, such
// as input longer than 72 bytes, are wrapped in domain.ErrCodec.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCodec, err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a mismatch.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
