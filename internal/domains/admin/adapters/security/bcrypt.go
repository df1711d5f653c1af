package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
)

var _ ports.Hasher = (*BcryptHasher)(nil)

// BcryptHasher hashes admin passwords. A non-positive cost falls back to
// bcrypt.DefaultCost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
