package ports

import "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"

// Hasher hashes and checks admin passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs sessions into bearer tokens and verifies them back.
type TokenIssuer interface {
	Sign(session domain.Session) (string, error)
	// Parse rejects bad signatures and expired tokens.
	Parse(raw string) (domain.Session, error)
}
