package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// RoleAdmin is the only role the back office knows about.
const RoleAdmin = "admin"

// MinPasswordLength matches the hosted identity provider the store used before.
const MinPasswordLength = 6

var (
	ErrEmptyEmail    = errors.New("email is required")
	ErrInvalidEmail  = errors.New("email is not a valid address")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
)

// Admin is a back-office account.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	projection.Metadata
}

// NormalizeEmail lower-cases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks the shape of a new admin's credentials and
// returns the normalized email.
func ValidateCredentials(email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	return email, nil
}

// Session is one signed-in admin. Its ID is carried in the token so the
// session can be revoked server-side.
type Session struct {
	ID        string
	AdminID   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Token is a signed session handed to the client.
type Token struct {
	Value     string
	ExpiresAt time.Time
	Session   Session
}
