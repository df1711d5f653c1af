package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid admin input")
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password; the two are not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated means there is no current admin session.
	ErrUnauthenticated = errors.New("authentication required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
