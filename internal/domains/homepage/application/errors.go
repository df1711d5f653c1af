package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid homepage input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
