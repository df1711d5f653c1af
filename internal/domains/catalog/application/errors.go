package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrImagesDisabled is returned when no image store is wired.
	ErrImagesDisabled = errors.New("image storage not configured")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeOriginalPrice) ||
		errors.Is(err, domain.ErrMissingName) ||
		errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrUnknownPromoCode) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrQuoteOverflow) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
