package domain

import (
	"errors"
	"math"
	"strings"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var (
	ErrNegativePrice         = errors.New("price must not be negative")
	ErrNegativeOriginalPrice = errors.New("original price must not be negative")
	ErrMissingName           = errors.New("product name is required in both en and fr")
	ErrEmptyID               = errors.New("product id is required")
)

// Translation holds the localized copy of a product.
type Translation struct {
	Name        string
	Description string
}

// Translations carries one Translation per supported language.
type Translations struct {
	EN Translation
	FR Translation
}

// ProductDraft is a product that has not been stored yet. It has no identity.
type ProductDraft struct {
	Price         int64
	OriginalPrice int64
	Image         string
	Features      []string
	Translations  Translations
}

// Product is a stored catalog entry. Prices are whole FCFA.
type Product struct {
	ID string
	ProductDraft
	projection.Metadata
}

// Normalize trims the image and descriptions and drops blank features, keeping
// their order. Names are kept as submitted: the French name is matched exactly
// by the duplicate check.
func (d *ProductDraft) Normalize() {
	d.Image = strings.TrimSpace(d.Image)
	d.Translations.EN.Description = strings.TrimSpace(d.Translations.EN.Description)
	d.Translations.FR.Description = strings.TrimSpace(d.Translations.FR.Description)
	features := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	d.Features = features
}

// Validate enforces draft invariants. OriginalPrice below Price is accepted.
func (d ProductDraft) Validate() error {
	if d.Price < 0 {
		return ErrNegativePrice
	}
	if d.OriginalPrice < 0 {
		return ErrNegativeOriginalPrice
	}
	if strings.TrimSpace(d.Translations.EN.Name) == "" || strings.TrimSpace(d.Translations.FR.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Clone returns a deep copy so adapters never share feature slices.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Features = append([]string(nil), p.Features...)
	return &clone
}

// DiscountPercent is the rounded markdown from OriginalPrice to Price, or 0
// when there is none.
func (d ProductDraft) DiscountPercent() int {
	if d.OriginalPrice <= 0 || d.OriginalPrice <= d.Price {
		return 0
	}
	return int(math.Round(float64(d.OriginalPrice-d.Price) / float64(d.OriginalPrice) * 100))
}
