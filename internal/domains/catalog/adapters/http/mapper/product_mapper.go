package mapper

import (
	"time"

	catalogdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
)

// Translation is the localized copy exposed over HTTP.
type Translation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Translations struct {
	EN Translation `json:"en"`
	FR Translation `json:"fr"`
}

// ProductInput is the body accepted by the admin create/update endpoints.
type ProductInput struct {
	Price         int64        `json:"price"`
	OriginalPrice int64        `json:"originalPrice"`
	Image         string       `json:"image"`
	Features      []string     `json:"features"`
	Translations  Translations `json:"translations"`
}

// Product is the transport shape of a stored product.
type Product struct {
	ID string `json:"id"`
	ProductInput
	DiscountPercent int        `json:"discountPercent"`
	FormattedPrice  string     `json:"formattedPrice"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// ToDraft converts a transport payload into a catalog draft.
func ToDraft(in ProductInput) catalogdomain.ProductDraft {
	return catalogdomain.ProductDraft{
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Image:         in.Image,
		Features:      append([]string(nil), in.Features...),
		Translations: catalogdomain.Translations{
			EN: catalogdomain.Translation(in.Translations.EN),
			FR: catalogdomain.Translation(in.Translations.FR),
		},
	}
}

// FromDomainProduct converts a stored product to its transport representation.
func FromDomainProduct(p *catalogdomain.Product) Product {
	if p == nil {
		return Product{}
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	out := Product{
		ID: p.ID,
		ProductInput: ProductInput{
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Image:         p.Image,
			Features:      append([]string{}, features...),
			Translations: Translations{
				EN: Translation(p.Translations.EN),
				FR: Translation(p.Translations.FR),
			},
		},
		DiscountPercent: p.DiscountPercent(),
		FormattedPrice:  catalogdomain.FormatPrice(p.Price),
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		out.CreatedAt = &created
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

func FromDomainProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomainProduct(p))
	}
	return out
}

// CartLine is one requested quote line.
type CartLine struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

type QuoteRequest struct {
	Items     []CartLine `json:"items" binding:"required"`
	PromoCode string     `json:"promoCode"`
}

type QuoteLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	Total     int64  `json:"total"`
}

type Quote struct {
	Lines          []QuoteLine `json:"lines"`
	Subtotal       int64       `json:"subtotal"`
	PromoCode      string      `json:"promoCode,omitempty"`
	Discount       int64       `json:"discount"`
	Total          int64       `json:"total"`
	FormattedTotal string      `json:"formattedTotal"`
}

func ToCartLines(req QuoteRequest) []catalogports.CartLine {
	lines := make([]catalogports.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, catalogports.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

func FromDomainQuote(q catalogdomain.Quote) Quote {
	lines := make([]QuoteLine, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, QuoteLine{ProductID: l.ProductID, Name: l.Name, UnitPrice: l.UnitPrice, Quantity: l.Quantity, Total: l.Total()})
	}
	return Quote{
		Lines:          lines,
		Subtotal:       q.Subtotal,
		PromoCode:      q.PromoCode,
		Discount:       q.Discount,
		Total:          q.Total,
		FormattedTotal: catalogdomain.FormatPrice(q.Total),
	}
}
