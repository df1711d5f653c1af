package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Currency is the suffix used when rendering amounts.
const Currency = "FCFA"

var (
	ErrUnknownPromoCode = errors.New("promo code is not recognised")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrQuoteOverflow    = errors.New("quote amount exceeds the supported range")
)

var promoRates = map[string]int64{
	"WELCOME10": 10,
	"SPECIAL20": 20,
	"VIP30":     30,
}

// PromoRate returns the percentage discount of code. Codes are case-insensitive.
func PromoRate(code string) (int64, error) {
	rate, ok := promoRates[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrUnknownPromoCode
	}
	return rate, nil
}

// FormatPrice renders an amount as "12 500 FCFA".
func FormatPrice(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " " + Currency
}

// QuoteLine is one cart line priced from the catalog.
type QuoteLine struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int64
}

// Total is UnitPrice times Quantity.
func (l QuoteLine) Total() int64 { return l.UnitPrice * l.Quantity }

// Quote is a priced cart.
type Quote struct {
	Lines     []QuoteLine
	Subtotal  int64
	PromoCode string
	Discount  int64
	Total     int64
}

// NewQuote prices lines and applies an optional promo code. The discount is
// truncated to whole FCFA. Amounts that do not fit in an int64 are rejected
// with ErrQuoteOverflow.
func NewQuote(lines []QuoteLine, promoCode string) (Quote, error) {
	quote := Quote{Lines: lines}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Quote{}, ErrInvalidQuantity
		}
		if line.UnitPrice < 0 || line.UnitPrice > math.MaxInt64/line.Quantity {
			return Quote{}, ErrQuoteOverflow
		}
		total := line.Total()
		if quote.Subtotal > math.MaxInt64-total {
			return Quote{}, ErrQuoteOverflow
		}
		quote.Subtotal += total
	}
	if code := strings.TrimSpace(promoCode); code != "" {
		rate, err := PromoRate(code)
		if err != nil {
			return Quote{}, err
		}
		quote.PromoCode = strings.ToUpper(code)
		// Split so Subtotal*rate cannot overflow.
		quote.Discount = quote.Subtotal/100*rate + quote.Subtotal%100*rate/100
	}
	quote.Total = quote.Subtotal - quote.Discount
	return quote, nil
}
