package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedPrice is returned when a price cell has no numeric reading.
var ErrMalformedPrice = errors.New("malformed price")

var currencyMarkers = []string{"$", "€", "£", "¥"}

// plainDecimal rejects exponent forms, which decimal.NewFromString accepts.
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// NormalizePrice turns a free-text price cell into a per-unit price.
//
// Thousands separators are dropped. Multi-unit pricing such as "2/$5.00" is
// divided out to the unit price; anything else has its currency marker
// removed and is parsed as a plain decimal.
func NormalizePrice(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(value, ",", "")

	if strings.Contains(cleaned, "/") && hasCurrencyMarker(cleaned) {
		if price, ok := multiUnitPrice(cleaned); ok {
			return price, nil
		}
	}

	price, err := parseDecimal(stripCurrency(cleaned))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unable to parse price value %q", ErrMalformedPrice, value)
	}
	return price, nil
}

// multiUnitPrice parses "<quantity>/<marker><price>". A zero quantity or any
// parse failure reports ok=false so the caller falls back to plain parsing.
func multiUnitPrice(s string) (decimal.Decimal, bool) {
	qtyPart, pricePart, _ := strings.Cut(s, "/")
	if strings.Contains(pricePart, "/") {
		return decimal.Zero, false
	}

	qty, err := parseDecimal(qtyPart)
	if err != nil || qty.IsZero() {
		return decimal.Zero, false
	}
	price, err := parseDecimal(stripCurrency(pricePart))
	if err != nil {
		return decimal.Zero, false
	}
	return price.Div(qty), true
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !plainDecimal.MatchString(s) {
		return decimal.Zero, ErrMalformedPrice
	}
	return decimal.NewFromString(s)
}

func hasCurrencyMarker(s string) bool {
	for _, m := range currencyMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func stripCurrency(s string) string {
	for _, m := range currencyMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	return s
}
