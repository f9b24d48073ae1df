// Package gtin classifies and validates GS1 trade item identifiers
// (UPC-A, GTIN-13, GTIN-14) printed on supplier price lists.
package gtin

import (
	"errors"
	"strings"
)

// Type is the classification of a raw identifier.
type Type string

const (
	TypeUPC    Type = "upc"
	TypeGTIN13 Type = "gtin13"
	TypeGTIN14 Type = "gtin14"
	TypeSKU    Type = "sku"
)

var (
	// ErrUnsupportedLength is returned when an identifier does not have 12, 13 or 14 digits.
	ErrUnsupportedLength = errors.New("unsupported GTIN length")
	// ErrNotNumeric is returned when an identifier contains non-digit characters.
	ErrNotNumeric = errors.New("identifier must be numeric")
)

// DetectType classifies raw by its digit count after stripping every
// non-digit character. Anything that is not 12, 13 or 14 digits is a SKU.
func DetectType(raw string) Type {
	switch len(digitsOnly(raw)) {
	case 12:
		return TypeUPC
	case 13:
		return TypeGTIN13
	case 14:
		return TypeGTIN14
	default:
		return TypeSKU
	}
}

// CheckDigit computes the mod-10 check digit for payload, the identifier
// without its trailing check digit. Digits are weighted 3,1,3,... starting
// from the rightmost payload digit.
func CheckDigit(payload string) (int, error) {
	sum := 0
	for pos := 1; pos <= len(payload); pos++ {
		c := payload[len(payload)-pos]
		if !isDigit(c) {
			return 0, ErrNotNumeric
		}
		d := int(c - '0')
		if pos%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10, nil
}

// Validate reports whether raw (surrounding whitespace ignored) is a 12, 13
// or 14 digit identifier whose last digit matches its computed check digit.
func Validate(raw string) bool {
	v := strings.TrimSpace(raw)
	switch len(v) {
	case 12, 13, 14:
	default:
		return false
	}
	if !isNumeric(v) {
		return false
	}
	want, err := CheckDigit(v[:len(v)-1])
	if err != nil {
		return false
	}
	return want == int(v[len(v)-1]-'0')
}

// Normalize strips non-digits and returns the remaining digit string when it
// has a supported GTIN length.
func Normalize(raw string) (string, error) {
	v := digitsOnly(raw)
	switch len(v) {
	case 12, 13, 14:
		return v, nil
	}
	return "", ErrUnsupportedLength
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
