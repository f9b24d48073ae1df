package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/GTDGit/pantry_api/pkg/gtin"
)

// ErrInvalidEncoding is returned when a price list is not valid UTF-8.
var ErrInvalidEncoding = errors.New("catalog content is not valid UTF-8")

// Column aliases, checked in order.
var (
	nameColumns       = []string{"name", "product", "description"}
	priceColumns      = []string{"price", "cost"}
	skuColumns        = []string{"sku", "item_number"}
	unitColumns       = []string{"unit"}
	identifierColumns = []string{"upc", "gtin"}
	packageColumns    = []string{"package_size"}
)

// Config controls how a price list is read.
type Config struct {
	// Delimiter separates cells; ',' when zero.
	Delimiter rune
	// Currency is stamped on every record; DefaultCurrency when empty.
	Currency string
}

// Parser reads a delimited price list with a header row and yields one
// Product per usable data row. It consumes the underlying reader as it
// goes and cannot be rewound.
type Parser struct {
	reader   *csv.Reader
	currency string
	header   map[string]int
	done     bool
}

// NewParser creates a Parser over r.
func NewParser(r io.Reader, cfg Config) *Parser {
	cr := csv.NewReader(r)
	if cfg.Delimiter != 0 {
		cr.Comma = cfg.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Parser{reader: cr, currency: currency}
}

// Next returns the next product. It returns io.EOF once the input is
// exhausted. Rows without a name are skipped silently; a malformed price
// ends parsing with an error wrapping ErrMalformedPrice.
func (p *Parser) Next() (*Product, error) {
	if p.done {
		return nil, io.EOF
	}
	if p.header == nil {
		if err := p.readHeader(); err != nil {
			return nil, p.fail(err)
		}
	}

	for {
		record, err := p.reader.Read()
		if err != nil {
			return nil, p.fail(err)
		}
		line, _ := p.reader.FieldPos(0)
		if err := checkEncoding(record); err != nil {
			return nil, p.fail(fmt.Errorf("line %d: %w", line, err))
		}

		product, err := p.buildProduct(record)
		if err != nil {
			return nil, p.fail(fmt.Errorf("line %d: %w", line, err))
		}
		if product != nil {
			return product, nil
		}
	}
}

func (p *Parser) readHeader() error {
	record, err := p.reader.Read()
	if err != nil {
		return err
	}
	if err := checkEncoding(record); err != nil {
		return err
	}

	p.header = make(map[string]int, len(record))
	for i, col := range record {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		p.header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return nil
}

// buildProduct maps one data row. A nil product with a nil error means the
// row carries no name and is skipped.
func (p *Parser) buildProduct(record []string) (*Product, error) {
	name, ok := p.lookup(record, nameColumns)
	if !ok {
		return nil, nil
	}

	priceText, ok := p.lookup(record, priceColumns)
	if !ok {
		priceText = "0"
	}
	price, err := NormalizePrice(priceText)
	if err != nil {
		return nil, err
	}

	sku, ok := p.lookup(record, skuColumns)
	if !ok {
		sku = uuid.NewString()
	}
	unit, ok := p.lookup(record, unitColumns)
	if !ok {
		unit = DefaultUnit
	}

	product := &Product{
		Name:     name,
		Price:    price,
		Unit:     unit,
		SKU:      sku,
		Currency: p.currency,
	}

	if id, ok := p.lookup(record, identifierColumns); ok {
		switch gtin.DetectType(id) {
		case gtin.TypeUPC:
			if gtin.Validate(id) {
				product.UPC = &id
			}
		case gtin.TypeGTIN13, gtin.TypeGTIN14:
			if gtin.Validate(id) {
				product.GTIN = &id
			}
		}
	}
	if size, ok := p.lookup(record, packageColumns); ok {
		product.PackageSize = &size
	}
	return product, nil
}

// lookup returns the first non-blank cell among the given column aliases.
func (p *Parser) lookup(record []string, columns []string) (string, bool) {
	for _, col := range columns {
		idx, ok := p.header[col]
		if !ok || idx >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[idx]); v != "" {
			return v, true
		}
	}
	return "", false
}

func (p *Parser) fail(err error) error {
	p.done = true
	return err
}

func checkEncoding(record []string) error {
	for _, cell := range record {
		if !utf8.ValidString(cell) {
			return ErrInvalidEncoding
		}
	}
	return nil
}
