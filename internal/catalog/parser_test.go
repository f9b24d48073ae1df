package catalog

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, content string, cfg Config) ([]*Product, error) {
	t.Helper()
	p := NewParser(strings.NewReader(content), cfg)
	var out []*Product
	for {
		prod, err := p.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, prod)
	}
}

func TestParser_BasicCSV(t *testing.T) {
	content := "name,price,sku,unit\nFlour,$12.50,FL-1,bag\nSugar,2/$5.00,SU-1,lb\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Flour", products[0].Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(products[0].Price))
	assert.Equal(t, "FL-1", products[0].SKU)
	assert.Equal(t, "bag", products[0].Unit)
	assert.Equal(t, DefaultCurrency, products[0].Currency)

	assert.Equal(t, "Sugar", products[1].Name)
	assert.True(t, decimal.RequireFromString("2.5").Equal(products[1].Price))
}

func TestParser_TSV(t *testing.T) {
	content := "product\tcost\titem_number\nButter\t4.25\tBT-9\n"

	products, err := parseAll(t, content, Config{Delimiter: '\t', Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Butter", products[0].Name)
	assert.Equal(t, "BT-9", products[0].SKU)
	assert.Equal(t, "EUR", products[0].Currency)
	assert.True(t, decimal.RequireFromString("4.25").Equal(products[0].Price))
}

func TestParser_ColumnFallbacks(t *testing.T) {
	content := "description,price,unit\nOlive oil,,\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Olive oil", p.Name)
	assert.True(t, p.Price.IsZero())
	assert.Equal(t, DefaultUnit, p.Unit)
	_, err = uuid.Parse(p.SKU)
	assert.NoError(t, err, "missing sku should be synthesized")
	assert.Nil(t, p.UPC)
	assert.Nil(t, p.GTIN)
	assert.Nil(t, p.PackageSize)
}

func TestParser_SkipsRowsWithoutName(t *testing.T) {
	content := "name,price\n,1.00\n   ,2.00\nEggs,3.00\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Eggs", products[0].Name)
}

func TestParser_NoNameColumn(t *testing.T) {
	content := "sku,price\nA1,1.00\nA2,2.00\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestParser_MissingPriceColumnDefaultsToZero(t *testing.T) {
	products, err := parseAll(t, "name\nSalt\n", Config{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.IsZero())
}

func TestParser_Identifiers(t *testing.T) {
	tests := []struct {
		name         string
		column       string
		value        string
		expectedUPC  *string
		expectedGTIN *string
	}{
		{"Valid UPC", "upc", "012345678905", ptr("012345678905"), nil},
		{"Invalid UPC check digit", "upc", "999999999999", nil, nil},
		{"Valid GTIN-13", "gtin", "4006381333931", nil, ptr("4006381333931")},
		{"Valid GTIN-14 in upc column", "upc", "00012345678905", nil, ptr("00012345678905")},
		{"SKU-like identifier dropped", "upc", "ABC-1", nil, nil},
		{"Separated UPC dropped", "upc", "0-12345-67890-5", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "name," + tt.column + "\nWidget," + tt.value + "\n"
			products, err := parseAll(t, content, Config{})
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, tt.expectedUPC, products[0].UPC)
			assert.Equal(t, tt.expectedGTIN, products[0].GTIN)
		})
	}
}

func TestParser_PackageSize(t *testing.T) {
	content := "name,price,package_size\nRice,10.00,25 lb\nBeans,2.00,\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.NotNil(t, products[0].PackageSize)
	assert.Equal(t, "25 lb", *products[0].PackageSize)
	assert.True(t, products[0].IsBulk())
	assert.Nil(t, products[1].PackageSize)
	assert.False(t, products[1].IsBulk())
}

func TestParser_HeaderNormalization(t *testing.T) {
	content := "\ufeff Name ,PRICE\nMilk,1.10\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk", products[0].Name)
}

func TestParser_MalformedPriceStops(t *testing.T) {
	content := "name,price\nA,1.00\nB,abc\nC,3.00\n"

	p := NewParser(strings.NewReader(content), Config{})

	first, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", first.Name)

	_, err = p.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPrice)
	assert.Contains(t, err.Error(), "line 3")

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParser_InvalidEncoding(t *testing.T) {
	content := "name,price\nBad\xff,1.00\n"

	_, err := parseAll(t, content, Config{})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestParser_ExponentPriceRejected(t *testing.T) {
	_, err := parseAll(t, "name,price\nFlour,1e400000\n", Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPrice)
}

func TestParser_EmptyInput(t *testing.T) {
	products, err := parseAll(t, "", Config{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestParser_RaggedRows(t *testing.T) {
	content := "name,price,unit\nCheese,5.00\n"

	products, err := parseAll(t, content, Config{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, DefaultUnit, products[0].Unit)
}

func ptr(s string) *string { return &s }
