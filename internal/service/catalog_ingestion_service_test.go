package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/pantry_api/internal/catalog"
	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

func TestHandleUpload_CSVCreatesProductsAndHistory(t *testing.T) {
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme Foods")
	svc := NewCatalogIngestionService(store, "")

	content := "name,price,sku,unit,package_size\nFlour,$12.50,FL-1,bag,25 lb\nSugar,3.00,SU-1,lb,\n"
	res, err := svc.HandleUpload(context.Background(), supplier.ID, "prices.CSV", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 2, res.ProductsCreated)
	assert.Equal(t, "csv", res.Format)

	products, err := store.ListProducts(context.Background(), supplier.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)

	byName := map[string]models.Product{}
	for _, p := range products {
		byName[p.Name] = p
	}
	flour := byName["Flour"]
	assert.True(t, dec("12.50").Equal(flour.Price))
	assert.Equal(t, catalog.DefaultCurrency, flour.Currency)

	history, err := store.ListPriceHistory(context.Background(), flour.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, dec("12.50").Equal(history[0].Price))
	require.NotNil(t, history[0].IsBulk)
	assert.Equal(t, models.BulkPriceTag, *history[0].IsBulk)
	require.NotNil(t, history[0].SupplierID)
	assert.Equal(t, supplier.ID, *history[0].SupplierID)

	history, err = store.ListPriceHistory(context.Background(), byName["Sugar"].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].IsBulk)
}

func TestHandleUpload_TSVUsesConfiguredCurrency(t *testing.T) {
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Nordic")
	svc := NewCatalogIngestionService(store, "EUR")

	res, err := svc.HandleUpload(context.Background(), supplier.ID, "list.tsv", strings.NewReader("product\tcost\nButter\t4.25\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)

	products, err := store.ListProducts(context.Background(), supplier.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "EUR", products[0].Currency)
}

func TestHandleUpload_UnknownSupplier(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCatalogIngestionService(store, "")

	_, err := svc.HandleUpload(context.Background(), "missing", "prices.csv", strings.NewReader("name,price\nFlour,1\n"))
	assert.ErrorIs(t, err, utils.ErrSupplierNotFound)
}

func TestHandleUpload_FormatErrors(t *testing.T) {
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme")
	svc := NewCatalogIngestionService(store, "")

	tests := []struct {
		filename string
		want     error
		contains string
	}{
		{"prices.xlsx", utils.ErrFormatNotSupported, "excel"},
		{"prices.xls", utils.ErrFormatNotSupported, "excel"},
		{"prices.pdf", utils.ErrFormatNotSupported, "pdf"},
		{"prices.docx", utils.ErrUnrecognizedFormat, `"docx"`},
		{"README", utils.ErrUnrecognizedFormat, `"readme"`},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			_, err := svc.HandleUpload(context.Background(), supplier.ID, tt.filename, strings.NewReader("name,price\nFlour,1\n"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	products, err := store.ListProducts(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestHandleUpload_MalformedPriceRollsBack(t *testing.T) {
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme")
	svc := NewCatalogIngestionService(store, "")

	content := "name,price\nFlour,1.00\nSugar,abc\nSalt,0.50\n"
	_, err := svc.HandleUpload(context.Background(), supplier.ID, "prices.csv", strings.NewReader(content))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMalformedPrice)

	products, err := store.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestHandleUpload_EmptyFile(t *testing.T) {
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme")
	svc := NewCatalogIngestionService(store, "")

	res, err := svc.HandleUpload(context.Background(), supplier.ID, "prices.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, res.ProductsCreated)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "csv", FileExtension("a.b.CSV"))
	assert.Equal(t, "tsv", FileExtension("list.tsv"))
	assert.Equal(t, "readme", FileExtension("README"))
	assert.Equal(t, "", FileExtension("trailing."))
}
