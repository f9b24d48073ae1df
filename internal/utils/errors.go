package utils

import "errors"

// Common application errors used across services.
var (
	ErrSupplierNotFound   = errors.New("SUPPLIER_NOT_FOUND")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrIngredientNotFound = errors.New("INGREDIENT_NOT_FOUND")
	ErrRecipeNotFound     = errors.New("RECIPE_NOT_FOUND")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
	ErrJobNotFound        = errors.New("JOB_NOT_FOUND")

	// ErrFormatNotSupported marks a known catalog format that has no parser yet.
	ErrFormatNotSupported = errors.New("FORMAT_NOT_SUPPORTED")
	// ErrUnrecognizedFormat marks a file extension the ingester does not know.
	ErrUnrecognizedFormat = errors.New("UNRECOGNIZED_FORMAT")
	ErrNotImplemented     = errors.New("NOT_IMPLEMENTED")
	ErrArchiveDisabled    = errors.New("ARCHIVE_DISABLED")
	ErrInvalidRequest     = errors.New("INVALID_REQUEST")
)
