package handler

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/pantry_api/internal/catalog"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{utils.ErrSupplierNotFound, http.StatusNotFound, "SUPPLIER_NOT_FOUND"},
	{utils.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{utils.ErrIngredientNotFound, http.StatusNotFound, "INGREDIENT_NOT_FOUND"},
	{utils.ErrRecipeNotFound, http.StatusNotFound, "RECIPE_NOT_FOUND"},
	{utils.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{utils.ErrJobNotFound, http.StatusNotFound, "JOB_NOT_FOUND"},
	{utils.ErrUnrecognizedFormat, http.StatusBadRequest, "UNRECOGNIZED_FORMAT"},
	{utils.ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
	{catalog.ErrMalformedPrice, http.StatusBadRequest, "MALFORMED_PRICE"},
	{catalog.ErrInvalidEncoding, http.StatusBadRequest, "INVALID_ENCODING"},
	{repository.ErrInvalidReference, http.StatusBadRequest, "INVALID_REFERENCE"},
	{repository.ErrInvalidValue, http.StatusBadRequest, "INVALID_VALUE"},
	{repository.ErrDuplicate, http.StatusConflict, "DUPLICATE_ENTRY"},
	{utils.ErrFormatNotSupported, http.StatusNotImplemented, "FORMAT_NOT_SUPPORTED"},
	{utils.ErrNotImplemented, http.StatusNotImplemented, "NOT_IMPLEMENTED"},
}

// respondError maps a service error onto the response envelope. Unknown
// errors are logged and reported as fallback.
func respondError(c *gin.Context, err error, fallback string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.Error(c, m.status, m.code, err.Error())
			return
		}
	}

	var parseErr *csv.ParseError
	switch {
	case errors.As(err, &parseErr):
		utils.Error(c, http.StatusBadRequest, "MALFORMED_CATALOG", err.Error())
	case errors.Is(err, utils.ErrArchiveDisabled):
		utils.Error(c, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "Catalog archive is not configured")
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg(fallback)
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

// bindJSON decodes the request body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return false
	}
	return true
}
