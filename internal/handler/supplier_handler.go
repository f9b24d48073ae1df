package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// SupplierHandler handles supplier HTTP endpoints.
type SupplierHandler struct {
	supplierService *service.SupplierService
}

// NewSupplierHandler constructs a SupplierHandler.
func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// ListSuppliers handles GET /v1/suppliers
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve suppliers")
		return
	}
	utils.Success(c, 200, "Suppliers retrieved", suppliers)
}

// GetSupplier handles GET /v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve supplier")
		return
	}
	utils.Success(c, 200, "Supplier retrieved", supplier)
}

// CreateSupplier handles POST /v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create supplier")
		return
	}
	utils.Success(c, 201, "Supplier created successfully", supplier)
}

// UpdateSupplier handles PUT /v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update supplier")
		return
	}
	utils.Success(c, 200, "Supplier updated successfully", supplier)
}

// DeleteSupplier handles DELETE /v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete supplier")
		return
	}
	utils.Success(c, 200, "Supplier deleted successfully", nil)
}
