package handler

import (
	"errors"
	"net/http"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SupplierHandler обрабатывает HTTP запросы для поставщиков с использованием Gin
type SupplierHandler struct {
	supplierService service.SupplierServiceInterface
	productService  service.ProductServiceInterface
	validator       *validator.Validate
}

// NewSupplierHandler создает новый обработчик поставщиков
func NewSupplierHandler(
	supplierService service.SupplierServiceInterface,
	productService service.ProductServiceInterface,
) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		productService:  productService,
		validator:       validator.New(),
	}
}

// CreateSupplier обрабатывает POST /suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req entity.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDuplicateSupplierEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "Supplier with this email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		}
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// GetSupplier обрабатывает GET /suppliers/{id}
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get supplier"})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// GetAllSuppliers обрабатывает GET /suppliers
func (h *SupplierHandler) GetAllSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.GetAllSuppliers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get suppliers"})
		return
	}

	c.JSON(http.StatusOK, entity.SupplierListResponse{Suppliers: suppliers, Total: len(suppliers)})
}

// UpdateSupplier обрабатывает PUT /suppliers/{id}
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var req entity.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSupplierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		case errors.Is(err, service.ErrDuplicateSupplierEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "Supplier with this email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		}
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier обрабатывает DELETE /suppliers/{id}
// Товары поставщика остаются в каталоге без поставщика
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Supplier deleted, products kept"})
}

// GetSupplierProducts обрабатывает GET /suppliers/{id}/products
func (h *SupplierHandler) GetSupplierProducts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	products, err := h.productService.GetProductsBySupplier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get supplier products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{Products: products, Total: len(products)})
}

// CountSuppliers обрабатывает GET /suppliers/count
func (h *SupplierHandler) CountSuppliers(c *gin.Context) {
	count, err := h.supplierService.CountSuppliers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count suppliers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
