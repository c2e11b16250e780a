package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	SKU         string          `json:"sku" validate:"omitempty,len=6"`
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	SupplierID  *uuid.UUID      `json:"supplier_id" validate:"omitempty"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	SKU         string          `json:"sku" validate:"omitempty,len=6"`
	CategoryID  uuid.UUID       `json:"category_id" validate:"omitempty"`
	SupplierID  *uuid.UUID      `json:"supplier_id" validate:"omitempty"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type DecreaseStockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type TransferProductsRequest struct {
	FromCategoryID uuid.UUID `json:"from_category_id" validate:"required"`
	ToCategoryID   uuid.UUID `json:"to_category_id" validate:"required"`
}

type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
}

type UpdateSupplierRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
}

// CreateOrderRequest - позиции передаются картой productID -> количество,
// ключи - UUID товаров в текстовом виде
type CreateOrderRequest struct {
	CustomerName  string         `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string         `json:"customer_email" validate:"omitempty,email,max=200"`
	Items         map[string]int `json:"items" validate:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// ProductPageResponse - страница товаров с метаданными пагинации.
// TotalElements считается отдельным COUNT-запросом с теми же фильтрами.
type ProductPageResponse struct {
	Products      []Product `json:"products"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"total_elements"`
	TotalPages    int       `json:"total_pages"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type SupplierListResponse struct {
	Suppliers []Supplier `json:"suppliers"`
	Total     int        `json:"total"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type RevenueResponse struct {
	Revenue decimal.Decimal `json:"revenue"`
}
