package service

import "errors"

// Бизнес-ошибки сервисного слоя. Хендлеры маппят их на HTTP-статусы.
var (
	ErrValidation              = errors.New("validation failed")
	ErrProductNotFound         = errors.New("product not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrSupplierNotFound        = errors.New("supplier not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrDuplicateSKU            = errors.New("product with this sku already exists")
	ErrDuplicateCategoryName   = errors.New("category with this name already exists")
	ErrDuplicateSupplierEmail  = errors.New("supplier with this email already exists")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrProductReferenced       = errors.New("product is referenced by orders")
)
