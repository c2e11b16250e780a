package service

import (
	"context"

	"storefront/internal/app/store/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAllProducts(ctx context.Context) ([]entity.Product, error)
	GetAllProductsSlow(ctx context.Context) ([]entity.Product, error)
	GetProductsPage(ctx context.Context, page, size int) (*entity.ProductPageResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*entity.Product, error)
	DecreaseStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]entity.Product, error)
	GetProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]entity.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error)
	GetProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	TransferProducts(ctx context.Context, fromID, toID uuid.UUID) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
}

type SupplierServiceInterface interface {
	CreateSupplier(ctx context.Context, req *entity.CreateSupplierRequest) (*entity.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	GetAllSuppliers(ctx context.Context) ([]entity.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req *entity.UpdateSupplierRequest) (*entity.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	CountSuppliers(ctx context.Context) (int64, error)
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetAllOrders(ctx context.Context) ([]entity.Order, error)
	GetOrdersByCustomerEmail(ctx context.Context, email string) ([]entity.Order, error)
	GetOrdersByStatus(ctx context.Context, status string) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	CountOrders(ctx context.Context) (int64, error)
}

type StatsServiceInterface interface {
	CountProductsByCategory(ctx context.Context) ([]entity.CategoryCount, error)
	AvgPriceByCategory(ctx context.Context) ([]entity.CategoryAvgPrice, error)
	CategoryStats(ctx context.Context) ([]entity.CategoryStats, error)
	TopExpensiveProducts(ctx context.Context, limit int) ([]entity.Product, error)
	NeverOrderedProducts(ctx context.Context) ([]entity.Product, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	CountOrdersByStatus(ctx context.Context) ([]entity.StatusCount, error)
	MostOrderedProducts(ctx context.Context, limit int) ([]entity.ProductOrderCount, error)
}
