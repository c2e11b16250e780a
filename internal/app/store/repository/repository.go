package repository

import (
	"context"
	"errors"

	"storefront/internal/app/store/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderStatusStale = errors.New("order status changed concurrently")
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDJoined загружает товар вместе с категорией и поставщиком одним запросом
	GetByIDJoined(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDForUpdate берёт блокировку строки (SELECT ... FOR UPDATE);
	// имеет смысл только внутри TransactionScope
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetAllJoined - быстрый путь: один запрос с JOIN на категорию и поставщика
	GetAllJoined(ctx context.Context) ([]entity.Product, error)
	// GetAllBare - отложенный путь: связи не загружаются
	GetAllBare(ctx context.Context) ([]entity.Product, error)
	// GetPage возвращает страницу товаров и общее количество
	GetPage(ctx context.Context, offset, limit int) ([]entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)
	FindByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error)
	FindBySupplierID(ctx context.Context, supplierID uuid.UUID) ([]entity.Product, error)
	SearchByName(ctx context.Context, keyword string) ([]entity.Product, error)
	FindByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]entity.Product, error)
	DeleteByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error)
	UnlinkSupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
	ReassignCategory(ctx context.Context, fromCategoryID, toCategoryID uuid.UUID) (int64, error)
	TopExpensive(ctx context.Context, limit int) ([]entity.Product, error)
	NeverOrdered(ctx context.Context) ([]entity.Product, error)
	CountOrderItemRefs(ctx context.Context, productID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByNameFold(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	GetAll(ctx context.Context) ([]entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmailFold(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями одним Create (GORM каскад по ассоциации)
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetWithItems загружает заказ с позициями, товарами и их связями
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetAllWithItems(ctx context.Context) ([]entity.Order, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]entity.Order, error)
	FindByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error)
	// UpdateStatus переводит заказ из статуса from в to (compare-and-set);
	// при конкурентном изменении статуса возвращает ErrOrderStatusStale
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// StatsRepository выполняет агрегирующие запросы напрямую через pgx,
// вне транзакционных границ записи
type StatsRepository interface {
	CountByCategory(ctx context.Context) ([]entity.CategoryCount, error)
	AvgPriceByCategory(ctx context.Context) ([]entity.CategoryAvgPrice, error)
	CategoryStats(ctx context.Context) ([]entity.CategoryStats, error)
	Revenue(ctx context.Context, status entity.OrderStatus) (decimal.Decimal, error)
	CountByStatus(ctx context.Context) ([]entity.StatusCount, error)
	MostOrdered(ctx context.Context, limit int) ([]entity.ProductOrderCount, error)
}
