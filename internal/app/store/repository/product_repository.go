package repository

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/app/store/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	return result.Error
}

// GetByID получает товар по ID без связей
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetByIDJoined получает товар вместе с категорией и поставщиком одним запросом
func (r *productRepository) GetByIDJoined(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		First(&product, `"products"."id" = ?`, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetByIDForUpdate получает товар с блокировкой строки.
// Конкурентные списания одного товара сериализуются на этой блокировке:
// проигравший увидит уже уменьшенный остаток.
func (r *productRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetAllJoined получает все товары с категориями и поставщиками одним запросом
func (r *productRepository) GetAllJoined(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Order(`"products"."created_at" DESC`).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetAllBare получает все товары без связей - второй запрос за категорией
// или поставщиком остаётся на совести вызывающего
func (r *productRepository) GetAllBare(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetPage возвращает страницу товаров и общее количество.
// COUNT выполняется отдельным запросом без JOIN - критерии фильтра совпадают.
func (r *productRepository) GetPage(ctx context.Context, offset, limit int) ([]entity.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Order(`"products"."created_at" DESC`).
		Offset(offset).
		Limit(limit).
		Find(&products)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return products, total, nil
}

// Update обновляет товар: явный save загруженной и изменённой сущности
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(product).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"sku":         product.SKU,
			"category_id": product.CategoryID,
			"supplier_id": product.SupplierID,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateStock записывает новое значение остатка
func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", newStock)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// ExistsBySKU проверяет занятость SKU, excludeID исключает сам товар при обновлении
func (r *productRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Product{}).Where("sku = ?", sku)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// FindByCategoryID получает товары категории со связями
func (r *productRepository) FindByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Where(`"products"."category_id" = ?`, categoryID).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// FindBySupplierID получает товары поставщика со связями
func (r *productRepository) FindBySupplierID(ctx context.Context, supplierID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Where(`"products"."supplier_id" = ?`, supplierID).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// SearchByName ищет товары по подстроке в имени без учёта регистра
func (r *productRepository) SearchByName(ctx context.Context, keyword string) ([]entity.Product, error) {
	var products []entity.Product
	pattern := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Where(`LOWER("products"."name") LIKE ?`, pattern).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// FindByPriceRange получает товары с ценой в диапазоне [min, max], по возрастанию цены
func (r *productRepository) FindByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Where(`"products"."price" BETWEEN ? AND ?`, min, max).
		Order(`"products"."price" ASC`).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// DeleteByCategoryID удаляет все товары категории, возвращает количество удалённых
func (r *productRepository) DeleteByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "category_id = ?", categoryID)
	return result.RowsAffected, result.Error
}

// UnlinkSupplier обнуляет ссылку на поставщика у всех его товаров
func (r *productRepository) UnlinkSupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("supplier_id = ?", supplierID).
		Update("supplier_id", nil)
	return result.RowsAffected, result.Error
}

// ReassignCategory переводит все товары из одной категории в другую
func (r *productRepository) ReassignCategory(ctx context.Context, fromCategoryID, toCategoryID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("category_id = ?", fromCategoryID).
		Update("category_id", toCategoryID)
	return result.RowsAffected, result.Error
}

// TopExpensive получает N самых дорогих товаров со связями
func (r *productRepository) TopExpensive(ctx context.Context, limit int) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Order(`"products"."price" DESC`).
		Limit(limit).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// NeverOrdered получает товары, ни разу не встречавшиеся в позициях заказов.
// Если позиций нет вообще, подзапрос пуст и возвращаются все товары.
func (r *productRepository) NeverOrdered(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("Category").
		Joins("Supplier").
		Where(`"products"."id" NOT IN (SELECT product_id FROM order_items)`).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// CountOrderItemRefs считает позиции заказов, ссылающиеся на товар
func (r *productRepository) CountOrderItemRefs(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// Count возвращает общее количество товаров
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count).Error
	return count, err
}
