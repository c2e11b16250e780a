package repository

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/app/store/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository создает новый репозиторий поставщиков
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

// Create создает нового поставщика
func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	result := r.db.WithContext(ctx).Create(supplier)
	return result.Error
}

// GetByID получает поставщика по ID
func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	var supplier entity.Supplier
	result := r.db.WithContext(ctx).First(&supplier, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, result.Error
	}

	return &supplier, nil
}

// GetAll получает всех поставщиков, отсортированных по имени
func (r *supplierRepository) GetAll(ctx context.Context) ([]entity.Supplier, error) {
	var suppliers []entity.Supplier
	result := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers)

	if result.Error != nil {
		return nil, result.Error
	}

	return suppliers, nil
}

// Update обновляет поставщика
func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	result := r.db.WithContext(ctx).Model(supplier).
		Where("id = ?", supplier.ID).
		Updates(map[string]interface{}{
			"name":  supplier.Name,
			"email": supplier.Email,
			"phone": supplier.Phone,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

// Delete удаляет поставщика. Отвязку его товаров выполняет вызывающий -
// явный шаг политики Unlink в той же транзакции.
func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Supplier{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

// ExistsByEmailFold проверяет занятость email без учёта регистра
func (r *supplierRepository) ExistsByEmailFold(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// Count возвращает общее количество поставщиков
func (r *supplierRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Supplier{}).Count(&count).Error
	return count, err
}
