package repository

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/app/store/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create сохраняет заказ вместе с позициями: GORM вставляет Items по ассоциации,
// заказ и позиции попадают в БД одной записью
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	return result.Error
}

// GetByID получает заказ по ID без позиций
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// GetWithItems получает заказ с позициями и товарами.
// Preload грузит позиции и связанные товары батчами по IN -
// ограниченное число запросов вместо запроса на каждую строку.
func (r *orderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Items.Product.Supplier").
		First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// GetAllWithItems получает все заказы с позициями и товарами, новые первыми
func (r *orderRepository) GetAllWithItems(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Items.Product.Supplier").
		Order("order_date DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// FindByCustomerEmail получает заказы клиента по email без учёта регистра
func (r *orderRepository) FindByCustomerEmail(ctx context.Context, email string) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("LOWER(customer_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("order_date DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// FindByStatus получает заказы в заданном статусе, новые первыми
func (r *orderRepository) FindByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("order_date DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// UpdateStatus записывает новый статус заказа.
// Условие по текущему статусу делает запись compare-and-set:
// параллельное обновление не может откатить уже продвинутый статус.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity.Order{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrOrderNotFound
		}
		return ErrOrderStatusStale
	}

	return nil
}

// Delete удаляет заказ и его позиции одной транзакцией.
// Позиции удаляются явным шагом, а не каскадом схемы.
// Остатки товаров при этом не восстанавливаются.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}

		return nil
	})
}

// Count возвращает общее количество заказов
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&count).Error
	return count, err
}
