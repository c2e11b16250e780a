package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/repository"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nextStatus задаёт единственный допустимый переход для каждого статуса.
// DELIVERED - финальный, из него переходов нет.
var nextStatus = map[entity.OrderStatus]entity.OrderStatus{
	entity.OrderStatusPending:   entity.OrderStatusConfirmed,
	entity.OrderStatusConfirmed: entity.OrderStatusShipped,
	entity.OrderStatusShipped:   entity.OrderStatusDelivered,
}

// OrderService обрабатывает бизнес-логику заказов
// Оформление заказа резервирует остатки сразу, в одной транзакции с созданием
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	txScope     repository.TransactionScope
}

// NewOrderService создает новый сервис заказов с внедрением зависимостей
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	txScope repository.TransactionScope,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// generateOrderNumber собирает номер заказа: ORD-<дата>-<8 hex-символов>
// Случайная часть берётся из UUID, коллизию отлавливает уникальный индекс
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// CreateOrder оформляет заказ
// Каждая позиция обрабатывается в одной транзакции: строка товара
// блокируется, остаток проверяется и списывается сразу, цена фиксируется
// на момент оформления. Товары обходятся в отсортированном порядке ID,
// чтобы два конкурирующих заказа не взяли блокировки навстречу друг другу.
func (s *OrderService) CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name must not be blank", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	// Разбираем и сортируем ID товаров до входа в транзакцию
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	quantities := make(map[uuid.UUID]int, len(req.Items))
	for key, qty := range req.Items {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id %q", ErrValidation, key)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be greater than zero", ErrValidation, key)
		}
		productIDs = append(productIDs, id)
		quantities[id] = qty
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	var customerEmail *string
	if req.CustomerEmail != "" {
		v := req.CustomerEmail
		customerEmail = &v
	}

	now := time.Now()
	order := &entity.Order{
		ID:            uuid.New(),
		OrderNumber:   generateOrderNumber(now),
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Status:        entity.OrderStatusPending,
		OrderDate:     now,
	}

	err := s.txScope.Execute(ctx, func(repos repository.TxRepositories) error {
		total := decimal.Zero
		items := make([]entity.OrderItem, 0, len(productIDs))

		for _, productID := range productIDs {
			qty := quantities[productID]

			product, err := repos.Products().GetByIDForUpdate(ctx, productID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
				}
				return fmt.Errorf("failed to lock product: %w", err)
			}

			if product.Stock < qty {
				metrics.StockRejections.Inc()
				return fmt.Errorf("%w: product %s has %d, requested %d",
					ErrInsufficientStock, product.Name, product.Stock, qty)
			}

			if err := repos.Products().UpdateStock(ctx, productID, product.Stock-qty); err != nil {
				return fmt.Errorf("failed to decrease stock: %w", err)
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
			items = append(items, entity.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: productID,
				Quantity:  qty,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		order.Items = items
		order.TotalAmount = total

		if err := repos.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("total_amount", order.TotalAmount.String()).
		Int("items", len(order.Items)).
		Msg("Order created")

	return order, nil
}

// GetOrder получает заказ вместе с позициями и товарами
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetAllOrders получает все заказы с позициями
func (s *OrderService) GetAllOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetAllWithItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetOrdersByCustomerEmail получает заказы покупателя по email без учёта регистра
func (s *OrderService) GetOrdersByCustomerEmail(ctx context.Context, email string) ([]entity.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email must not be blank", ErrValidation)
	}
	orders, err := s.orderRepo.FindByCustomerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by email: %w", err)
	}
	return orders, nil
}

// GetOrdersByStatus получает заказы в указанном статусе
func (s *OrderService) GetOrdersByStatus(ctx context.Context, status string) ([]entity.Order, error) {
	parsed, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	orders, err := s.orderRepo.FindByStatus(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by status: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus переводит заказ в новый статус
// Допустим только следующий шаг цепочки; повторная установка текущего
// статуса - no-op, прыжки и откаты запрещены
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error) {
	target, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status == target {
		return order, nil
	}

	if next, ok := nextStatus[order.Status]; !ok || next != target {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, target)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, target); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		if errors.Is(err, repository.ErrOrderStatusStale) {
			return nil, fmt.Errorf("%w: order status changed concurrently", ErrInvalidStatusTransition)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = target
	metrics.OrderStatusChanges.WithLabelValues(string(target)).Inc()
	logger.Info().
		Str("order_id", id.String()).
		Str("status", string(target)).
		Msg("Order status updated")

	return order, nil
}

// DeleteOrder удаляет заказ вместе с позициями
// Списанные остатки не возвращаются: удаление - архивная операция,
// а не отмена заказа
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to get order: %w", err)
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

// CountOrders возвращает общее количество заказов
func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	count, err := s.orderRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
