package service

import (
	"context"
	"fmt"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/repository"

	"github.com/shopspring/decimal"
)

// StatsService отдаёт агрегированную статистику каталога и заказов
// Агрегации считает база; сервис только валидирует параметры и округляет
type StatsService struct {
	statsRepo   repository.StatsRepository
	productRepo repository.ProductRepository
}

// NewStatsService создает новый сервис статистики с внедрением зависимостей
func NewStatsService(statsRepo repository.StatsRepository, productRepo repository.ProductRepository) *StatsService {
	return &StatsService{
		statsRepo:   statsRepo,
		productRepo: productRepo,
	}
}

// CountProductsByCategory возвращает количество товаров по категориям
// Категории без товаров не включаются
func (s *StatsService) CountProductsByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	counts, err := s.statsRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	return counts, nil
}

// AvgPriceByCategory возвращает среднюю цену товаров по категориям
// Средняя округляется до двух знаков
func (s *StatsService) AvgPriceByCategory(ctx context.Context) ([]entity.CategoryAvgPrice, error) {
	rows, err := s.statsRepo.AvgPriceByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get average prices: %w", err)
	}
	for i := range rows {
		rows[i].AveragePrice = rows[i].AveragePrice.Round(2)
	}
	return rows, nil
}

// CategoryStats возвращает количество товаров и среднюю цену по категориям
func (s *StatsService) CategoryStats(ctx context.Context) ([]entity.CategoryStats, error) {
	rows, err := s.statsRepo.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}
	for i := range rows {
		rows[i].AveragePrice = rows[i].AveragePrice.Round(2)
	}
	return rows, nil
}

// TopExpensiveProducts возвращает limit самых дорогих товаров
func (s *StatsService) TopExpensiveProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be greater than zero", ErrValidation)
	}
	products, err := s.productRepo.TopExpensive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top expensive products: %w", err)
	}
	return products, nil
}

// NeverOrderedProducts возвращает товары, которых нет ни в одном заказе
func (s *StatsService) NeverOrderedProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.NeverOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get never ordered products: %w", err)
	}
	return products, nil
}

// Revenue возвращает суммарную выручку по доставленным заказам
// Заказы в пути выручкой не считаются; без доставленных заказов - ноль
func (s *StatsService) Revenue(ctx context.Context) (decimal.Decimal, error) {
	revenue, err := s.statsRepo.Revenue(ctx, entity.OrderStatusDelivered)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get revenue: %w", err)
	}
	return revenue, nil
}

// CountOrdersByStatus возвращает количество заказов в каждом статусе
func (s *StatsService) CountOrdersByStatus(ctx context.Context) ([]entity.StatusCount, error) {
	counts, err := s.statsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return counts, nil
}

// MostOrderedProducts возвращает товары с наибольшим заказанным количеством
func (s *StatsService) MostOrderedProducts(ctx context.Context, limit int) ([]entity.ProductOrderCount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be greater than zero", ErrValidation)
	}
	rows, err := s.statsRepo.MostOrdered(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get most ordered products: %w", err)
	}
	return rows, nil
}
