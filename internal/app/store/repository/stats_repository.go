package repository

import (
	"context"
	"fmt"

	"storefront/internal/app/store/entity"
	"storefront/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// metricsService - значение метки service для метрик SQL-запросов
const metricsService = "store"

type statsRepository struct {
	pool *pgxpool.Pool // Пул соединений с PostgreSQL для агрегирующих запросов
}

// NewStatsRepository создает репозиторий агрегаций поверх pgx.
// Отчётные запросы идут напрямую в пул, мимо ORM и мимо транзакций записи.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

// CountByCategory считает товары по категориям, по убыванию количества
func (r *statsRepository) CountByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	query := `
		SELECT c.name, COUNT(p.id)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		GROUP BY c.name
		ORDER BY COUNT(p.id) DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(metricsService, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	defer rows.Close()

	var counts []entity.CategoryCount
	for rows.Next() {
		var cc entity.CategoryCount
		if err := rows.Scan(&cc.CategoryName, &cc.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}

// AvgPriceByCategory считает среднюю цену по категориям, по убыванию количества товаров.
// numeric приводится к тексту и парсится в decimal - без потери точности на float64.
func (r *statsRepository) AvgPriceByCategory(ctx context.Context) ([]entity.CategoryAvgPrice, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	query := `
		SELECT c.name, AVG(p.price)::text
		FROM products p
		JOIN categories c ON c.id = p.category_id
		GROUP BY c.name
		ORDER BY COUNT(p.id) DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(metricsService, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to average prices by category: %w", err)
	}
	defer rows.Close()

	var averages []entity.CategoryAvgPrice
	for rows.Next() {
		var name, avg string
		if err := rows.Scan(&name, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan category average: %w", err)
		}
		price, err := decimal.NewFromString(avg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse average price: %w", err)
		}
		averages = append(averages, entity.CategoryAvgPrice{CategoryName: name, AveragePrice: price})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category averages: %w", err)
	}

	return averages, nil
}

// CategoryStats получает количество и среднюю цену товаров по категориям одним запросом
func (r *statsRepository) CategoryStats(ctx context.Context) ([]entity.CategoryStats, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	query := `
		SELECT c.name, COUNT(p.id), AVG(p.price)::text
		FROM products p
		JOIN categories c ON c.id = p.category_id
		GROUP BY c.name
		ORDER BY COUNT(p.id) DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(metricsService, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}
	defer rows.Close()

	var stats []entity.CategoryStats
	for rows.Next() {
		var cs entity.CategoryStats
		var avg string
		if err := rows.Scan(&cs.CategoryName, &cs.ProductCount, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan category stats: %w", err)
		}
		price, err := decimal.NewFromString(avg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse average price: %w", err)
		}
		cs.AveragePrice = price
		stats = append(stats, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category stats: %w", err)
	}

	return stats, nil
}

// Revenue суммирует total_amount заказов в заданном статусе.
// COALESCE гарантирует 0 вместо NULL, когда подходящих заказов нет.
func (r *statsRepository) Revenue(ctx context.Context, status entity.OrderStatus) (decimal.Decimal, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	query := `SELECT COALESCE(SUM(total_amount), 0)::text FROM orders WHERE status = $1`

	var sum string
	if err := r.pool.QueryRow(ctx, query, string(status)).Scan(&sum); err != nil {
		metrics.RecordDbError(metricsService, metrics.DbOpSelect)
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}

	revenue, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse revenue: %w", err)
	}

	return revenue, nil
}

// CountByStatus считает заказы по статусам, по убыванию количества
func (r *statsRepository) CountByStatus(ctx context.Context) ([]entity.StatusCount, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	query := `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(metricsService, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	var counts []entity.StatusCount
	for rows.Next() {
		var sc entity.StatusCount
		var status string
		if err := rows.Scan(&status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		sc.Status = entity.OrderStatus(status)
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

// MostOrdered ранжирует товары по суммарному заказанному количеству
func (r *statsRepository) MostOrdered(ctx context.Context, limit int) ([]entity.ProductOrderCount, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, "order_items")
	defer timer.ObserveDuration()

	query := `
		SELECT p.name, SUM(oi.quantity)
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		metrics.RecordDbError(metricsService, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to rank most ordered products: %w", err)
	}
	defer rows.Close()

	var ranked []entity.ProductOrderCount
	for rows.Next() {
		var pc entity.ProductOrderCount
		if err := rows.Scan(&pc.ProductName, &pc.TotalQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan most ordered row: %w", err)
		}
		ranked = append(ranked, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating most ordered rows: %w", err)
	}

	return ranked, nil
}
