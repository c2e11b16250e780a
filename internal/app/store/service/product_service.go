package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/repository"
	"storefront/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// skuPattern - формат артикула: три заглавные латинские буквы и три цифры
var skuPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

// ProductService обрабатывает бизнес-логику каталога товаров
// Координирует репозитории товаров, категорий и поставщиков
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	txScope      repository.TransactionScope
}

// NewProductService создает новый сервис товаров с внедрением зависимостей
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	txScope repository.TransactionScope,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		txScope:      txScope,
	}
}

// validatePrice проверяет, что цена положительна и не точнее двух знаков
func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	}
	if !price.Equal(price.Round(2)) {
		return fmt.Errorf("%w: price must have at most 2 decimal places", ErrValidation)
	}
	return nil
}

// CreateProduct создает новый товар
// Проверяет существование категории и поставщика, уникальность SKU
func (s *ProductService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}

	var sku *string
	if req.SKU != "" {
		if !skuPattern.MatchString(req.SKU) {
			return nil, fmt.Errorf("%w: sku must match format AAA999", ErrValidation)
		}
		exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check sku: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSKU
		}
		v := req.SKU
		sku = &v
	}

	// Категория обязательна и должна существовать
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	// Поставщик опционален
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, repository.ErrSupplierNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, fmt.Errorf("failed to get supplier: %w", err)
		}
	}

	product := &entity.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		SKU:         sku,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	return product, nil
}

// GetProduct получает товар по ID вместе с категорией и поставщиком
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByIDJoined(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetAllProducts получает все товары одним запросом с JOIN категорий и поставщиков
func (s *ProductService) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetAllJoined(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetAllProductsSlow получает товары без JOIN и дозагружает связи
// по одной: на каждый уникальный ID категории и поставщика - отдельный
// запрос. Эндпоинт оставлен для демонстрации цены N+1 в сравнении
// с GetAllProducts.
func (s *ProductService) GetAllProductsSlow(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetAllBare(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	// Карты на время запроса, чтобы не ходить за одной категорией дважды
	categories := make(map[uuid.UUID]*entity.Category)
	suppliers := make(map[uuid.UUID]*entity.Supplier)

	for i := range products {
		p := &products[i]

		category, ok := categories[p.CategoryID]
		if !ok {
			category, err = s.categoryRepo.GetByID(ctx, p.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("failed to load category: %w", err)
			}
			categories[p.CategoryID] = category
		}
		p.Category = category

		if p.SupplierID != nil {
			supplier, ok := suppliers[*p.SupplierID]
			if !ok {
				supplier, err = s.supplierRepo.GetByID(ctx, *p.SupplierID)
				if err != nil {
					return nil, fmt.Errorf("failed to load supplier: %w", err)
				}
				suppliers[*p.SupplierID] = supplier
			}
			p.Supplier = supplier
		}
	}

	return products, nil
}

// GetProductsPage получает страницу товаров
// page нумеруется с нуля, size ограничен диапазоном 1..100
func (s *ProductService) GetProductsPage(ctx context.Context, page, size int) (*entity.ProductPageResponse, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", ErrValidation)
	}
	if size < 1 || size > 100 {
		return nil, fmt.Errorf("%w: size must be between 1 and 100", ErrValidation)
	}

	products, total, err := s.productRepo.GetPage(ctx, page*size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to get products page: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &entity.ProductPageResponse{
		Products:      products,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// UpdateProduct обновляет товар целиком
// Пустой CategoryID в запросе означает "оставить текущую категорию"
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}

	var sku *string
	if req.SKU != "" {
		if !skuPattern.MatchString(req.SKU) {
			return nil, fmt.Errorf("%w: sku must match format AAA999", ErrValidation)
		}
		exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check sku: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSKU
		}
		v := req.SKU
		sku = &v
	}

	categoryID := product.CategoryID
	if req.CategoryID != uuid.Nil {
		if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		categoryID = req.CategoryID
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, repository.ErrSupplierNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, fmt.Errorf("failed to get supplier: %w", err)
		}
	}

	product.Name = name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.SKU = sku
	product.CategoryID = categoryID
	product.SupplierID = req.SupplierID

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct удаляет товар
// Товар, на который ссылаются позиции заказов, удалить нельзя -
// история продаж важнее чистоты каталога
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	refs, err := s.productRepo.CountOrderItemRefs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count order references: %w", err)
	}
	if refs > 0 {
		return ErrProductReferenced
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// AdjustStock изменяет остаток на произвольную дельту
// Читает строку под блокировкой, чтобы параллельные корректировки не теряли обновления
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*entity.Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", ErrValidation)
	}

	var product *entity.Product
	err := s.txScope.Execute(ctx, func(repos repository.TxRepositories) error {
		p, err := repos.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		newStock := p.Stock + delta
		if newStock < 0 {
			metrics.StockRejections.Inc()
			return fmt.Errorf("%w: stock would become negative", ErrInsufficientStock)
		}

		if err := repos.Products().UpdateStock(ctx, id, newStock); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		p.Stock = newStock
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// DecreaseStock уменьшает остаток на указанное количество
// Выполняется под блокировкой строки, списать больше остатка нельзя
func (s *ProductService) DecreaseStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	return s.AdjustStock(ctx, id, -quantity)
}

// SearchProducts ищет товары по подстроке имени без учёта регистра
func (s *ProductService) SearchProducts(ctx context.Context, keyword string) ([]entity.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword must not be blank", ErrValidation)
	}
	products, err := s.productRepo.SearchByName(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetProductsByPriceRange получает товары в ценовом диапазоне включительно
func (s *ProductService) GetProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]entity.Product, error) {
	if min.IsNegative() {
		return nil, fmt.Errorf("%w: min price must not be negative", ErrValidation)
	}
	if max.LessThan(min) {
		return nil, fmt.Errorf("%w: max price must not be less than min price", ErrValidation)
	}
	products, err := s.productRepo.FindByPriceRange(ctx, min, max)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by price range: %w", err)
	}
	return products, nil
}

// GetProductsByCategory получает товары категории
func (s *ProductService) GetProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	products, err := s.productRepo.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}
	return products, nil
}

// GetProductsBySupplier получает товары поставщика
func (s *ProductService) GetProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.Product, error) {
	if _, err := s.supplierRepo.GetByID(ctx, supplierID); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	products, err := s.productRepo.FindBySupplierID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by supplier: %w", err)
	}
	return products, nil
}

// CountProducts возвращает общее количество товаров
func (s *ProductService) CountProducts(ctx context.Context) (int64, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
