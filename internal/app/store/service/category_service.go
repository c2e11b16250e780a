package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/repository"
	"storefront/pkg/logger"

	"github.com/google/uuid"
)

// CategoryService обрабатывает бизнес-логику категорий
// Удаление категории каскадно удаляет её товары в одной транзакции
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	txScope      repository.TransactionScope
}

// NewCategoryService создает новый сервис категорий с внедрением зависимостей
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	txScope repository.TransactionScope,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		txScope:      txScope,
	}
}

// CreateCategory создает новую категорию
// Имя уникально без учёта регистра
func (s *CategoryService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}

	exists, err := s.categoryRepo.ExistsByNameFold(ctx, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateCategoryName
	}

	category := &entity.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetCategory получает категорию по ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetAllCategories получает все категории
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory обновляет категорию
// Проверка уникальности имени исключает саму категорию
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}

	exists, err := s.categoryRepo.ExistsByNameFold(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateCategoryName
	}

	category.Name = name
	category.Description = req.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory удаляет категорию вместе с её товарами
// Оба шага выполняются в одной транзакции: либо уходит всё, либо ничего
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}

	return s.txScope.Execute(ctx, func(repos repository.TxRepositories) error {
		deleted, err := repos.Products().DeleteByCategoryID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete category products: %w", err)
		}

		if err := repos.Categories().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to delete category: %w", err)
		}

		logger.Info().
			Str("category_id", id.String()).
			Int64("products_deleted", deleted).
			Msg("Category deleted with products")
		return nil
	})
}

// TransferProducts переносит все товары из одной категории в другую
// Возвращает количество перенесённых товаров
func (s *CategoryService) TransferProducts(ctx context.Context, fromID, toID uuid.UUID) (int64, error) {
	if fromID == toID {
		return 0, fmt.Errorf("%w: source and target categories must differ", ErrValidation)
	}

	if _, err := s.categoryRepo.GetByID(ctx, fromID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("failed to get source category: %w", err)
	}
	if _, err := s.categoryRepo.GetByID(ctx, toID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("failed to get target category: %w", err)
	}

	var moved int64
	err := s.txScope.Execute(ctx, func(repos repository.TxRepositories) error {
		n, err := repos.Products().ReassignCategory(ctx, fromID, toID)
		if err != nil {
			return fmt.Errorf("failed to transfer products: %w", err)
		}
		moved = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return moved, nil
}

// CountCategories возвращает общее количество категорий
func (s *CategoryService) CountCategories(ctx context.Context) (int64, error) {
	count, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}
