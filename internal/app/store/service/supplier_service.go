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

// SupplierService обрабатывает бизнес-логику поставщиков
// Удаление поставщика отвязывает его товары, но не удаляет их
type SupplierService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	txScope      repository.TransactionScope
}

// NewSupplierService создает новый сервис поставщиков с внедрением зависимостей
func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	txScope repository.TransactionScope,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		txScope:      txScope,
	}
}

// CreateSupplier создает нового поставщика
// Email опционален, но уникален без учёта регистра
func (s *SupplierService) CreateSupplier(ctx context.Context, req *entity.CreateSupplierRequest) (*entity.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}

	var email *string
	if req.Email != "" {
		exists, err := s.supplierRepo.ExistsByEmailFold(ctx, req.Email, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check supplier email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSupplierEmail
		}
		v := req.Email
		email = &v
	}

	var phone *string
	if req.Phone != "" {
		v := req.Phone
		phone = &v
	}

	supplier := &entity.Supplier{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Phone: phone,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return supplier, nil
}

// GetSupplier получает поставщика по ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

// GetAllSuppliers получает всех поставщиков
func (s *SupplierService) GetAllSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	suppliers, err := s.supplierRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get suppliers: %w", err)
	}
	return suppliers, nil
}

// UpdateSupplier обновляет поставщика
// Проверка уникальности email исключает самого поставщика
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req *entity.UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}

	var email *string
	if req.Email != "" {
		exists, err := s.supplierRepo.ExistsByEmailFold(ctx, req.Email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check supplier email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSupplierEmail
		}
		v := req.Email
		email = &v
	}

	var phone *string
	if req.Phone != "" {
		v := req.Phone
		phone = &v
	}

	supplier.Name = name
	supplier.Email = email
	supplier.Phone = phone

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return supplier, nil
}

// DeleteSupplier удаляет поставщика
// Его товары остаются в каталоге без поставщика; отвязка и удаление
// выполняются в одной транзакции
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return ErrSupplierNotFound
		}
		return fmt.Errorf("failed to get supplier: %w", err)
	}

	return s.txScope.Execute(ctx, func(repos repository.TxRepositories) error {
		unlinked, err := repos.Products().UnlinkSupplier(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to unlink supplier products: %w", err)
		}

		if err := repos.Suppliers().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrSupplierNotFound) {
				return ErrSupplierNotFound
			}
			return fmt.Errorf("failed to delete supplier: %w", err)
		}

		logger.Info().
			Str("supplier_id", id.String()).
			Int64("products_unlinked", unlinked).
			Msg("Supplier deleted, products unlinked")
		return nil
	})
}

// CountSuppliers возвращает общее количество поставщиков
func (s *SupplierService) CountSuppliers(ctx context.Context) (int64, error) {
	count, err := s.supplierRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return count, nil
}
