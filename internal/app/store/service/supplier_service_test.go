package service

import (
	"context"
	"testing"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/repository"
	"storefront/internal/app/store/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSupplierServiceMocks() (*mocks.MockSupplierRepository, *mocks.MockProductRepository, *mocks.StubTransactionScope) {
	supplierRepo := new(mocks.MockSupplierRepository)
	productRepo := new(mocks.MockProductRepository)
	txScope := &mocks.StubTransactionScope{
		Repos: &mocks.StubTxRepositories{
			ProductRepo:  productRepo,
			SupplierRepo: supplierRepo,
		},
	}
	return supplierRepo, productRepo, txScope
}

func TestSupplierService_CreateSupplier_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	supplierRepo, productRepo, txScope := newSupplierServiceMocks()

	supplierRepo.On("ExistsByEmailFold", ctx, "sales@acme.example", uuid.Nil).Return(false, nil)
	supplierRepo.On("Create", ctx, mock.AnythingOfType("*entity.Supplier")).Return(nil)

	svc := NewSupplierService(supplierRepo, productRepo, txScope)

	req := &entity.CreateSupplierRequest{
		Name:  "Acme Distribution",
		Email: "sales@acme.example",
		Phone: "+7-900-000-00-00",
	}

	// Act
	supplier, err := svc.CreateSupplier(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Acme Distribution", supplier.Name)
	require.NotNil(t, supplier.Email)
	assert.Equal(t, "sales@acme.example", *supplier.Email)
	supplierRepo.AssertExpectations(t)
}

func TestSupplierService_CreateSupplier_NoEmailSkipsDupCheck(t *testing.T) {
	// Arrange
	ctx := context.Background()
	supplierRepo, productRepo, txScope := newSupplierServiceMocks()

	supplierRepo.On("Create", ctx, mock.AnythingOfType("*entity.Supplier")).Return(nil)

	svc := NewSupplierService(supplierRepo, productRepo, txScope)

	// Act
	supplier, err := svc.CreateSupplier(ctx, &entity.CreateSupplierRequest{Name: "Acme"})

	// Assert
	require.NoError(t, err)
	assert.Nil(t, supplier.Email)
	supplierRepo.AssertNotCalled(t, "ExistsByEmailFold", mock.Anything, mock.Anything, mock.Anything)
}

func TestSupplierService_CreateSupplier_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	supplierRepo, productRepo, txScope := newSupplierServiceMocks()

	supplierRepo.On("ExistsByEmailFold", ctx, "sales@acme.example", uuid.Nil).Return(true, nil)

	svc := NewSupplierService(supplierRepo, productRepo, txScope)

	supplier, err := svc.CreateSupplier(ctx, &entity.CreateSupplierRequest{
		Name:  "Acme",
		Email: "sales@acme.example",
	})

	assert.Nil(t, supplier)
	assert.ErrorIs(t, err, ErrDuplicateSupplierEmail)
}

func TestSupplierService_DeleteSupplier_UnlinksProducts(t *testing.T) {
	// Arrange
	ctx := context.Background()
	supplierRepo, productRepo, txScope := newSupplierServiceMocks()

	supplier := newTestSupplier()
	supplierRepo.On("GetByID", ctx, supplier.ID).Return(supplier, nil)
	productRepo.On("UnlinkSupplier", ctx, supplier.ID).Return(int64(4), nil)
	supplierRepo.On("Delete", ctx, supplier.ID).Return(nil)

	svc := NewSupplierService(supplierRepo, productRepo, txScope)

	// Act
	err := svc.DeleteSupplier(ctx, supplier.ID)

	// Assert
	require.NoError(t, err)
	// Товары отвязываются, но не удаляются
	productRepo.AssertNotCalled(t, "DeleteByCategoryID", mock.Anything, mock.Anything)
	productRepo.AssertExpectations(t)
	supplierRepo.AssertExpectations(t)
}

func TestSupplierService_DeleteSupplier_NotFound(t *testing.T) {
	ctx := context.Background()
	supplierRepo, productRepo, txScope := newSupplierServiceMocks()

	id := uuid.New()
	supplierRepo.On("GetByID", ctx, id).Return(nil, repository.ErrSupplierNotFound)

	svc := NewSupplierService(supplierRepo, productRepo, txScope)

	err := svc.DeleteSupplier(ctx, id)

	assert.ErrorIs(t, err, ErrSupplierNotFound)
	productRepo.AssertNotCalled(t, "UnlinkSupplier", mock.Anything, mock.Anything)
}

func TestSupplierService_UpdateSupplier_ClearsOptionalFields(t *testing.T) {
	// Arrange
	ctx := context.Background()
	supplierRepo, productRepo, txScope := newSupplierServiceMocks()

	supplier := newTestSupplier()
	supplierRepo.On("GetByID", ctx, supplier.ID).Return(supplier, nil)
	supplierRepo.On("Update", ctx, mock.AnythingOfType("*entity.Supplier")).Return(nil)

	svc := NewSupplierService(supplierRepo, productRepo, txScope)

	// Act: обновление без email и телефона сбрасывает их
	updated, err := svc.UpdateSupplier(ctx, supplier.ID, &entity.UpdateSupplierRequest{Name: "Acme v2"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Acme v2", updated.Name)
	assert.Nil(t, updated.Email)
	assert.Nil(t, updated.Phone)
}
