package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ProductRepositoryTestSuite тестовый suite для PostgreSQL repository
type ProductRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  ProductRepository
	sqlDB *sql.DB
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProductRepositoryTestSuite))
}

func (s *ProductRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewProductRepository(s.db)
}

func (s *ProductRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func (s *ProductRepositoryTestSuite) productRows(id, categoryID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "price", "stock", "sku",
		"category_id", "supplier_id", "created_at", "updated_at",
	}).AddRow(id, "Laptop", "", "1299.99", 10, nil, categoryID, nil, time.Now(), time.Now())
}

// ===================== GetByID Tests =====================

func (s *ProductRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	productID := uuid.New()
	categoryID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WithArgs(productID, 1).
		WillReturnRows(s.productRows(productID, categoryID))

	// Act
	product, err := s.repo.GetByID(ctx, productID)

	// Assert
	s.NoError(err)
	s.NotNil(product)
	s.Equal(productID, product.ID)
	s.Equal("Laptop", product.Name)
	s.Equal(10, product.Stock)
	s.Equal("1299.99", product.Price.StringFixed(2))

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WithArgs(productID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	product, err := s.repo.GetByID(ctx, productID)

	// Assert
	s.ErrorIs(err, ErrProductNotFound)
	s.Nil(product)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestGetByID_DBError() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WithArgs(productID, 1).
		WillReturnError(sql.ErrConnDone)

	// Act
	product, err := s.repo.GetByID(ctx, productID)

	// Assert
	s.Error(err)
	s.NotErrorIs(err, ErrProductNotFound)
	s.Nil(product)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByIDForUpdate Tests =====================

func (s *ProductRepositoryTestSuite) TestGetByIDForUpdate_LocksRow() {
	ctx := context.Background()
	productID := uuid.New()
	categoryID := uuid.New()

	// Запрос обязан нести FOR UPDATE - на этом держится сериализация списаний
	s.mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1(.|\n)*FOR UPDATE`).
		WithArgs(productID, 1).
		WillReturnRows(s.productRows(productID, categoryID))

	// Act
	product, err := s.repo.GetByIDForUpdate(ctx, productID)

	// Assert
	s.NoError(err)
	s.Equal(productID, product.ID)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== UpdateStock Tests =====================

func (s *ProductRepositoryTestSuite) TestUpdateStock_Success() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=$1`)).
		WithArgs(7, sqlmock.AnyArg(), productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.UpdateStock(ctx, productID, 7)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestUpdateStock_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=$1`)).
		WithArgs(7, sqlmock.AnyArg(), productID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.UpdateStock(ctx, productID, 7)

	// Assert
	s.ErrorIs(err, ErrProductNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== ExistsBySKU Tests =====================

func (s *ProductRepositoryTestSuite) TestExistsBySKU_Found() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE sku = $1`)).
		WithArgs("ABC123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	exists, err := s.repo.ExistsBySKU(ctx, "ABC123", uuid.Nil)

	// Assert
	s.NoError(err)
	s.True(exists)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestExistsBySKU_ExcludesSelf() {
	ctx := context.Background()
	selfID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE sku = $1 AND id <> $2`)).
		WithArgs("ABC123", selfID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	exists, err := s.repo.ExistsBySKU(ctx, "ABC123", selfID)

	// Assert
	s.NoError(err)
	s.False(exists)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *ProductRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE id = $1`)).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, productID)

	// Assert
	s.ErrorIs(err, ErrProductNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== UnlinkSupplier Tests =====================

func (s *ProductRepositoryTestSuite) TestUnlinkSupplier_ReturnsAffectedCount() {
	ctx := context.Background()
	supplierID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "supplier_id"=$1`)).
		WithArgs(nil, sqlmock.AnyArg(), supplierID).
		WillReturnResult(sqlmock.NewResult(0, 4))
	s.mock.ExpectCommit()

	// Act
	unlinked, err := s.repo.UnlinkSupplier(ctx, supplierID)

	// Assert
	s.NoError(err)
	s.Equal(int64(4), unlinked)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== NeverOrdered Tests =====================

func (s *ProductRepositoryTestSuite) TestNeverOrdered_UsesSubquery() {
	ctx := context.Background()
	productID := uuid.New()
	categoryID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "sku", "category_id", "supplier_id", "created_at", "updated_at"}).
		AddRow(productID, "Laptop", "", "1299.99", 10, nil, categoryID, nil, time.Now(), time.Now())

	s.mock.ExpectQuery(regexp.QuoteMeta(`NOT IN (SELECT product_id FROM order_items)`)).
		WillReturnRows(rows)

	// Act
	products, err := s.repo.NeverOrdered(ctx)

	// Assert
	s.NoError(err)
	s.Len(products, 1)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Count Tests =====================

func (s *ProductRepositoryTestSuite) TestCount_Success() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	// Act
	count, err := s.repo.Count(ctx)

	// Assert
	s.NoError(err)
	s.Equal(int64(42), count)
	s.NoError(s.mock.ExpectationsWereMet())
}
