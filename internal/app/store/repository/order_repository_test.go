package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"storefront/internal/app/store/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type OrderRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  OrderRepository
	sqlDB *sql.DB
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewOrderRepository(s.db)
}

func (s *OrderRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func (s *OrderRepositoryTestSuite) orderRows(id uuid.UUID, status entity.OrderStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_number", "customer_name", "customer_email",
		"status", "total_amount", "order_date",
	}).AddRow(id, "ORD-20260826-DEADBEEF", "Ivan Petrov", "ivan@example.com", status, "76.50", time.Now())
}

// ===================== GetByID Tests =====================

func (s *OrderRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WithArgs(orderID, 1).
		WillReturnRows(s.orderRows(orderID, entity.OrderStatusPending))

	// Act
	order, err := s.repo.GetByID(ctx, orderID)

	// Assert
	s.NoError(err)
	s.NotNil(order)
	s.Equal(orderID, order.ID)
	s.Equal("ORD-20260826-DEADBEEF", order.OrderNumber)
	s.Equal(entity.OrderStatusPending, order.Status)
	s.Equal("76.50", order.TotalAmount.StringFixed(2))

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WithArgs(orderID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	order, err := s.repo.GetByID(ctx, orderID)

	// Assert
	s.ErrorIs(err, ErrOrderNotFound)
	s.Nil(order)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetWithItems Tests =====================

func (s *OrderRepositoryTestSuite) TestGetWithItems_PreloadsItems() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WithArgs(orderID, 1).
		WillReturnRows(s.orderRows(orderID, entity.OrderStatusConfirmed))

	// Позиции без товаров: вложенные Preload не пойдут дальше пустого среза
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items" WHERE "order_items"."order_id" = $1`)).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "subtotal"}))

	// Act
	order, err := s.repo.GetWithItems(ctx, orderID)

	// Assert
	s.NoError(err)
	s.Equal(orderID, order.ID)
	s.Empty(order.Items)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== FindByCustomerEmail Tests =====================

func (s *OrderRepositoryTestSuite) TestFindByCustomerEmail_FoldsCase() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE LOWER(customer_email) = $1`)).
		WithArgs("ivan@example.com").
		WillReturnRows(s.orderRows(orderID, entity.OrderStatusPending))

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "subtotal"}))

	// Act
	orders, err := s.repo.FindByCustomerEmail(ctx, "  IVAN@Example.COM ")

	// Assert
	s.NoError(err)
	s.Len(orders, 1)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== FindByStatus Tests =====================

func (s *OrderRepositoryTestSuite) TestFindByStatus_OrdersByDateDesc() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE status = $1 ORDER BY order_date DESC`)).
		WithArgs(entity.OrderStatusShipped).
		WillReturnRows(s.orderRows(uuid.New(), entity.OrderStatusShipped))

	// Act
	orders, err := s.repo.FindByStatus(ctx, entity.OrderStatusShipped)

	// Assert
	s.NoError(err)
	s.Len(orders, 1)
	s.Equal(entity.OrderStatusShipped, orders[0].Status)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestFindByStatus_EmptyResult() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE status = $1`)).
		WithArgs(entity.OrderStatusDelivered).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "customer_name", "customer_email", "status", "total_amount", "order_date"}))

	// Act
	orders, err := s.repo.FindByStatus(ctx, entity.OrderStatusDelivered)

	// Assert
	s.NoError(err)
	s.Empty(orders)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== UpdateStatus Tests =====================

func (s *OrderRepositoryTestSuite) TestUpdateStatus_Success() {
	ctx := context.Background()
	orderID := uuid.New()

	// Запись условна по текущему статусу: compare-and-set
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1 WHERE id = $2 AND status = $3`)).
		WithArgs(entity.OrderStatusConfirmed, orderID, entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.UpdateStatus(ctx, orderID, entity.OrderStatusPending, entity.OrderStatusConfirmed)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestUpdateStatus_NotFound() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1 WHERE id = $2 AND status = $3`)).
		WithArgs(entity.OrderStatusConfirmed, orderID, entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders" WHERE id = $1`)).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	err := s.repo.UpdateStatus(ctx, orderID, entity.OrderStatusPending, entity.OrderStatusConfirmed)

	// Assert
	s.ErrorIs(err, ErrOrderNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestUpdateStatus_StaleStatus() {
	ctx := context.Background()
	orderID := uuid.New()

	// Заказ существует, но его статус уже не тот, что мы читали:
	// нулевое число затронутых строк при живом заказе
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1 WHERE id = $2 AND status = $3`)).
		WithArgs(entity.OrderStatusConfirmed, orderID, entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders" WHERE id = $1`)).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	err := s.repo.UpdateStatus(ctx, orderID, entity.OrderStatusPending, entity.OrderStatusConfirmed)

	// Assert
	s.ErrorIs(err, ErrOrderStatusStale)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *OrderRepositoryTestSuite) TestDelete_RemovesItemsExplicitly() {
	ctx := context.Background()
	orderID := uuid.New()

	// Позиции удаляются своим DELETE до удаления заказа, в той же транзакции
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_items" WHERE order_id = $1`)).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE id = $1`)).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, orderID)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_items" WHERE order_id = $1`)).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE id = $1`)).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Delete(ctx, orderID)

	// Assert
	s.ErrorIs(err, ErrOrderNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Count Tests =====================

func (s *OrderRepositoryTestSuite) TestCount_Success() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	// Act
	count, err := s.repo.Count(ctx)

	// Assert
	s.NoError(err)
	s.Equal(int64(7), count)
	s.NoError(s.mock.ExpectationsWereMet())
}
