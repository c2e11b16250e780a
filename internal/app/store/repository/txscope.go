package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepositories даёт доступ к репозиториям, привязанным к одной транзакции.
// Все операции внутри Execute коммитятся или откатываются вместе.
type TxRepositories interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Suppliers() SupplierRepository
	Orders() OrderRepository
}

// TransactionScope выполняет функцию в границах одной транзакции БД.
// Ошибка из fn откатывает транзакцию целиком - включая уже выполненные
// списания остатков.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TxRepositories) error) error
}

type gormTxScope struct {
	db *gorm.DB
}

// NewTransactionScope создает TransactionScope поверх GORM
func NewTransactionScope(db *gorm.DB) TransactionScope {
	return &gormTxScope{db: db}
}

func (s *gormTxScope) Execute(ctx context.Context, fn func(repos TxRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

type gormTxRepositories struct {
	tx *gorm.DB
}

func (r *gormTxRepositories) Products() ProductRepository {
	return NewProductRepository(r.tx)
}

func (r *gormTxRepositories) Categories() CategoryRepository {
	return NewCategoryRepository(r.tx)
}

func (r *gormTxRepositories) Suppliers() SupplierRepository {
	return NewSupplierRepository(r.tx)
}

func (r *gormTxRepositories) Orders() OrderRepository {
	return NewOrderRepository(r.tx)
}
