package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/syncbridge/backend/internal/domain/catalog"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It is the unit of atomicity for chunked sync upserts and order item
// replacement.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If the
// function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos catalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to the catalog repositories
// within a single transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Customers returns the customer repository scoped to the current transaction
func (r *gormTransactionalRepositories) Customers() catalog.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Orders returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() catalog.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

var _ catalog.TransactionScope = (*GormTransactionScope)(nil)
var _ catalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
