package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence port for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByRemoteID(ctx context.Context, remoteID int64) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	// UpsertBatch inserts customers whose remote ID is new and updates the
	// mutable fields (name, email, phone, last_sync_at) of those whose
	// remote ID already exists, as a single atomic statement.
	UpsertBatch(ctx context.Context, customers []*Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the persistence port for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByRemoteID(ctx context.Context, remoteID int64) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	UpsertBatch(ctx context.Context, products []*Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the persistence port for orders and their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDWithItems loads the order together with its item set.
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByRemoteID(ctx context.Context, remoteID int64) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithItems persists the order header and replaces its item set
	// wholesale: existing items are deleted, the supplied ones inserted.
	SaveWithItems(ctx context.Context, order *Order) error
	// DeleteWithItems deletes the order after cascading its items.
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}

// TransactionalRepositories provides access to the catalog repositories
// within one database transaction. All repositories returned share the same
// underlying transaction.
type TransactionalRepositories interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
}

// TransactionScope runs a function within a database transaction. If the
// function returns an error the transaction is rolled back, otherwise it is
// committed. This is the unit of atomicity for chunked sync upserts and for
// order item replacement.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
