package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// Product represents a sellable product mirrored from the remote catalog
// system. Price and stock are the remote system's authoritative values
// after every sync pass; direct updates are allowed between passes.
type Product struct {
	shared.BaseEntity
	RemoteID    int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	LastSyncAt  *time.Time
}

// NewProduct creates a new locally-originated product.
func NewProduct(name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	}, nil
}

// NewSyncedProduct creates a product from a remote record during sync.
func NewSyncedProduct(remoteID int64, name, description string, price decimal.Decimal, stock int, syncedAt time.Time) (*Product, error) {
	if remoteID <= 0 {
		return nil, shared.NewDomainError("INVALID_REMOTE_ID", "Remote ID must be positive")
	}
	p, err := NewProduct(name, description, price, stock)
	if err != nil {
		return nil, err
	}
	p.RemoteID = remoteID
	p.LastSyncAt = &syncedAt
	return p, nil
}

// Update updates the product's mutable fields. RemoteID and LastSyncAt
// are never touched by direct updates.
func (p *Product) Update(name, description string, price decimal.Decimal, stock int) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Name = name
	p.Description = description
	p.Price = price
	p.Stock = stock
	p.Touch()
	return nil
}

// MarkSynced records a successful merge from the remote source.
func (p *Product) MarkSynced(at time.Time) {
	p.LastSyncAt = &at
	p.Touch()
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
