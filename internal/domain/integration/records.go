package integration

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Remote records are the explicit, validated shapes of what the remote
// catalog system returns. Downstream chunking and upsert code operates on
// these instead of untyped maps, so malformed remote data fails fast at the
// boundary with a clear validation error.

// RemoteCustomer is a customer record as returned by the remote system
type RemoteCustomer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks the record's shape at the boundary
func (c RemoteCustomer) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: customer ID %d is not positive", ErrInvalidRemoteRecord, c.ID)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: customer %d has no name", ErrInvalidRemoteRecord, c.ID)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: customer %d has no email", ErrInvalidRemoteRecord, c.ID)
	}
	return nil
}

// RemoteProduct is a product record as returned by the remote system
type RemoteProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Validate checks the record's shape at the boundary
func (p RemoteProduct) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: product ID %d is not positive", ErrInvalidRemoteRecord, p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product %d has no name", ErrInvalidRemoteRecord, p.ID)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product %d has negative price", ErrInvalidRemoteRecord, p.ID)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: product %d has negative stock", ErrInvalidRemoteRecord, p.ID)
	}
	return nil
}

// RemoteOrderItem is an order line item as returned by the remote system
type RemoteOrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// RemoteOrder is an order record as returned by the remote system
type RemoteOrder struct {
	ID         int64             `json:"id"`
	CustomerID int64             `json:"customerId"`
	Total      decimal.Decimal   `json:"total"`
	Status     string            `json:"status"`
	Items      []RemoteOrderItem `json:"items"`
}

// Validate checks the record's shape at the boundary
func (o RemoteOrder) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("%w: order ID %d is not positive", ErrInvalidRemoteRecord, o.ID)
	}
	if o.CustomerID <= 0 {
		return fmt.Errorf("%w: order %d has no customer reference", ErrInvalidRemoteRecord, o.ID)
	}
	if o.Total.IsNegative() {
		return fmt.Errorf("%w: order %d has negative total", ErrInvalidRemoteRecord, o.ID)
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: order %d item has no product reference", ErrInvalidRemoteRecord, o.ID)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: order %d item quantity is not positive", ErrInvalidRemoteRecord, o.ID)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: order %d item has negative price", ErrInvalidRemoteRecord, o.ID)
		}
	}
	return nil
}
