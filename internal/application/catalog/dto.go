package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syncbridge/backend/internal/domain/catalog"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         uuid.UUID  `json:"id"`
	RemoteID   int64      `json:"remote_id,omitempty"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToCustomerResponse converts a customer entity to a response DTO
func ToCustomerResponse(c *catalog.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:         c.ID,
		RemoteID:   c.RemoteID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		LastSyncAt: c.LastSyncAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	RemoteID    int64           `json:"remote_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	LastSyncAt  *time.Time      `json:"last_sync_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product entity to a response DTO
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		RemoteID:    p.RemoteID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		LastSyncAt:  p.LastSyncAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// OrderItemRequest is one line item in an order create or update request
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrderRequest represents a request to create a new order
type CreateOrderRequest struct {
	CustomerID uuid.UUID          `json:"customer_id" binding:"required"`
	Status     string             `json:"status" binding:"omitempty,orderstatus"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents a request to update an order. A non-nil
// Items replaces the order's item set wholesale.
type UpdateOrderRequest struct {
	CustomerID *uuid.UUID         `json:"customer_id"`
	Status     *string            `json:"status" binding:"omitempty,orderstatus"`
	Items      []OrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// UpdateOrderStatusRequest represents a request to transition an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	RemoteID   int64               `json:"remote_id,omitempty"`
	CustomerID uuid.UUID           `json:"customer_id"`
	Items      []OrderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	Status     string              `json:"status"`
	LastSyncAt *time.Time          `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an order entity to a response DTO
func ToOrderResponse(o *catalog.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal(),
		}
	}
	return &OrderResponse{
		ID:         o.ID,
		RemoteID:   o.RemoteID,
		CustomerID: o.CustomerID,
		Items:      items,
		Total:      o.Total,
		Status:     o.Status.String(),
		LastSyncAt: o.LastSyncAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// ListQuery represents pagination and search parameters for list endpoints
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at name email total status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=200"`
}

// ToFilter converts the query to a repository filter, applying defaults
func (q ListQuery) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	return filter
}
