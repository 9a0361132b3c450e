package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syncbridge/backend/internal/domain/catalog"
)

// Remote IDs are stored as nullable columns so the unique index only binds
// synced rows; locally-originated records carry NULL and never collide.

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	RemoteID   *int64     `gorm:"uniqueIndex:idx_customers_remote_id"`
	Name       string     `gorm:"type:varchar(200);not null"`
	Email      string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	Phone      string     `gorm:"type:varchar(50)"`
	LastSyncAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *catalog.Customer {
	c := &catalog.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		LastSyncAt: m.LastSyncAt,
	}
	if m.RemoteID != nil {
		c.RemoteID = *m.RemoteID
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *catalog.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.RemoteID = remoteIDColumn(c.RemoteID)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.LastSyncAt = c.LastSyncAt
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	RemoteID    *int64          `gorm:"uniqueIndex:idx_products_remote_id"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	LastSyncAt  *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		LastSyncAt:  m.LastSyncAt,
	}
	if m.RemoteID != nil {
		p.RemoteID = *m.RemoteID
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.RemoteID = remoteIDColumn(p.RemoteID)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.Stock = p.Stock
	m.LastSyncAt = p.LastSyncAt
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	RemoteID   *int64           `gorm:"uniqueIndex:idx_orders_remote_id"`
	CustomerID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Customer   *CustomerModel   `gorm:"foreignKey:CustomerID"`
	Items      []OrderItemModel `gorm:"foreignKey:OrderID"`
	Total      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status     string           `gorm:"type:varchar(20);not null;default:'pending';index"`
	LastSyncAt *time.Time       `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *catalog.Order {
	o := &catalog.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Total:      m.Total,
		Status:     catalog.OrderStatus(m.Status),
		LastSyncAt: m.LastSyncAt,
	}
	if m.RemoteID != nil {
		o.RemoteID = *m.RemoteID
	}
	o.Items = make([]catalog.OrderItem, len(m.Items))
	for i := range m.Items {
		o.Items[i] = *m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
// Items are mapped separately so callers control when the item set is
// rewritten.
func (m *OrderModel) FromDomain(o *catalog.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.RemoteID = remoteIDColumn(o.RemoteID)
	m.CustomerID = o.CustomerID
	m.Total = o.Total
	m.Status = o.Status.String()
	m.LastSyncAt = o.LastSyncAt
}

// OrderItemModel is the persistence model for an order line item. Rows are
// exclusively owned by their order and replaced wholesale on update.
type OrderItemModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *catalog.OrderItem {
	return &catalog.OrderItem{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Price:      m.Price,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(i *catalog.OrderItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.Price = i.Price
}

func remoteIDColumn(remoteID int64) *int64 {
	if remoteID == 0 {
		return nil
	}
	return &remoteID
}
