package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// OrderStatus represents the status of an order. The set is closed; values
// outside it are rejected at every boundary.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid returns true if the status is part of the closed set
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is a line item exclusively owned by its Order. Items are
// replaced wholesale whenever the order's item set changes; there is no
// per-item diffing.
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// NewOrderItem creates an order line item. Price is the unit price at the
// time of order, not a reference to the product's current price.
func NewOrderItem(productID uuid.UUID, quantity int, price decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Order item requires a product reference")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
		Price:      price,
	}, nil
}

// Subtotal returns quantity × unit price for the item
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for an order and its line items. The order
// exclusively owns its items' lifecycle.
type Order struct {
	shared.BaseEntity
	RemoteID   int64
	CustomerID uuid.UUID
	Items      []OrderItem
	Total      decimal.Decimal
	Status     OrderStatus
	LastSyncAt *time.Time
}

// NewOrder creates an order with the given items. Total is derived from the
// items; supplying a total that disagrees with the item sum is rejected.
func NewOrder(customerID uuid.UUID, items []OrderItem, status OrderStatus) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order requires a customer reference")
	}
	if status == "" {
		status = OrderStatusPending
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(status))
	}

	order := &Order{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Status:     status,
		Total:      decimal.Zero,
	}
	order.setItems(items)
	return order, nil
}

// NewSyncedOrder creates an order from a remote record during sync. The
// remote total is authoritative and kept as supplied.
func NewSyncedOrder(remoteID int64, customerID uuid.UUID, items []OrderItem, total decimal.Decimal, status OrderStatus, syncedAt time.Time) (*Order, error) {
	if remoteID <= 0 {
		return nil, shared.NewDomainError("INVALID_REMOTE_ID", "Remote ID must be positive")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total cannot be negative")
	}
	order, err := NewOrder(customerID, items, status)
	if err != nil {
		return nil, err
	}
	order.RemoteID = remoteID
	order.Total = total
	order.LastSyncAt = &syncedAt
	return order, nil
}

// ReplaceItems replaces the order's item set wholesale and recomputes the
// total. The previous items are discarded.
func (o *Order) ReplaceItems(items []OrderItem) {
	o.setItems(items)
	o.Touch()
}

// UpdateStatus transitions the order to a new status
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(status))
	}
	o.Status = status
	o.Touch()
	return nil
}

// MarkSynced records a successful merge from the remote source.
func (o *Order) MarkSynced(at time.Time) {
	o.LastSyncAt = &at
	o.Touch()
}

// ItemTotal returns the sum of quantity × price over all items
func (o *Order) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

func (o *Order) setItems(items []OrderItem) {
	o.Items = make([]OrderItem, len(items))
	for i, item := range items {
		item.OrderID = o.ID
		o.Items[i] = item
	}
	o.Total = o.ItemTotal()
}
