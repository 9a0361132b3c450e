package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/syncbridge/backend/internal/domain/catalog"
	"github.com/syncbridge/backend/internal/domain/integration"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// OrderService handles order-related business operations. Creation and item
// replacement run inside a transaction so an order header is never visible
// without its items.
type OrderService struct {
	orderRepo    catalog.OrderRepository
	customerRepo catalog.CustomerRepository
	productRepo  catalog.ProductRepository
	scope        catalog.TransactionScope
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo catalog.OrderRepository,
	customerRepo catalog.CustomerRepository,
	productRepo catalog.ProductRepository,
	scope catalog.TransactionScope,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		scope:        scope,
	}
}

// Create composes a new order. Every item's product reference is resolved
// before anything is written; an unknown product fails the whole request
// with ErrInvalidOrderReference.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s", integration.ErrInvalidOrderReference, req.CustomerID)
		}
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order, err := catalog.NewOrder(req.CustomerID, items, catalog.OrderStatus(req.Status))
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos catalog.TransactionalRepositories) error {
		return repos.Orders().SaveWithItems(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// List retrieves a paginated list of orders with their items
func (s *OrderService) List(ctx context.Context, query ListQuery) (*shared.Paginated[OrderResponse], error) {
	filter := query.ToFilter()

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *ToOrderResponse(&orders[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates an order. A non-nil item list replaces the existing items
// wholesale; the delete and re-insert happen in one transaction, so a
// failure midway leaves the previous item set intact.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil && *req.CustomerID != order.CustomerID {
		if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: customer %s", integration.ErrInvalidOrderReference, *req.CustomerID)
			}
			return nil, err
		}
		order.CustomerID = *req.CustomerID
		order.Touch()
	}

	if req.Status != nil {
		if err := order.UpdateStatus(catalog.OrderStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		items, err := s.buildItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		order.ReplaceItems(items)
	}

	err = s.scope.Execute(ctx, func(repos catalog.TransactionalRepositories) error {
		return repos.Orders().SaveWithItems(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// UpdateStatus transitions an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(catalog.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// Delete deletes an order and its items
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.DeleteWithItems(ctx, id)
}

// buildItems resolves each requested line item against the product catalog.
// An omitted price snapshots the product's current price into the item.
func (s *OrderService) buildItems(ctx context.Context, reqs []OrderItemRequest) ([]catalog.OrderItem, error) {
	items := make([]catalog.OrderItem, 0, len(reqs))
	for _, req := range reqs {
		product, err := s.productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s", integration.ErrInvalidOrderReference, req.ProductID)
			}
			return nil, err
		}

		price := req.Price
		if price.IsZero() {
			price = product.Price
		}
		item, err := catalog.NewOrderItem(product.ID, req.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}
