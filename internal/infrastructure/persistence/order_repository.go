package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/syncbridge/backend/internal/domain/catalog"
	"github.com/syncbridge/backend/internal/domain/shared"
	"github.com/syncbridge/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order header by its ID, without items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDWithItems loads an order together with its item set
func (r *GormOrderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*catalog.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds an order by its remote correlation ID, with items
func (r *GormOrderRepository) FindByRemoteID(ctx context.Context, remoteID int64) (*catalog.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "remote_id = ?", remoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all orders matching the filter, with their items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]catalog.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order header without touching its items
func (r *GormOrderRepository) Save(ctx context.Context, order *catalog.Order) error {
	var model models.OrderModel
	model.FromDomain(order)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(&model).Error
}

// SaveWithItems persists the order header and replaces its item set
// wholesale inside one transaction: existing rows are deleted, the supplied
// ones inserted. A failure midway rolls back to the previous item set.
func (r *GormOrderRepository) SaveWithItems(ctx context.Context, order *catalog.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.OrderModel
		model.FromDomain(order)
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.OrderItemModel{}, "order_id = ?", order.ID).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}

		itemModels := make([]models.OrderItemModel, len(order.Items))
		for i := range order.Items {
			itemModels[i].FromDomain(&order.Items[i])
		}
		return tx.Create(&itemModels).Error
	})
}

// DeleteWithItems deletes an order after cascading its items
func (r *GormOrderRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItemModel{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormOrderRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("status = ?", filter.Search)
	}
	return query
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

var _ catalog.OrderRepository = (*GormOrderRepository)(nil)
