package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/order/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
)

const maxListLimit = 200

// GormOrderRepository stores orders and their items with gorm
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new gorm order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db)
}

// withDetails loads items with their products, including soft-deleted ones, and the table
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Table")
}

// Create inserts the order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.conn(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", apperr.FromDB(err))
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := withDetails(r.conn(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &order, nil
}

// List returns the newest orders first
func (r *GormOrderRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Order, error) {
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	q := withDetails(r.conn(ctx))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TableID != "" {
		q = q.Where("table_id = ?", filter.TableID)
	}

	var orders []domain.Order
	err := q.Order("created_at DESC").Limit(filter.Limit).Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res := r.conn(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountActiveByTable counts orders on the table that have not reached a terminal status
func (r *GormOrderRepository) CountActiveByTable(ctx context.Context, tableID string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&domain.Order{}).
		Where("table_id = ? AND status IN ?", tableID, domain.ActiveStatuses()).
		Count(&n).Error
	return n, err
}
