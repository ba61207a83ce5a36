package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
)

// GormTableRepository stores tables with gorm
type GormTableRepository struct {
	db *gorm.DB
}

// NewGormTableRepository creates a new gorm table repository
func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

func (r *GormTableRepository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db)
}

func (r *GormTableRepository) Create(ctx context.Context, table *domain.Table) error {
	if err := r.conn(ctx).Create(table).Error; err != nil {
		return apperr.FromDB(err)
	}
	return nil
}

func (r *GormTableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	var table domain.Table
	if err := r.conn(ctx).First(&table, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &table, nil
}

func (r *GormTableRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Table, error) {
	var tables []domain.Table
	if len(ids) == 0 {
		return tables, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Order("name").Find(&tables).Error
	return tables, err
}

func (r *GormTableRepository) FindAll(ctx context.Context) ([]domain.Table, error) {
	var tables []domain.Table
	err := r.conn(ctx).Order("name").Find(&tables).Error
	return tables, err
}

// LockByID takes a row lock with SELECT ... FOR UPDATE. Drivers without row
// locks ignore the clause and rely on the transaction itself.
func (r *GormTableRepository) LockByID(ctx context.Context, id string) (*domain.Table, error) {
	var table domain.Table
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&table, "id = ?", id).Error
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return &table, nil
}

func (r *GormTableRepository) UpdateStatusIf(ctx context.Context, id string, status domain.Status, from ...domain.Status) (bool, error) {
	res := r.conn(ctx).Model(&domain.Table{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":         status,
			"merged_into_id": nil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update table status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormTableRepository) SetState(ctx context.Context, id string, status domain.Status, mergedInto *string) error {
	res := r.conn(ctx).Model(&domain.Table{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"merged_into_id": mergedInto,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update table state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: table %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *GormTableRepository) CountMembers(ctx context.Context, mainID string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&domain.Table{}).
		Where("merged_into_id = ?", mainID).
		Count(&n).Error
	return n, err
}
