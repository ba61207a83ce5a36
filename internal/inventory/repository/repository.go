package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
)

// GormProductRepository stores the catalogue and implements the stock ledger
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new gorm product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db)
}

func (r *GormProductRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := r.conn(ctx).Create(category).Error; err != nil {
		return apperr.FromDB(err)
	}
	return nil
}

func (r *GormProductRepository) FindCategory(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.conn(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &category, nil
}

func (r *GormProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.conn(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.conn(ctx).Create(product).Error; err != nil {
		return apperr.FromDB(err)
	}
	return nil
}

// Update writes the descriptive fields. Quantity is left to the ledger.
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	res := r.conn(ctx).Model(product).
		Select("name", "price_cents", "min_stock", "orderable", "category_id").
		Updates(product)
	if res.Error != nil {
		return apperr.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, product.ID)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.conn(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	var products []domain.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.conn(ctx).Preload("Category").Order("name").Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindLowStock(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.conn(ctx).Preload("Category").
		Where("quantity <= min_stock").
		Order("quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}

// Menu lists every category by name with its orderable, in-stock products by name
func (r *GormProductRepository) Menu(ctx context.Context) ([]domain.MenuCategory, error) {
	var categories []domain.Category
	err := r.conn(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("orderable = ? AND quantity > 0", true).Order("name")
		}).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	menu := make([]domain.MenuCategory, 0, len(categories))
	for _, c := range categories {
		products := c.Products
		if products == nil {
			products = []domain.Product{}
		}
		menu = append(menu, domain.MenuCategory{ID: c.ID, Name: c.Name, Products: products})
	}
	return menu, nil
}

// CheckAvailability is a read-only check against the current quantity
func (r *GormProductRepository) CheckAvailability(ctx context.Context, productID string, requested int) (*domain.Availability, error) {
	product, err := r.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &domain.Availability{
		ProductID: product.ID,
		Name:      product.Name,
		Requested: requested,
		Current:   product.Quantity,
		Available: product.Orderable && requested > 0 && product.Quantity >= requested,
		Status:    product.StockStatus(),
	}, nil
}

// ReserveAndDecrement applies a guarded decrement per line inside a savepoint,
// so a shortage on any line rolls back the lines before it.
func (r *GormProductRepository) ReserveAndDecrement(ctx context.Context, lines []domain.StockLine) error {
	if len(lines) == 0 {
		return nil
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: quantity for product %s must be at least 1", apperr.ErrInvalidPayload, line.ProductID)
		}
	}

	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND quantity >= ?", line.ProductID, line.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return shortage(tx, line)
			}
		}
		return nil
	})
}

func shortage(tx *gorm.DB, line domain.StockLine) error {
	var product domain.Product
	err := tx.Select("id", "name", "quantity").First(&product, "id = ?", line.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %s", apperr.ErrProductUnavailable, line.ProductID)
	}
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	return &domain.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Requested:   line.Quantity,
		Available:   product.Quantity,
	}
}

// Increment restocks a product
func (r *GormProductRepository) Increment(ctx context.Context, productID string, amount int) (*domain.Product, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: restock amount must be positive", apperr.ErrInvalidPayload)
	}
	res := r.conn(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}
	return r.FindByID(ctx, productID)
}

// SetQuantity overrides the stock count
func (r *GormProductRepository) SetQuantity(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", apperr.ErrInvalidPayload)
	}
	res := r.conn(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to set stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}
	return r.FindByID(ctx, productID)
}
