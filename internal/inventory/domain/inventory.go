package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tair/qr-order/pkg/apperr"
)

// Category groups products on the menu
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Products  []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns an id when the caller did not
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Product is a menu item with its on-hand stock. Quantity is only changed
// through the Ledger.
type Product struct {
	ID         string         `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name       string         `json:"name" gorm:"type:varchar(150);not null"`
	PriceCents int64          `json:"price_cents" gorm:"not null"`
	Quantity   int            `json:"quantity" gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0"`
	MinStock   int            `json:"min_stock" gorm:"not null;default:0"`
	Orderable  bool           `json:"orderable" gorm:"not null"`
	CategoryID string         `json:"category_id" gorm:"type:varchar(64);not null;index"`
	Category   *Category      `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns an id when the caller did not
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Stock status labels shown to staff
const (
	StockOut = "out-of-stock"
	StockLow = "low-stock"
	StockIn  = "in-stock"
)

// StockStatus classifies the current quantity against the minimum threshold
func (p *Product) StockStatus() string {
	switch {
	case p.Quantity <= 0:
		return StockOut
	case p.Quantity <= p.MinStock:
		return StockLow
	default:
		return StockIn
	}
}

// IsLowStock reports whether the product is at or below its minimum
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// StockLine is one product and quantity pair of a batch
type StockLine struct {
	ProductID string
	Quantity  int
}

// Availability is the result of a read-only stock check
type Availability struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Current   int    `json:"current"`
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

// InsufficientStockError names the first product of a batch that could not be decremented
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// Is makes the error match apperr.ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == apperr.ErrInsufficientStock
}

// Details is the payload shown to the customer
func (e *InsufficientStockError) Details() interface{} {
	return map[string]interface{}{
		"product_id":   e.ProductID,
		"product_name": e.ProductName,
		"available":    e.Available,
	}
}

// MenuCategory is a category with the products customers can order
type MenuCategory struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// ProductRepository defines the contract for catalogue data access
type ProductRepository interface {
	CreateCategory(ctx context.Context, category *Category) error
	FindCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindLowStock(ctx context.Context) ([]Product, error)
	Menu(ctx context.Context) ([]MenuCategory, error)
}

// Ledger owns product stock counts and keeps them non-negative
type Ledger interface {
	CheckAvailability(ctx context.Context, productID string, requested int) (*Availability, error)
	// ReserveAndDecrement decrements every line or none. It must run inside
	// the caller's transaction.
	ReserveAndDecrement(ctx context.Context, lines []StockLine) error
	Increment(ctx context.Context, productID string, amount int) (*Product, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (*Product, error)
}
