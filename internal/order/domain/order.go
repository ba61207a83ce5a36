package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
)

// Order is a customer's submission for one table. TotalCents is fixed at
// creation and never recomputed.
type Order struct {
	ID         string             `json:"id" gorm:"primaryKey;type:varchar(64)"`
	TableID    string             `json:"table_id" gorm:"type:varchar(64);not null;index"`
	Table      *tabledomain.Table `json:"table,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Items      []OrderItem        `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalCents int64              `json:"total_cents" gorm:"not null"`
	Status     Status             `json:"status" gorm:"type:varchar(16);not null;default:PENDING;index"`
	CreatedAt  time.Time          `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns an id when the caller did not
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}

// OrderItem is one line of an order with the unit price at order time
type OrderItem struct {
	ID         string                   `json:"id" gorm:"primaryKey;type:varchar(64)"`
	OrderID    string                   `json:"order_id" gorm:"type:varchar(64);not null;index"`
	Line       int                      `json:"line" gorm:"not null;default:0"`
	ProductID  string                   `json:"product_id" gorm:"type:varchar(64);not null;index"`
	Product    *inventorydomain.Product `json:"product,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity   int                      `json:"quantity" gorm:"not null;check:chk_order_items_quantity,quantity >= 1"`
	PriceCents int64                    `json:"price_cents" gorm:"not null"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns an id when the caller did not
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// LineTotal is price times quantity in minor units
func (i OrderItem) LineTotal() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// ItemsTotal sums the line totals
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	return total
}

// ListFilter narrows order listings
type ListFilter struct {
	Status  Status
	TableID string
	Limit   int
}

// Repository defines the contract for order data access
type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, error)
	// UpdateStatusIf writes to only when the stored status is still from.
	// It reports whether a row changed.
	UpdateStatusIf(ctx context.Context, id string, from, to Status) (bool, error)
	CountActiveByTable(ctx context.Context, tableID string) (int64, error)
}
