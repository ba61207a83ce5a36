package query

import (
	"context"
	"fmt"

	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

// ListProductsHandler lists the whole catalogue for staff
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context) ([]domain.Product, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// StockAlert is a product at or below its minimum stock
type StockAlert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	MinStock  int    `json:"min_stock"`
	Status    string `json:"status"`
}

// StockAlertsHandler lists products that need restocking
type StockAlertsHandler struct {
	repo domain.ProductRepository
}

// NewStockAlertsHandler creates a new stock alerts handler
func NewStockAlertsHandler(repo domain.ProductRepository) *StockAlertsHandler {
	return &StockAlertsHandler{repo: repo}
}

// Handle executes the stock alerts query
func (h *StockAlertsHandler) Handle(ctx context.Context) ([]StockAlert, error) {
	products, err := h.repo.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}

	alerts := make([]StockAlert, 0, len(products))
	for _, p := range products {
		alert := StockAlert{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			MinStock:  p.MinStock,
			Status:    p.StockStatus(),
		}
		if p.Category != nil {
			alert.Category = p.Category.Name
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// CheckAvailabilityQuery asks whether a quantity of a product can be ordered now
type CheckAvailabilityQuery struct {
	ProductID string
	Quantity  int
}

// CheckAvailabilityHandler handles check availability query
type CheckAvailabilityHandler struct {
	ledger domain.Ledger
}

// NewCheckAvailabilityHandler creates a new check availability handler
func NewCheckAvailabilityHandler(ledger domain.Ledger) *CheckAvailabilityHandler {
	return &CheckAvailabilityHandler{ledger: ledger}
}

// Handle executes the check availability query
func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (*domain.Availability, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", apperr.ErrInvalidPayload)
	}
	if q.Quantity <= 0 {
		q.Quantity = 1
	}
	return h.ledger.CheckAvailability(ctx, q.ProductID, q.Quantity)
}
