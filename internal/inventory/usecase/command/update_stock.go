package command

import (
	"context"
	"fmt"

	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/logger"
)

// SetStockCommand overrides a product's on-hand quantity
type SetStockCommand struct {
	ProductID string
	Quantity  int
}

// SetStockHandler handles set stock command
type SetStockHandler struct {
	ledger domain.Ledger
	cache  cache.MenuCache
}

// NewSetStockHandler creates a new set stock handler
func NewSetStockHandler(ledger domain.Ledger, menuCache cache.MenuCache) *SetStockHandler {
	return &SetStockHandler{ledger: ledger, cache: menuCache}
}

// Handle executes the set stock command
func (h *SetStockHandler) Handle(ctx context.Context, cmd SetStockCommand) (*domain.Product, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", apperr.ErrInvalidPayload)
	}

	product, err := h.ledger.SetQuantity(ctx, cmd.ProductID, cmd.Quantity)
	if err != nil {
		return nil, err
	}
	// stock decides menu visibility
	h.cache.Invalidate(ctx)

	logger.Info(ctx).
		Str("product_id", product.ID).
		Int("quantity", product.Quantity).
		Str("stock_status", product.StockStatus()).
		Msg("Stock set")
	return product, nil
}

// AddStockCommand restocks a product by a positive amount
type AddStockCommand struct {
	ProductID string
	Amount    int
}

// AddStockHandler handles add stock command
type AddStockHandler struct {
	ledger domain.Ledger
	cache  cache.MenuCache
}

// NewAddStockHandler creates a new add stock handler
func NewAddStockHandler(ledger domain.Ledger, menuCache cache.MenuCache) *AddStockHandler {
	return &AddStockHandler{ledger: ledger, cache: menuCache}
}

// Handle executes the add stock command
func (h *AddStockHandler) Handle(ctx context.Context, cmd AddStockCommand) (*domain.Product, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", apperr.ErrInvalidPayload)
	}

	product, err := h.ledger.Increment(ctx, cmd.ProductID, cmd.Amount)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(ctx)

	logger.Info(ctx).
		Str("product_id", product.ID).
		Int("amount", cmd.Amount).
		Int("quantity", product.Quantity).
		Msg("Stock added")
	return product, nil
}
